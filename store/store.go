// Package store persists named text blobs in a key-value backend and encodes
// record sequences into those blobs.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Fixed keys, one blob per collection.
const (
	KeyUsers    = "library_users"
	KeyBooks    = "library_books"
	KeyLoans    = "library_loans"
	KeyCart     = "carrinho"
	KeyAccounts = "accounts"
)

// KV stores one text value per key. Get on a missing key returns "" and a nil
// error. Set overwrites; the last write wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Load decodes the record sequence stored under key. A missing or empty blob
// yields an empty, non-nil slice.
func Load[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save encodes records and writes them under key.
func Save[T any](ctx context.Context, kv KV, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Clear removes the blob stored under key.
func Clear(ctx context.Context, kv KV, key string) error {
	if err := kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
