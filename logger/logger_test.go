package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONOutputCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Component: "cart", Level: zerolog.InfoLevel, Format: "json", Output: &buf})

	ctx := log.WithFields(context.Background(), map[string]any{"product_id": 3})
	log.Warn(ctx, "add rejected", errors.New("insufficient stock"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "cart" {
		t.Fatalf("component = %v", entry["component"])
	}
	if entry["product_id"] != float64(3) {
		t.Fatalf("product_id = %v", entry["product_id"])
	}
	if entry["error"] != "insufficient stock" {
		t.Fatalf("error = %v", entry["error"])
	}
	if entry["level"] != "warn" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: zerolog.InfoLevel, Output: &buf})
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered, got %q", buf.String())
	}
}

func TestNopIsSilent(t *testing.T) {
	log := Nop().Named("repo")
	log.Info(context.Background(), "nothing")
	log.Error(context.TODO(), "still nothing", errors.New("x"))
}
