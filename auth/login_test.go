package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog-cart/apperr"
	"catalog-cart/logger"
	"catalog-cart/password"
	"catalog-cart/store"
)

func newAuth(t *testing.T, kv store.KV) *Authenticator {
	t.Helper()
	a, err := New(kv, logger.Nop(), WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	return a
}

func seeded(t *testing.T) *Authenticator {
	t.Helper()
	a := newAuth(t, store.NewMemory())
	n, err := a.SeedAccounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return a
}

func TestLoginCheckOrder(t *testing.T) {
	a := seeded(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		email  string
		pw     string
		reason apperr.Reason
	}{
		{name: "empty email", email: "", pw: "Ana12345", reason: apperr.ReasonMissingField},
		{name: "empty password", email: "ana@gmail.com", pw: "", reason: apperr.ReasonMissingField},
		{name: "missing at sign", email: "ana.gmail.com", pw: "x", reason: apperr.ReasonInvalidEmail},
		{name: "short password", email: "nobody@gmail.com", pw: "short", reason: apperr.ReasonPasswordTooShort},
		{name: "unknown account", email: "nobody@gmail.com", pw: "Ana12345", reason: apperr.ReasonAccountNotFound},
		{name: "wrong password", email: "ana@gmail.com", pw: "Ana99999", reason: apperr.ReasonWrongPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := a.Login(ctx, tc.email, tc.pw)
			require.Error(t, err)
			assert.Equal(t, tc.reason, apperr.ReasonOf(err))
		})
	}
}

func TestLoginSucceedsForDemoAccounts(t *testing.T) {
	a := seeded(t)
	for _, c := range DemoAccounts() {
		assert.NoError(t, a.Login(context.Background(), c.Email, c.Password), c.Email)
	}
	assert.NoError(t, a.Login(context.Background(), "  ANA@gmail.com ", "Ana12345"))
}

func TestWrongPasswordIsUnauthorized(t *testing.T) {
	a := seeded(t)
	err := a.Login(context.Background(), "murilo@gmail.com", "Muri54321")
	assert.True(t, errors.Is(err, apperr.ErrWrongPassword))
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestSeedOnlyIntoEmptyStore(t *testing.T) {
	a := seeded(t)
	n, err := a.SeedAccounts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	emails, err := a.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@gmail.com", "francisco@gmail.com", "murilo@gmail.com"}, emails)
}

func TestAccountsStoredAsHashes(t *testing.T) {
	kv := store.NewMemory()
	a := newAuth(t, kv)
	_, err := a.SeedAccounts(context.Background())
	require.NoError(t, err)

	accounts, err := store.Load[Account](context.Background(), kv, store.KeyAccounts)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for _, acc := range accounts {
		assert.NotContains(t, acc.PasswordHash, "12345")
		_, err := bcrypt.Cost([]byte(acc.PasswordHash))
		assert.NoError(t, err)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	a := newAuth(t, kv)

	require.NoError(t, a.Register(ctx, "bia@gmail.com", "Bia@2024x"))
	require.NoError(t, a.Login(ctx, "bia@gmail.com", "Bia@2024x"))

	err := a.Register(ctx, "BIA@gmail.com", "Other#123")
	assert.Equal(t, apperr.ReasonAccountExists, apperr.ReasonOf(err))
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	err = a.Register(ctx, "weak@gmail.com", "weakpass")
	require.Error(t, err)
	e := apperr.As(err)
	require.NotNil(t, e)
	assert.Equal(t, apperr.ReasonWeakPassword, e.Reason())
	assert.NotEmpty(t, e.Details())

	err = a.Register(ctx, "no-at-sign", "Bia@2024x")
	assert.Equal(t, apperr.ReasonInvalidEmail, apperr.ReasonOf(err))

	// Reopening over the same store sees the registered account.
	again := newAuth(t, kv)
	assert.NoError(t, again.Login(ctx, "bia@gmail.com", "Bia@2024x"))
}

func TestRegisterHonoursPolicy(t *testing.T) {
	a, err := New(store.NewMemory(), nil,
		WithCost(bcrypt.MinCost),
		WithPolicy(password.Policy{MinLength: 4}))
	require.NoError(t, err)
	assert.NoError(t, a.Register(context.Background(), "x@y.z", "abcd"))
}

func TestNewRejectsBadCost(t *testing.T) {
	_, err := New(store.NewMemory(), nil, WithCost(99))
	assert.Error(t, err)
	_, err = New(nil, nil)
	assert.Error(t, err)
}

type failingKV struct{ store.KV }

func (failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestRegisterStorageFailure(t *testing.T) {
	a := newAuth(t, failingKV{store.NewMemory()})
	err := a.Register(context.Background(), "bia@gmail.com", "Bia@2024x")
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	emails, err := a.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}
