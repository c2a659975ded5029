// Package auth validates console logins against bcrypt-hashed accounts kept in
// the persistent store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"catalog-cart/apperr"
	"catalog-cart/logger"
	"catalog-cart/password"
	"catalog-cart/store"
)

// MinLoginLength is the shortest password Login will look up.
const MinLoginLength = 8

// Account is one persisted credential.
type Account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Credentials is a plain-text email and password pair, used for seeding.
type Credentials struct {
	Email    string
	Password string
}

// DemoAccounts returns the accounts SeedAccounts installs into an empty store.
func DemoAccounts() []Credentials {
	return []Credentials{
		{Email: "ana@gmail.com", Password: "Ana12345"},
		{Email: "francisco@gmail.com", Password: "Fran9876"},
		{Email: "murilo@gmail.com", Password: "Muri5432"},
	}
}

type Authenticator struct {
	mu     sync.Mutex
	kv     store.KV
	cost   int
	policy password.Policy
	log    *logger.Logger
}

type Option func(*Authenticator)

// WithCost sets the bcrypt cost for new hashes.
func WithCost(cost int) Option {
	return func(a *Authenticator) { a.cost = cost }
}

// WithPolicy sets the strength policy enforced by Register.
func WithPolicy(p password.Policy) Option {
	return func(a *Authenticator) { a.policy = p }
}

func New(kv store.KV, log *logger.Logger, opts ...Option) (*Authenticator, error) {
	if kv == nil {
		return nil, fmt.Errorf("auth store required")
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &Authenticator{
		kv:     kv,
		cost:   bcrypt.DefaultCost,
		policy: password.DefaultPolicy(),
		log:    log.Named("auth"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cost < bcrypt.MinCost || a.cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", a.cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return a, nil
}

// Login applies the checks in order and stops at the first failure: both
// fields present, email shape, password length, account lookup, password
// match.
func (a *Authenticator) Login(ctx context.Context, email, pw string) error {
	email = strings.TrimSpace(email)
	ctx = a.log.WithField(ctx, "email", email)

	if err := checkFields(email, pw); err != nil {
		return a.reject(ctx, err)
	}
	if utf8.RuneCountInString(pw) < MinLoginLength {
		return a.reject(ctx, apperr.Newf(apperr.ReasonPasswordTooShort,
			"password must be at least %d characters long", MinLoginLength))
	}

	a.mu.Lock()
	accounts, err := a.accounts(ctx)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	acc, ok := find(accounts, email)
	if !ok {
		return a.reject(ctx, apperr.ErrAccountNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(pw)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return a.reject(ctx, apperr.ErrWrongPassword)
		}
		return apperr.Wrap(apperr.ReasonStorage, err, "compare password hash")
	}
	a.log.Info(ctx, "login succeeded")
	return nil
}

// Register adds an account after checking the email and the strength policy.
func (a *Authenticator) Register(ctx context.Context, email, pw string) error {
	email = strings.TrimSpace(email)
	ctx = a.log.WithField(ctx, "email", email)

	if err := checkFields(email, pw); err != nil {
		return a.reject(ctx, err)
	}
	if err := a.policy.Validate(pw); err != nil {
		return a.reject(ctx, apperr.As(err))
	}
	return a.add(ctx, []Credentials{{Email: email, Password: pw}}, false)
}

// SeedAccounts installs DemoAccounts when no account exists yet. The demo
// passwords predate the strength policy, so it is not applied here.
func (a *Authenticator) SeedAccounts(ctx context.Context) (int, error) {
	a.mu.Lock()
	existing, err := a.accounts(ctx)
	a.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	demo := DemoAccounts()
	if err := a.add(ctx, demo, true); err != nil {
		return 0, err
	}
	return len(demo), nil
}

// Accounts lists the registered emails in insertion order.
func (a *Authenticator) Accounts(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	accounts, err := a.accounts(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		emails = append(emails, acc.Email)
	}
	return emails, nil
}

func (a *Authenticator) add(ctx context.Context, creds []Credentials, seeding bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	accounts, err := a.accounts(ctx)
	if err != nil {
		return err
	}
	for _, c := range creds {
		if _, exists := find(accounts, c.Email); exists {
			return a.reject(ctx, apperr.Newf(apperr.ReasonAccountExists, "account %s already exists", c.Email))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), a.cost)
		if err != nil {
			return apperr.Wrap(apperr.ReasonInvalidInput, err, "hash password")
		}
		accounts = append(accounts, Account{Email: c.Email, PasswordHash: string(hash)})
	}
	if err := store.Save(ctx, a.kv, store.KeyAccounts, accounts); err != nil {
		a.log.Error(ctx, "persist accounts", err)
		return apperr.Wrap(apperr.ReasonStorage, err, "persist accounts")
	}
	if seeding {
		a.log.Info(a.log.WithField(ctx, "count", len(creds)), "demo accounts seeded")
	} else {
		a.log.Info(ctx, "account registered")
	}
	return nil
}

func (a *Authenticator) accounts(ctx context.Context) ([]Account, error) {
	accounts, err := store.Load[Account](ctx, a.kv, store.KeyAccounts)
	if err != nil {
		return nil, apperr.Wrap(apperr.ReasonStorage, err, "load accounts")
	}
	return accounts, nil
}

func (a *Authenticator) reject(ctx context.Context, err *apperr.Error) error {
	a.log.Warn(ctx, "login rejected", err)
	return err
}

func checkFields(email, pw string) *apperr.Error {
	if email == "" || pw == "" {
		return apperr.New(apperr.ReasonMissingField, "please fill in all fields")
	}
	if !strings.Contains(email, "@") {
		return apperr.New(apperr.ReasonInvalidEmail, "please enter a valid email")
	}
	return nil
}

// find compares emails case-insensitively.
func find(accounts []Account, email string) (Account, bool) {
	for _, acc := range accounts {
		if strings.EqualFold(acc.Email, email) {
			return acc, true
		}
	}
	return Account{}, false
}
