package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"catalog-cart/auth"
	"catalog-cart/cart"
	"catalog-cart/catalog"
	"catalog-cart/inventory"
	"catalog-cart/logger"
	"catalog-cart/password"
	"catalog-cart/store"
)

func scripted(lines ...string) (*console, *bytes.Buffer) {
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return newConsole(in, &out), &out
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func TestCartMenu(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	l, err := cart.NewLedger(ctx, kv, cart.DefaultProducts(), logger.Nop())
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}

	c, out := scripted(
		"1",
		"3", "2", "3", // 3 x Mouse
		"3", "1", "11", // beyond stock
		"3", "x",
		"2",
		"4", "2", "1",
		"9",
		"0",
	)
	if err := runCart(ctx, l, c); err != nil {
		t.Fatalf("run cart: %v", err)
	}

	got := out.String()
	assertContains(t, got, "Notebook")
	assertContains(t, got, "Added 3 x Mouse.")
	assertContains(t, got, "Error adding product: insufficient stock, available: 10")
	assertContains(t, got, "invalid number: x")
	assertContains(t, got, "Total: R$ 150.00")
	assertContains(t, got, "Cart updated.")
	assertContains(t, got, "Invalid option.")
	assertContains(t, got, "Goodbye!")

	lines := l.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", lines)
	}
}

func TestCartSelfTestOption(t *testing.T) {
	l, err := cart.NewLedger(context.Background(), store.NewMemory(), cart.DefaultProducts(), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	c, out := scripted("6", "0")
	if err := runCart(context.Background(), l, c); err != nil {
		t.Fatalf("run cart: %v", err)
	}
	if strings.Contains(out.String(), "[FAIL]") {
		t.Fatalf("self-test failed:\n%s", out.String())
	}
	assertContains(t, out.String(), "8/8 checks passed")
}

func TestLibraryLoop(t *testing.T) {
	ctx := context.Background()
	repo, err := catalog.Open(ctx, store.NewMemory(), logger.Nop())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}

	c, out := scripted(
		"add user", "Ana Souza", "ana@example.com",
		"add user", "", "not-an-email",
		"add book", "Dom Casmurro", "Machado de Assis", "1899", "Romance",
		"loan", "1", "1",
		"list books",
		"delete book", "1",
		"delete user", "1",
		"list loans",
		"return", "1",
		"update user", "does-not-exist", "X", "x@example.com",
		"bogus",
		"exit",
	)
	if err := runLibrary(ctx, repo, c); err != nil {
		t.Fatalf("run library: %v", err)
	}

	got := out.String()
	assertContains(t, got, "Added user 'Ana Souza'")
	assertContains(t, got, "  - Name is required")
	assertContains(t, got, "  - Invalid email format")
	assertContains(t, got, "Added book 'Dom Casmurro'")
	assertContains(t, got, "Book 'Dom Casmurro' loaned to Ana Souza")
	assertContains(t, got, "that is currently loaned")
	assertContains(t, got, "with active loans")
	assertContains(t, got, "active")
	assertContains(t, got, "Book returned and available again.")
	assertContains(t, got, "No user with ID does-not-exist; nothing changed.")
	assertContains(t, got, "Unknown command.")

	if len(repo.ActiveLoans()) != 0 || len(repo.AvailableBooks()) != 1 {
		t.Fatalf("loan not closed: active=%d available=%d", len(repo.ActiveLoans()), len(repo.AvailableBooks()))
	}
}

func TestLibraryStopsAtEndOfInput(t *testing.T) {
	repo, err := catalog.Open(context.Background(), store.NewMemory(), nil)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	c, _ := scripted("add user", "Ana")
	if err := runLibrary(context.Background(), repo, c); err != nil {
		t.Fatalf("run library: %v", err)
	}
	if len(repo.Users()) != 0 {
		t.Fatalf("partial input must not add a user")
	}
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	a, err := auth.New(store.NewMemory(), logger.Nop(), auth.WithCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	if _, err := a.SeedAccounts(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		email, pw, want string
	}{
		{"ana@gmail.com", "Ana12345", "Login successful! Welcome."},
		{"ana@gmail.com", "Ana00000", "Login failed: incorrect password"},
		{"ghost@gmail.com", "Ghost1234", "Login failed: login not found"},
		{"ana", "Ana12345", "Login failed: please enter a valid email"},
	}
	for _, tc := range cases {
		c, out := scripted(tc.email, tc.pw)
		if err := runLogin(ctx, a, c); err != nil {
			t.Fatalf("run login: %v", err)
		}
		assertContains(t, out.String(), tc.want)
	}
}

func TestRegisterFlow(t *testing.T) {
	ctx := context.Background()
	a, err := auth.New(store.NewMemory(), nil, auth.WithCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	c, out := scripted("bia@gmail.com", "Bia@2024x", "Bia@2024y")
	if err := runRegister(ctx, a, c); err != nil {
		t.Fatalf("run register: %v", err)
	}
	assertContains(t, out.String(), "Passwords do not match.")

	c, out = scripted("bia@gmail.com", "Bia@2024x", "Bia@2024x")
	if err := runRegister(ctx, a, c); err != nil {
		t.Fatalf("run register: %v", err)
	}
	assertContains(t, out.String(), "Account bia@gmail.com created.")

	if err := a.Login(ctx, "bia@gmail.com", "Bia@2024x"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestPasswordCheck(t *testing.T) {
	cases := []struct {
		pw   string
		want []string
	}{
		{"", []string{"No password entered."}},
		{"Forte@123", []string{"Strong password!"}},
		{"fraca", []string{"Weak password", "must be at least 8 characters long", "must contain at least one uppercase letter"}},
	}
	for _, tc := range cases {
		c, out := scripted(tc.pw)
		if err := runPasswordCheck(password.DefaultPolicy(), c); err != nil {
			t.Fatalf("password check: %v", err)
		}
		assertContains(t, out.String(), "at least 8 characters")
		for _, w := range tc.want {
			assertContains(t, out.String(), w)
		}
	}
}

func TestPrintInventory(t *testing.T) {
	r := inventory.Summarize(inventory.DefaultItems())

	c, out := scripted()
	if err := printInventory(r, c, false); err != nil {
		t.Fatalf("print inventory: %v", err)
	}
	assertContains(t, out.String(), "Stock value: R$ 2010.00")
	assertContains(t, out.String(), "Stock value with 10% off: R$ 1809.00")
	assertContains(t, out.String(), "Priced above R$ 50.00: 3")

	c, out = scripted()
	if err := printInventory(r, c, true); err != nil {
		t.Fatalf("print inventory json: %v", err)
	}
	assertContains(t, out.String(), `"StockValue": "2010"`)
}

func TestRootCommandWithMemoryStore(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"--store", "memory", "--log-level", "error", "cart"})
	rootCmd.SetIn(strings.NewReader("3\n1\n1\n2\n0\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		storeFlag, logLevel = "", ""
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	assertContains(t, out.String(), "Added 1 x Notebook.")
	assertContains(t, out.String(), "Total: R$ 2500.00")
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("Memórias Póstumas de Brás Cubas", 12); got != "Memórias ..." {
		t.Fatalf("got %q", got)
	}
	if got := truncateString("abc", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
	if got := truncateString("abc", 5); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
