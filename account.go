package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"catalog-cart/auth"
	"catalog-cart/password"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check an email and password against the stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAuthenticator(cmd.Context())
		if err != nil {
			return err
		}
		return runLogin(cmd.Context(), a, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account, enforcing the password policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAuthenticator(cmd.Context())
		if err != nil {
			return err
		}
		return runRegister(cmd.Context(), a, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

var passwordCmd = &cobra.Command{
	Use:         "password",
	Short:       "Check a password against the strength policy",
	Annotations: map[string]string{"store": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := password.PolicyFromConfig(cfg.Password)
		return runPasswordCheck(policy, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

func newAuthenticator(ctx context.Context) (*auth.Authenticator, error) {
	a, err := auth.New(kv, log,
		auth.WithCost(cfg.Auth.BcryptCost),
		auth.WithPolicy(password.PolicyFromConfig(cfg.Password)))
	if err != nil {
		return nil, err
	}
	if cfg.Auth.SeedAccounts {
		if _, err := a.SeedAccounts(ctx); err != nil {
			return nil, fmt.Errorf("seed accounts: %w", err)
		}
	}
	return a, nil
}

func runLogin(ctx context.Context, a *auth.Authenticator, c *console) error {
	email, ok := c.ask("Email: ")
	if !ok {
		return nil
	}
	pw, ok, err := c.readPassword("Password: ")
	if err != nil || !ok {
		return err
	}
	if err := a.Login(ctx, email, pw); err != nil {
		c.report("Login failed", err)
		return nil
	}
	c.println("Login successful! Welcome.")
	return nil
}

func runRegister(ctx context.Context, a *auth.Authenticator, c *console) error {
	email, ok := c.ask("Email: ")
	if !ok {
		return nil
	}
	pw, ok, err := c.readPassword("Password: ")
	if err != nil || !ok {
		return err
	}
	confirm, ok, err := c.readPassword("Confirm password: ")
	if err != nil || !ok {
		return err
	}
	if pw != confirm {
		c.println("Passwords do not match.")
		return nil
	}
	if err := a.Register(ctx, email, pw); err != nil {
		c.report("Registration failed", err)
		return nil
	}
	c.printf("Account %s created.\n", email)
	return nil
}

func runPasswordCheck(policy password.Policy, c *console) error {
	c.println("Password requirements:")
	for _, r := range policy.Rules() {
		c.printf("  - %s\n", r)
	}
	pw, ok, err := c.readPassword("Password: ")
	if err != nil || !ok {
		return err
	}
	if pw == "" {
		c.println("No password entered.")
		return nil
	}
	if err := policy.Validate(pw); err != nil {
		c.report("Weak password", err)
		return nil
	}
	c.println("Strong password!")
	return nil
}
