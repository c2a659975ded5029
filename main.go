package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catalog-cart/config"
	"catalog-cart/logger"
	"catalog-cart/store"
)

var (
	// Global flags
	configPath string
	storeFlag  string
	dbPath     string
	logLevel   string

	// Set up by PersistentPreRunE; released by PersistentPostRun.
	cfg *config.Config
	log *logger.Logger
	kv  store.KV
)

var rootCmd = &cobra.Command{
	Use:   "catalog-cart",
	Short: "Shopping cart and library catalog console",
	Long: `catalog-cart keeps a shopping cart and a small library catalog
(users, books, loans) in a persistent key-value store.

The store is SQLite by default; Redis and an in-memory store are available
through --store or the CATALOG_STORE__DRIVER environment variable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if storeFlag != "" {
			cfg.Store.Driver = storeFlag
		}
		if dbPath != "" {
			cfg.Store.Path = dbPath
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log = logger.New(logger.Options{
			Component: "catalog-cart",
			Level:     logger.ParseLevel(cfg.Log.Level),
			Format:    cfg.Log.Format,
			Output:    cmd.ErrOrStderr(),
		})

		if cmd.Annotations["store"] == "none" {
			return nil
		}
		kv, err = store.Open(cmd.Context(), *cfg)
		if err != nil {
			return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if kv != nil {
			if err := kv.Close(); err != nil {
				log.Warn(cmd.Context(), "close store", err)
			}
			kv = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store driver: sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
