package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"catalog-cart/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Interactive shopping cart",
	Long: `Runs the numbered cart menu. The cart survives restarts through the
configured store; product stock is checked on every addition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := cart.NewLedger(cmd.Context(), kv, cart.DefaultProducts(), log)
		if err != nil {
			return err
		}
		return runCart(cmd.Context(), ledger, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

func runCart(ctx context.Context, l *cart.Ledger, c *console) error {
	c.println("=== Shopping Cart ===")
	for {
		c.println()
		c.println("1. List products")
		c.println("2. View cart")
		c.println("3. Add product")
		c.println("4. Remove product")
		c.println("5. Clear cart")
		c.println("6. Run self-test")
		c.println("0. Exit")
		choice, ok := c.ask("> ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			listProducts(l, c)
		case "2":
			viewCart(l, c)
		case "3":
			handleAddItem(ctx, l, c)
		case "4":
			handleRemoveItem(ctx, l, c)
		case "5":
			if err := l.Clear(ctx); err != nil {
				c.report("Error clearing cart", err)
			} else {
				c.println("Cart cleared.")
			}
		case "6":
			if err := runSelfTest(ctx, c); err != nil {
				return err
			}
		case "0":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid option.")
		}
	}
}

func listProducts(l *cart.Ledger, c *console) {
	c.printf("%-4s %-20s %12s %6s\n", "ID", "Product", "Price", "Stock")
	c.println(strings.Repeat("-", 45))
	for _, p := range l.Products() {
		c.printf("%-4d %-20s %12s %6d\n", p.ID, truncateString(p.Name, 20), "R$ "+p.UnitPrice.StringFixed(2), p.Stock)
	}
}

func viewCart(l *cart.Ledger, c *console) {
	lines := l.Lines()
	if len(lines) == 0 {
		c.println("Cart is empty.")
		return
	}
	c.printf("%-20s %5s %12s %12s\n", "Product", "Qty", "Unit", "Subtotal")
	c.println(strings.Repeat("-", 52))
	for _, line := range lines {
		c.printf("%-20s %5d %12s %12s\n",
			truncateString(line.Name, 20),
			line.Quantity,
			line.UnitPrice.StringFixed(2),
			line.Subtotal().StringFixed(2))
	}
	c.printf("Total: R$ %s\n", cart.Total(lines).StringFixed(2))
}

func handleAddItem(ctx context.Context, l *cart.Ledger, c *console) {
	id, ok, err := c.askInt("Product ID: ")
	if !ok {
		return
	}
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	qty, ok, err := c.askInt("Quantity: ")
	if !ok {
		return
	}
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	if err := l.AddItem(ctx, id, qty); err != nil {
		c.report("Error adding product", err)
		return
	}
	p, _ := l.Product(id)
	c.printf("Added %d x %s.\n", qty, p.Name)
}

func handleRemoveItem(ctx context.Context, l *cart.Ledger, c *console) {
	id, ok, err := c.askInt("Product ID: ")
	if !ok {
		return
	}
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	qty, ok, err := c.askInt("Quantity: ")
	if !ok {
		return
	}
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	if err := l.RemoveItem(ctx, id, qty); err != nil {
		c.report("Error removing product", err)
		return
	}
	c.println("Cart updated.")
}

func runSelfTest(ctx context.Context, c *console) error {
	checks, err := cart.SelfTest(ctx)
	if err != nil {
		return err
	}
	passed := 0
	for _, ch := range checks {
		mark := "FAIL"
		if ch.Passed {
			mark = "PASS"
			passed++
		}
		c.printf("[%s] %s (%s)\n", mark, ch.Name, ch.Detail)
	}
	c.printf("%d/%d checks passed\n", passed, len(checks))
	return nil
}
