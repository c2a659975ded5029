package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"catalog-cart/inventory"
)

var inventoryJSON bool

var inventoryCmd = &cobra.Command{
	Use:         "inventory",
	Short:       "Print the stock valuation report",
	Annotations: map[string]string{"store": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInventory(inventory.Summarize(inventory.DefaultItems()),
			newConsole(cmd.InOrStdin(), cmd.OutOrStdout()), inventoryJSON)
	},
}

func init() {
	inventoryCmd.Flags().BoolVar(&inventoryJSON, "json", false, "Emit the report as JSON")
}

func printInventory(r inventory.Report, c *console, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	c.printf("%-12s %10s %5s %12s %12s\n", "Item", "Price", "Qty", "Value", "-"+r.DiscountPercent.String()+"%")
	c.println(strings.Repeat("-", 55))
	for _, it := range r.DiscountedListings {
		c.printf("%-12s %10s %5d %12s %12s\n",
			truncateString(it.Name, 12),
			it.Price.StringFixed(2),
			it.Quantity,
			it.Value().StringFixed(2),
			it.Discounted.StringFixed(2))
	}
	c.println()
	c.printf("Items: %d (%d units)\n", r.Items, r.Units)
	c.printf("Stock value: R$ %s\n", r.StockValue.StringFixed(2))
	c.printf("Stock value with %s%% off: R$ %s\n", r.DiscountPercent.String(), r.DiscountedValue.StringFixed(2))
	c.printf("Priced above R$ %s: %d\n", r.Threshold.StringFixed(2), len(r.Premium))
	for _, it := range r.Premium {
		c.printf("  - %s (R$ %s)\n", it.Name, it.Price.StringFixed(2))
	}
	return nil
}
