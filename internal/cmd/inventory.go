package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/models"
)

var alertType string

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Monitor and restock inventory",
}

var inventoryAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List products at or below their stock threshold",
	RunE:  runInventoryAlerts,
}

var inventoryRestockCmd = &cobra.Command{
	Use:   "restock <product-id> <variant-id> <stock>",
	Short: "Set a variant's stock level",
	Args:  cobra.ExactArgs(3),
	RunE:  runInventoryRestock,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryAlertsCmd, inventoryRestockCmd)

	inventoryAlertsCmd.Flags().StringVar(&alertType, "type", "all", "Alert type: all, low or out")
}

func runInventoryAlerts(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	alerts, err := client.Dashboard.InventoryAlerts(cmd.Context(), alertType)
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("✅ No inventory alerts")
		return nil
	}

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		icon := "⚠️"
		if a.Level == models.AlertOut {
			icon = "🚨"
		}
		sku := a.SKU
		if sku == "" {
			sku = "-"
		}
		rows = append(rows, []string{
			icon + " " + string(a.Level), a.ProductName, sku,
			fmt.Sprint(a.Stock), fmt.Sprint(a.Threshold),
		})
	}
	printTable([]string{"LEVEL", "PRODUCT", "SKU", "STOCK", "THRESHOLD"}, rows)
	return nil
}

func runInventoryRestock(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	stock, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parsing stock %q: %w", args[2], err)
	}

	v, err := client.Products.UpdateVariantStock(cmd.Context(), args[0], args[1], stock)
	if err != nil {
		return err
	}

	fmt.Printf("📦 Variant %s stock set to %d\n", v.SKU, v.Stock)
	return nil
}
