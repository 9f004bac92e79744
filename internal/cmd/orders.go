package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/models"
)

var (
	orderSearch   string
	orderPage     int
	orderPageSize int
	orderStatus   string

	paymentStatusFlag string
	exportPath        string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage orders and their status lifecycle",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE:  runOrdersList,
}

var ordersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersGet,
}

var ordersSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Move an order to a new status",
	Long: `Move an order along its lifecycle. Only transitions allowed by the
status graph are accepted:

  pending    -> confirmed, cancelled
  confirmed  -> shipped, cancelled
  shipped    -> delivered
  delivered  -> refunded

Cancelled and refunded orders cannot change status again.`,
	Args: cobra.ExactArgs(2),
	RunE: runOrdersSetStatus,
}

var ordersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order volume and revenue totals",
	RunE:  runOrdersStats,
}

var ordersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the order export as CSV",
	RunE:  runOrdersExport,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersGetCmd, ordersSetStatusCmd, ordersStatsCmd, ordersExportCmd)

	ordersListCmd.Flags().StringVar(&orderSearch, "search", "", "Filter by free-text search")
	ordersListCmd.Flags().IntVar(&orderPage, "page", 1, "Page number")
	ordersListCmd.Flags().IntVar(&orderPageSize, "page-size", 20, "Results per page")
	ordersListCmd.Flags().StringVar(&orderStatus, "status", "", "Filter by status")

	ordersSetStatusCmd.Flags().StringVar(&paymentStatusFlag, "payment-status", "", "Also set the payment status (pending|paid|failed|refunded)")

	ordersExportCmd.Flags().StringVar(&exportPath, "out", "orders.csv", "Output file path")
	ordersExportCmd.Flags().StringVar(&orderStatus, "status", "", "Filter by status")
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	orders, total, err := client.Orders.List(cmd.Context(), api.OrderListOptions{
		ListOptions: api.ListOptions{Search: orderSearch, Page: orderPage, PageSize: orderPageSize},
		Status:      models.OrderStatus(orderStatus),
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID, o.OrderNumber, string(o.Status), string(o.PaymentStatus),
			fmtMoney(o.TotalPrice), o.Customer.Email,
		})
	}
	printTable([]string{"ID", "NUMBER", "STATUS", "PAYMENT", "TOTAL", "CUSTOMER"}, rows)
	fmt.Printf("\n%d order(s) total\n", total)
	return nil
}

func runOrdersGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	o, err := client.Orders.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("🧾 %s — %s\n", o.OrderNumber, o.Customer.Name)
	fmt.Printf("   Status: %s | Payment: %s (%s) | Total: %s\n",
		o.Status, o.PaymentStatus, o.PaymentMethod, fmtMoney(o.TotalPrice))
	for _, item := range o.Items {
		fmt.Printf("   %dx %s  %s\n", item.Quantity, item.ProductName, fmtMoney(item.UnitPrice))
	}

	allowed := models.AllowedTransitions(o.Status)
	if len(allowed) == 0 {
		fmt.Println("   Status is final; no further transitions allowed.")
	} else {
		targets := make([]string, len(allowed))
		for i, t := range allowed {
			targets[i] = string(t)
		}
		fmt.Printf("   Next status options: %s\n", strings.Join(targets, ", "))
	}
	return nil
}

func runOrdersSetStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	order, err := client.Orders.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	target := models.OrderStatus(args[1])
	updated, err := client.Orders.UpdateStatus(cmd.Context(), order, target, models.PaymentStatus(paymentStatusFlag))
	if err != nil {
		return err
	}

	fmt.Printf("✅ Order %s is now %s\n", updated.OrderNumber, updated.Status)
	return nil
}

func runOrdersStats(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	stats, err := client.Orders.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("📊 Orders: %d total\n", stats.TotalOrders)
	fmt.Printf("   Pending: %d | Shipped: %d | Delivered: %d | Cancelled: %d\n",
		stats.PendingOrders, stats.ShippedOrders, stats.DeliveredOrders, stats.CancelledOrders)
	fmt.Printf("   Revenue: %s\n", fmtMoney(stats.TotalRevenue))
	return nil
}

func runOrdersExport(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	data, err := client.Orders.Export(cmd.Context(), api.OrderListOptions{
		Status: models.OrderStatus(orderStatus),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("✅ Exported %d bytes to %s\n", len(data), exportPath)
	return nil
}
