package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsPeriod int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Dashboard stats and sales analytics",
}

var analyticsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show headline numbers for the period",
	RunE:  runAnalyticsStats,
}

var analyticsSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Show the sales-over-time series and top products",
	RunE:  runAnalyticsSales,
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsStatsCmd, analyticsSalesCmd)

	analyticsCmd.PersistentFlags().IntVar(&analyticsPeriod, "period", 30, "Reporting period in days")
}

func runAnalyticsStats(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	stats, err := client.Dashboard.Stats(cmd.Context(), analyticsPeriod)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Last %d days\n\n", stats.PeriodDays)
	fmt.Printf("   Revenue:   %s (%+.1f%%)\n", fmtMoney(stats.TotalRevenue), stats.RevenueChange)
	fmt.Printf("   Orders:    %d (%+.1f%%)\n", stats.TotalOrders, stats.OrdersChange)
	fmt.Printf("   Customers: %d\n", stats.TotalCustomers)
	fmt.Printf("   Products:  %d\n", stats.TotalProducts)
	return nil
}

func runAnalyticsSales(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	a, err := client.Dashboard.Analytics(cmd.Context(), analyticsPeriod)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(a.Sales))
	for _, p := range a.Sales {
		rows = append(rows, []string{p.Date, fmtMoney(p.Revenue), fmt.Sprint(p.Orders)})
	}
	printTable([]string{"DATE", "REVENUE", "ORDERS"}, rows)

	if len(a.TopProducts) > 0 {
		fmt.Println("\n🏆 Top products")
		rows = rows[:0]
		for _, p := range a.TopProducts {
			rows = append(rows, []string{p.Name, fmt.Sprint(p.Sold), fmtMoney(p.Revenue)})
		}
		printTable([]string{"PRODUCT", "SOLD", "REVENUE"}, rows)
	}
	return nil
}
