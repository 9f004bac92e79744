package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "shopctl - e-commerce dashboard administration from the terminal",
	Long: `shopctl is a command-line client for the store's admin dashboard API.

It manages products, orders, customers, coupons, categories, attributes
and inventory, shows analytics, and keeps your session fresh by silently
refreshing the access token when it expires.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
