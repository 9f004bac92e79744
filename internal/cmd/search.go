package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products, orders and customers at once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Max results per resource type")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	agg := search.New(search.ClientSources(client), search.WithLimit(searchLimit))
	res := agg.Lookup(cmd.Context(), query)

	if res.Empty() {
		fmt.Printf("🔍 No matches for %q\n", query)
		return nil
	}

	if len(res.Products) > 0 {
		fmt.Println("📦 Products")
		for _, p := range res.Products {
			fmt.Printf("   %s  %s  %s\n", p.ID, p.Name, fmtMoney(p.Price))
		}
	}
	if len(res.Orders) > 0 {
		fmt.Println("🧾 Orders")
		for _, o := range res.Orders {
			fmt.Printf("   %s  %s  %s  %s\n", o.ID, o.OrderNumber, o.Status, fmtMoney(o.TotalPrice))
		}
	}
	if len(res.Customers) > 0 {
		fmt.Println("👤 Customers")
		for _, c := range res.Customers {
			fmt.Printf("   %s  %s  <%s>\n", c.ID, c.Name, c.Email)
		}
	}
	return nil
}
