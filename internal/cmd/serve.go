package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/config"
	"github.com/matthieukhl/shopctl/internal/server"
)

var (
	serveAddr   string
	serveNoSeed bool
)

var serveDevCmd = &cobra.Command{
	Use:   "serve-dev",
	Short: "Run the in-memory dev API server",
	Long: `Run an in-memory implementation of the dashboard API, seeded with
sample data, so the other commands can be used without a production
backend. All state is lost on exit.`,
	RunE: runServeDev,
}

func init() {
	rootCmd.AddCommand(serveDevCmd)

	serveDevCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveDevCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "Start with an empty store")
}

func runServeDev(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dev := cfg.Dev
	if serveAddr != "" {
		dev.Addr = serveAddr
	}
	if serveNoSeed {
		dev.Seed = false
	}

	srv := server.NewServer(&dev)

	fmt.Printf("🚀 Dev API listening on http://%s/dashboard\n", dev.Addr)
	if dev.Seed {
		fmt.Println("   Seeded admin: admin@example.com / admin123")
	}
	return srv.Start(dev.Addr)
}
