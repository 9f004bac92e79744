package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/config"
	"github.com/matthieukhl/shopctl/internal/session"
)

// newClient wires up config, the persisted session and the API client
// for a command invocation.
func newClient() (*api.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	sess, err := session.Open(cfg.Session.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess), nil
}

// printTable renders rows with aligned columns to stdout.
func printTable(header []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func fmtMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
