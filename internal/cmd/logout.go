package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Auth.Logout(cmd.Context()); err != nil {
		// The local session is gone either way; the server-side
		// revocation failing is worth mentioning but not fatal.
		fmt.Printf("⚠️  Could not revoke token server-side: %v\n", err)
	}

	fmt.Println("✅ Logged out")
	return nil
}
