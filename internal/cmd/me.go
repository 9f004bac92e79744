package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
)

var (
	meName       string
	meEmail      string
	meAvatarPath string

	oldPassword string
	newPassword string
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in user's profile",
	RunE:  runMe,
}

var meUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile (name, email, avatar)",
	RunE:  runMeUpdate,
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	RunE:  runChangePassword,
}

func init() {
	rootCmd.AddCommand(meCmd)
	meCmd.AddCommand(meUpdateCmd)
	meCmd.AddCommand(changePasswordCmd)

	meUpdateCmd.Flags().StringVar(&meName, "name", "", "New display name")
	meUpdateCmd.Flags().StringVar(&meEmail, "email", "", "New email address")
	meUpdateCmd.Flags().StringVar(&meAvatarPath, "avatar", "", "Path to an avatar image to upload")

	changePasswordCmd.Flags().StringVar(&oldPassword, "old", "", "Current password")
	changePasswordCmd.Flags().StringVar(&newPassword, "new", "", "New password (min 8 characters)")
	_ = changePasswordCmd.MarkFlagRequired("old")
	_ = changePasswordCmd.MarkFlagRequired("new")
}

func runMe(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	user, err := client.Auth.Me(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("👤 %s\n", user.Name)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Role:  %s\n", user.Role)
	if user.Avatar != "" {
		fmt.Printf("   Avatar: %s\n", user.Avatar)
	}
	return nil
}

func runMeUpdate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	input := api.UpdateMeInput{Name: meName, Email: meEmail}
	if meAvatarPath != "" {
		data, err := os.ReadFile(meAvatarPath)
		if err != nil {
			return fmt.Errorf("failed to read avatar file: %w", err)
		}
		input.Avatar = data
		input.AvatarFilename = filepath.Base(meAvatarPath)
	}

	user, err := client.Auth.UpdateMe(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Profile updated: %s (%s)\n", user.Name, user.Email)
	return nil
}

func runChangePassword(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	err = client.Auth.ChangePassword(cmd.Context(), api.ChangePasswordInput{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}

	fmt.Println("✅ Password changed")
	return nil
}
