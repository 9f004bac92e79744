package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/models"
)

var (
	couponCode     string
	couponType     string
	couponValue    float64
	couponMinOrder float64
	couponMaxUses  int
	couponInactive bool
	couponExpires  string

	couponValidateAmount float64
)

var couponsCmd = &cobra.Command{
	Use:   "coupons",
	Short: "Manage discount coupons",
}

var couponsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List coupons",
	RunE:  runCouponsList,
}

var couponsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a coupon",
	RunE:  runCouponsCreate,
}

var couponsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a coupon's active flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runCouponsToggle,
}

var couponsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a coupon",
	Args:  cobra.ExactArgs(1),
	RunE:  runCouponsDelete,
}

var couponsValidateCmd = &cobra.Command{
	Use:   "validate <code>",
	Short: "Check a coupon code against an order amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runCouponsValidate,
}

func init() {
	rootCmd.AddCommand(couponsCmd)
	couponsCmd.AddCommand(couponsListCmd, couponsCreateCmd, couponsToggleCmd, couponsDeleteCmd, couponsValidateCmd)

	couponsCreateCmd.Flags().StringVar(&couponCode, "code", "", "Coupon code")
	couponsCreateCmd.Flags().StringVar(&couponType, "type", "percentage", "Discount type: percentage or fixed")
	couponsCreateCmd.Flags().Float64Var(&couponValue, "value", 0, "Discount value")
	couponsCreateCmd.Flags().Float64Var(&couponMinOrder, "min-order", 0, "Minimum order amount")
	couponsCreateCmd.Flags().IntVar(&couponMaxUses, "max-uses", 0, "Maximum redemptions (0 = unlimited)")
	couponsCreateCmd.Flags().BoolVar(&couponInactive, "inactive", false, "Create the coupon disabled")
	couponsCreateCmd.Flags().StringVar(&couponExpires, "expires", "", "Expiry date (YYYY-MM-DD)")
	_ = couponsCreateCmd.MarkFlagRequired("code")
	_ = couponsCreateCmd.MarkFlagRequired("value")

	couponsValidateCmd.Flags().Float64Var(&couponValidateAmount, "amount", 0, "Order amount to validate against")
	_ = couponsValidateCmd.MarkFlagRequired("amount")
}

func runCouponsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	coupons, total, err := client.Coupons.List(cmd.Context(), api.ListOptions{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(coupons))
	for _, c := range coupons {
		value := fmtMoney(c.Value)
		if c.Type == models.CouponPercentage {
			value = fmt.Sprintf("%.0f%%", c.Value)
		}
		expires := "-"
		if c.ExpiresAt != nil {
			expires = c.ExpiresAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			c.ID, c.Code, string(c.Type), value,
			fmt.Sprintf("%d/%d", c.UsedCount, c.MaxUses),
			yesNo(c.IsActive), expires,
		})
	}
	printTable([]string{"ID", "CODE", "TYPE", "VALUE", "USED", "ACTIVE", "EXPIRES"}, rows)
	fmt.Printf("\n%d coupon(s) total\n", total)
	return nil
}

func runCouponsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	input := api.CouponInput{
		Code:           couponCode,
		Type:           models.CouponType(couponType),
		Value:          couponValue,
		MinOrderAmount: couponMinOrder,
		MaxUses:        couponMaxUses,
		IsActive:       !couponInactive,
	}
	if couponExpires != "" {
		t, err := time.Parse("2006-01-02", couponExpires)
		if err != nil {
			return fmt.Errorf("parsing --expires: %w", err)
		}
		input.ExpiresAt = &t
	}

	c, err := client.Coupons.Create(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created coupon %s\n", c.Code)
	return nil
}

func runCouponsToggle(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	current, err := client.Coupons.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	c, err := client.Coupons.Patch(cmd.Context(), args[0], map[string]any{
		"is_active": !current.IsActive,
	})
	if err != nil {
		return err
	}

	if c.IsActive {
		fmt.Printf("✅ Coupon %s is now active\n", c.Code)
	} else {
		fmt.Printf("💤 Coupon %s is now inactive\n", c.Code)
	}
	return nil
}

func runCouponsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Coupons.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("🗑️  Coupon deleted")
	return nil
}

func runCouponsValidate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	v, err := client.Coupons.Validate(cmd.Context(), args[0], couponValidateAmount)
	if err != nil {
		return err
	}

	if v.Valid {
		fmt.Printf("✅ Code %s is valid: discount %s\n", args[0], fmtMoney(v.Discount))
	} else {
		fmt.Printf("❌ Code %s is not valid: %s\n", args[0], v.Reason)
	}
	return nil
}
