package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
)

var (
	customerSearch   string
	customerPage     int
	customerPageSize int

	adminName     string
	adminEmail    string
	adminPassword string
	adminRole     string

	roleName  string
	rolePerms []string
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage storefront customers",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	RunE:  runCustomersList,
}

var customersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersGet,
}

var customersBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Toggle a customer's blocked flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersBlock,
}

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage dashboard admin accounts",
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admin accounts",
	RunE:  runAdminsList,
}

var adminsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE:  runAdminsCreate,
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage admin roles",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	RunE:  runRolesList,
}

var rolesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a role",
	RunE:  runRolesCreate,
}

func init() {
	rootCmd.AddCommand(customersCmd, adminsCmd, rolesCmd)
	customersCmd.AddCommand(customersListCmd, customersGetCmd, customersBlockCmd)
	adminsCmd.AddCommand(adminsListCmd, adminsCreateCmd)
	rolesCmd.AddCommand(rolesListCmd, rolesCreateCmd)

	customersListCmd.Flags().StringVar(&customerSearch, "search", "", "Filter by free-text search")
	customersListCmd.Flags().IntVar(&customerPage, "page", 1, "Page number")
	customersListCmd.Flags().IntVar(&customerPageSize, "page-size", 20, "Results per page")

	adminsCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	adminsCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Email address")
	adminsCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Initial password (min 8 characters)")
	adminsCreateCmd.Flags().StringVar(&adminRole, "role", "", "Role name")
	for _, flag := range []string{"name", "email", "password", "role"} {
		_ = adminsCreateCmd.MarkFlagRequired(flag)
	}

	rolesCreateCmd.Flags().StringVar(&roleName, "name", "", "Role name")
	rolesCreateCmd.Flags().StringSliceVar(&rolePerms, "permission", nil, "Permission to grant (repeatable)")
	_ = rolesCreateCmd.MarkFlagRequired("name")
}

func runCustomersList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	customers, total, err := client.Customers.List(cmd.Context(), api.ListOptions{
		Search:   customerSearch,
		Page:     customerPage,
		PageSize: customerPageSize,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			c.ID, c.Name, c.Email, fmt.Sprint(c.OrdersCount),
			fmtMoney(c.TotalSpent), yesNo(c.IsBlocked),
		})
	}
	printTable([]string{"ID", "NAME", "EMAIL", "ORDERS", "SPENT", "BLOCKED"}, rows)
	fmt.Printf("\n%d customer(s) total\n", total)
	return nil
}

func runCustomersGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	c, err := client.Customers.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("👤 %s <%s>\n", c.Name, c.Email)
	fmt.Printf("   Orders: %d | Spent: %s | Blocked: %s\n",
		c.OrdersCount, fmtMoney(c.TotalSpent), yesNo(c.IsBlocked))
	return nil
}

func runCustomersBlock(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	c, err := client.Customers.ToggleBlock(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if c.IsBlocked {
		fmt.Printf("🚫 %s is now blocked\n", c.Name)
	} else {
		fmt.Printf("✅ %s is no longer blocked\n", c.Name)
	}
	return nil
}

func runAdminsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	admins, _, err := client.Customers.Admins(cmd.Context(), api.ListOptions{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(admins))
	for _, a := range admins {
		rows = append(rows, []string{a.ID, a.Name, a.Email, a.Role})
	}
	printTable([]string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
	return nil
}

func runAdminsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	a, err := client.Customers.CreateAdmin(cmd.Context(), api.AdminInput{
		Name:     adminName,
		Email:    adminEmail,
		Password: adminPassword,
		Role:     adminRole,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created admin %s (%s)\n", a.Name, a.Email)
	return nil
}

func runRolesList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	roles, err := client.Customers.Roles(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{r.ID, r.Name, strings.Join(r.Permissions, ",")})
	}
	printTable([]string{"ID", "NAME", "PERMISSIONS"}, rows)
	return nil
}

func runRolesCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	r, err := client.Customers.CreateRole(cmd.Context(), api.RoleInput{
		Name:        roleName,
		Permissions: rolePerms,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created role %s\n", r.Name)
	return nil
}
