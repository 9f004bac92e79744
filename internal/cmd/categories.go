package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
)

var (
	categoryName   string
	categorySlug   string
	categoryParent string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage product categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoriesList,
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE:  runCategoriesCreate,
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesUpdate,
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category (fails if it still has children)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesDelete,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)

	for _, c := range []*cobra.Command{categoriesCreateCmd, categoriesUpdateCmd} {
		c.Flags().StringVar(&categoryName, "name", "", "Category name")
		c.Flags().StringVar(&categorySlug, "slug", "", "URL slug")
		c.Flags().StringVar(&categoryParent, "parent", "", "Parent category ID")
	}
	_ = categoriesCreateCmd.MarkFlagRequired("name")
	_ = categoriesUpdateCmd.MarkFlagRequired("name")
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	categories, _, err := client.Categories.List(cmd.Context(), api.ListOptions{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		parent := "-"
		if c.ParentID != "" {
			parent = c.ParentID
		}
		rows = append(rows, []string{c.ID, c.Name, c.Slug, parent, fmt.Sprint(c.ProductsCount)})
	}
	printTable([]string{"ID", "NAME", "SLUG", "PARENT", "PRODUCTS"}, rows)
	return nil
}

func runCategoriesCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	c, err := client.Categories.Create(cmd.Context(), api.CategoryInput{
		Name:     categoryName,
		Slug:     categorySlug,
		ParentID: categoryParent,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created category %s\n", c.Name)
	return nil
}

func runCategoriesUpdate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	c, err := client.Categories.Update(cmd.Context(), args[0], api.CategoryInput{
		Name:     categoryName,
		Slug:     categorySlug,
		ParentID: categoryParent,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Updated category %s\n", c.Name)
	return nil
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Categories.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("🗑️  Category deleted")
	return nil
}
