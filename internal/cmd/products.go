package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
)

var (
	productSearch   string
	productPage     int
	productPageSize int
	productCategory string

	productName  string
	productDesc  string
	productPrice float64
	productStock int
	productCat   string
	productOn    bool
	productImgs  []string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE:  runProductsList,
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product with its variants",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsGet,
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE:  runProductsCreate,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsUpdate,
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsDelete,
}

var variantsCmd = &cobra.Command{
	Use:   "variants <product-id>",
	Short: "List a product's variants",
	Args:  cobra.ExactArgs(1),
	RunE:  runVariantsList,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd, variantsCmd)

	productsListCmd.Flags().StringVar(&productSearch, "search", "", "Filter by free-text search")
	productsListCmd.Flags().IntVar(&productPage, "page", 1, "Page number")
	productsListCmd.Flags().IntVar(&productPageSize, "page-size", 20, "Results per page")
	productsListCmd.Flags().StringVar(&productCategory, "category", "", "Filter by category ID")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&productName, "name", "", "Product name")
		c.Flags().StringVar(&productDesc, "description", "", "Product description")
		c.Flags().Float64Var(&productPrice, "price", 0, "Unit price")
		c.Flags().IntVar(&productStock, "stock", 0, "Stock level")
		c.Flags().StringVar(&productCat, "category-id", "", "Category ID")
		c.Flags().BoolVar(&productOn, "active", true, "Whether the product is visible")
		c.Flags().StringSliceVar(&productImgs, "image", nil, "Image file to upload (repeatable)")
	}
	_ = productsCreateCmd.MarkFlagRequired("name")
	_ = productsUpdateCmd.MarkFlagRequired("name")
}

func productInput() (api.ProductInput, error) {
	input := api.ProductInput{
		Name:        productName,
		Description: productDesc,
		Price:       productPrice,
		Stock:       productStock,
		CategoryID:  productCat,
		IsActive:    productOn,
	}
	for _, path := range productImgs {
		data, err := os.ReadFile(path)
		if err != nil {
			return input, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		input.Images = append(input.Images, api.ProductImageUpload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return input, nil
}

func runProductsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	products, total, err := client.Products.List(cmd.Context(), api.ProductListOptions{
		ListOptions: api.ListOptions{Search: productSearch, Page: productPage, PageSize: productPageSize},
		CategoryID:  productCategory,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.ID, p.Name, fmtMoney(p.Price), fmt.Sprint(p.Stock), yesNo(p.IsActive)})
	}
	printTable([]string{"ID", "NAME", "PRICE", "STOCK", "ACTIVE"}, rows)
	fmt.Printf("\n%d product(s) total\n", total)
	return nil
}

func runProductsGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	p, err := client.Products.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("📦 %s\n", p.Name)
	fmt.Printf("   Price: %s | Stock: %d | Active: %s\n", fmtMoney(p.Price), p.Stock, yesNo(p.IsActive))
	if p.Category != "" {
		fmt.Printf("   Category: %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Printf("   %s\n", p.Description)
	}
	if len(p.Variants) > 0 {
		fmt.Println("   Variants:")
		for _, v := range p.Variants {
			fmt.Printf("     %s  %s  %s  stock=%d\n", v.ID, v.SKU, fmtMoney(v.Price), v.Stock)
		}
	}
	return nil
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	input, err := productInput()
	if err != nil {
		return err
	}

	p, err := client.Products.Create(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created product %s (%s)\n", p.Name, p.ID)
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	input, err := productInput()
	if err != nil {
		return err
	}

	p, err := client.Products.Update(cmd.Context(), args[0], input)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Updated product %s\n", p.Name)
	return nil
}

func runProductsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Products.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("✅ Product deleted")
	return nil
}

func runVariantsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	variants, err := client.Products.Variants(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, []string{v.ID, v.SKU, fmtMoney(v.Price), fmt.Sprint(v.Stock)})
	}
	printTable([]string{"ID", "SKU", "PRICE", "STOCK"}, rows)
	return nil
}
