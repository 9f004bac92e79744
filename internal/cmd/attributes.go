package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
)

var attributeName string

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "Manage product attributes and their values",
}

var attributesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attributes with their values",
	RunE:  runAttributesList,
}

var attributesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an attribute",
	RunE:  runAttributesCreate,
}

var attributesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an attribute",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttributesDelete,
}

var attributesAddValueCmd = &cobra.Command{
	Use:   "add-value <attribute-id> <value>",
	Short: "Add a value to an attribute",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttributesAddValue,
}

var attributesRemoveValueCmd = &cobra.Command{
	Use:   "remove-value <attribute-id> <value-id>",
	Short: "Remove a value from an attribute",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttributesRemoveValue,
}

func init() {
	rootCmd.AddCommand(attributesCmd)
	attributesCmd.AddCommand(attributesListCmd, attributesCreateCmd, attributesDeleteCmd,
		attributesAddValueCmd, attributesRemoveValueCmd)

	attributesCreateCmd.Flags().StringVar(&attributeName, "name", "", "Attribute name")
	_ = attributesCreateCmd.MarkFlagRequired("name")
}

func runAttributesList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	attrs, err := client.Attributes.List(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(attrs))
	for _, a := range attrs {
		values := make([]string, 0, len(a.Values))
		for _, v := range a.Values {
			values = append(values, v.Value)
		}
		rows = append(rows, []string{a.ID, a.Name, strings.Join(values, ", ")})
	}
	printTable([]string{"ID", "NAME", "VALUES"}, rows)
	return nil
}

func runAttributesCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	a, err := client.Attributes.Create(cmd.Context(), api.AttributeInput{Name: attributeName})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created attribute %s\n", a.Name)
	return nil
}

func runAttributesDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Attributes.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("🗑️  Attribute deleted")
	return nil
}

func runAttributesAddValue(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	v, err := client.Attributes.CreateValue(cmd.Context(), args[0], api.AttributeValueInput{Value: args[1]})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Added value %s\n", v.Value)
	return nil
}

func runAttributesRemoveValue(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Attributes.DeleteValue(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	fmt.Println("🗑️  Value removed")
	return nil
}
