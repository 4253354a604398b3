package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/charvault/internal/api/request"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Item catalog commands",
	}

	cmd.AddCommand(newItemCreateCmd())
	cmd.AddCommand(newItemListCmd())
	cmd.AddCommand(newItemShowCmd())
	cmd.AddCommand(newItemUpdateCmd())

	return cmd
}

func parseItemCode(arg string) (int, error) {
	code, err := strconv.Atoi(arg)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("item code must be a positive integer: %q", arg)
	}
	return code, nil
}

func newItemCreateCmd() *cobra.Command {
	var req request.CreateItemRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an item to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.CreateItem(cmd.Context(), req)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&req.ItemCode, "code", 0, "Item code (required)")
	cmd.Flags().StringVar(&req.ItemName, "name", "", "Item name (required)")
	cmd.Flags().IntVar(&req.Atk, "atk", 0, "Attack value")
	cmd.Flags().IntVar(&req.Price, "price", 0, "Price")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newItemListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the item catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.ListItems(cmd.Context())
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newItemShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-code>",
		Short: "Show an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseItemCode(args[0])
			if err != nil {
				return err
			}

			result, err := client.GetItem(cmd.Context(), code)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newItemUpdateCmd() *cobra.Command {
	var req request.UpdateItemRequest

	cmd := &cobra.Command{
		Use:   "update <item-code>",
		Short: "Change an item's name and attack value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseItemCode(args[0])
			if err != nil {
				return err
			}

			result, err := client.UpdateItem(cmd.Context(), code, req)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ItemName, "name", "", "Item name (required)")
	cmd.Flags().IntVar(&req.Atk, "atk", 0, "Attack value")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
