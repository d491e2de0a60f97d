package main

import (
	"fmt"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/view"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE:  runCartList(c),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the cart and its total",
			Args:  cobra.NoArgs,
			RunE:  runCartList(c),
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add a catalog product to the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := domain.ParseProductID(args[0])
				if err != nil {
					return err
				}

				item, err := c.app.Storefront.AddToCart(cmd.Context(), c.cartKey(), productID)
				if err != nil {
					return explain(cmd.OutOrStdout(), err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) [%s]\n",
					item.Product.Title, view.FormatPrice(item.Product.Price), item.EntryID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <entry-id>",
			Short: "Remove one cart entry by its id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entryID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid entry id %q: %w", args[0], err)
				}

				if err := c.app.Storefront.RemoveFromCart(cmd.Context(), c.cartKey(), entryID); err != nil {
					return explain(cmd.OutOrStdout(), err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove-at <index>",
			Short: "Remove the cart entry at a position, counting from 0",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid position %q", args[0])
				}

				if err := c.app.Storefront.RemoveFromCartAt(cmd.Context(), c.cartKey(), index); err != nil {
					return explain(cmd.OutOrStdout(), err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove-product <product-id>",
			Short: "Remove every entry of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := domain.ParseProductID(args[0])
				if err != nil {
					return err
				}

				removed, err := c.app.Storefront.RemoveProductFromCart(cmd.Context(), c.cartKey(), productID)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s).\n", removed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Storefront.ClearCart(cmd.Context(), c.cartKey()); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), view.EmptyCart)
				return nil
			},
		},
	)

	return cmd
}

func runCartList(c *cli) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		summary, err := c.app.Storefront.Cart(cmd.Context(), c.cartKey())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(summary.Items) == 0 {
			fmt.Fprintln(out, view.EmptyCart)
			return nil
		}

		for i, item := range summary.Items {
			fmt.Fprintf(out, "%3d. %-40s %10s  [%s]\n", i, item.Product.Title, view.FormatPrice(item.Product.Price), item.EntryID)
		}
		fmt.Fprintf(out, "Total: %s\n", view.FormatPrice(summary.Total))
		return nil
	}
}
