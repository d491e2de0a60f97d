package main

import (
	"fmt"
	"io"

	"storefront/internal/domain"
	"storefront/internal/view"

	"github.com/spf13/cobra"
)

func newProductsCmd(c *cli) *cobra.Command {
	var category, search, sort string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := domain.ParseSortOrder(sort)
			if err != nil {
				return fmt.Errorf("%w: use price_asc or price_desc", err)
			}

			products, err := c.app.Storefront.Browse(cmd.Context(), domain.QuerySpec{
				Category: category,
				Search:   search,
				Sort:     order,
			})
			if err != nil {
				return explain(cmd.OutOrStdout(), err)
			}

			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only products in this category")
	cmd.Flags().StringVar(&search, "search", "", "only products whose title contains this text")
	cmd.Flags().StringVar(&sort, "sort", "", "price_asc or price_desc")

	return cmd
}

func newCategoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := c.app.Storefront.Categories(cmd.Context())
			if err != nil {
				return explain(cmd.OutOrStdout(), err)
			}

			for _, category := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, view.NoProducts)
		return
	}

	for _, p := range products {
		fmt.Fprintf(w, "%-6s %-40s %10s  %s\n", p.ID, p.Title, view.FormatPrice(p.Price), p.Category)
	}
}
