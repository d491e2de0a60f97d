package main

import (
	"errors"
	"fmt"

	"storefront/internal/checkout"
	"storefront/internal/view"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(c *cli) *cobra.Command {
	var (
		student bool
		coupon  string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Storefront.Checkout(cmd.Context(), c.cartKey(), student, coupon)
			if err != nil {
				if !isCheckoutFailure(err) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), view.CheckoutFailure(err))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), view.CheckoutSuccess(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&student, "student", false, "apply the student discount")
	cmd.Flags().StringVar(&coupon, "coupon", "", "discount coupon code")

	return cmd
}

// isCheckoutFailure reports whether err is an outcome of the purchase
// itself rather than of local storage
func isCheckoutFailure(err error) bool {
	var (
		httpErr    *checkout.HTTPError
		networkErr *checkout.NetworkError
		parseErr   *checkout.ParseError
	)

	return errors.As(err, &httpErr) ||
		errors.As(err, &networkErr) ||
		errors.As(err, &parseErr) ||
		errors.Is(err, checkout.ErrEmptyCart) ||
		errors.Is(err, checkout.ErrSubmissionInFlight)
}
