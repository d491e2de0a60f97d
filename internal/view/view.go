// Package view turns results and failures into the text shown to shoppers.
package view

import (
	"errors"
	"fmt"
	"strconv"

	"storefront/internal/checkout"
	"storefront/internal/domain"
)

const (
	NoProducts  = "No products found."
	LoadFailure = "Could not load products."
	EmptyCart   = "Your cart is empty."
)

// FormatPrice renders an amount with two decimals
func FormatPrice(amount float64) string {
	return "€" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// CheckoutSuccess describes a completed purchase
func CheckoutSuccess(result *domain.CheckoutResult) string {
	return fmt.Sprintf("Final amount to pay: %s€ | Reference: %s",
		strconv.FormatFloat(result.TotalCost, 'f', 2, 64), result.Reference)
}

// CheckoutFailure maps any checkout error to a message; it never panics on
// unexpected errors
func CheckoutFailure(err error) string {
	return "Purchase failed: " + checkoutReason(err)
}

func checkoutReason(err error) string {
	var (
		httpErr    *checkout.HTTPError
		networkErr *checkout.NetworkError
		parseErr   *checkout.ParseError
	)

	switch {
	case err == nil:
		return "unknown error"
	case errors.As(err, &httpErr):
		return httpErr.Message
	case errors.As(err, &networkErr):
		return "could not reach the shop, please try again"
	case errors.As(err, &parseErr):
		return "the shop sent an unexpected response"
	case errors.Is(err, checkout.ErrEmptyCart):
		return "your cart is empty"
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		return "a purchase is already being processed"
	default:
		return err.Error()
	}
}
