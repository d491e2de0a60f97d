package domain

// CheckoutRequest is the body sent to the remote buy endpoint
type CheckoutRequest struct {
	Products []ProductID `json:"products"`
	Student  bool        `json:"student"`
	Coupon   string      `json:"coupon"`
}

// CheckoutResult is the remote confirmation of a purchase
type CheckoutResult struct {
	TotalCost float64 `json:"totalCost"`
	Reference string  `json:"reference"`
}

// NewCheckoutRequest collects product ids in cart order
func NewCheckoutRequest(items []CartItem, student bool, coupon string) CheckoutRequest {
	ids := make([]ProductID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Product.ID)
	}

	return CheckoutRequest{
		Products: ids,
		Student:  student,
		Coupon:   coupon,
	}
}
