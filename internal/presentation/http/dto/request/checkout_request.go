package request

// AddressRequest represents a postal address in a checkout submission.
// Completeness is validated by the checkout service so that every missing
// field is reported at once.
type AddressRequest struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// CheckoutRequest represents the checkout submission body
type CheckoutRequest struct {
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ShippingAddress AddressRequest  `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressRequest `json:"billing_address"`
}

// BuyNowRequest represents the single-product checkout body
type BuyNowRequest struct {
	ProductID       string          `json:"product_id" binding:"required,uuid"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ShippingAddress AddressRequest  `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressRequest `json:"billing_address"`
}

// UpdateOrderStatusRequest represents the admin status transition body
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered cancelled"`
}
