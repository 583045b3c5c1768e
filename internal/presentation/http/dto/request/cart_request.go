package request

// AddCartItemRequest represents the add-to-cart request body
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents the quantity update request body.
// Quantity zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// SelectCartItemRequest represents the line selection toggle request body
type SelectCartItemRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// SetPackagingRequest represents the packaging tier request body
type SetPackagingRequest struct {
	Tier string `json:"tier" binding:"required,oneof=free essential"`
}

// ApplyCouponRequest represents the apply-coupon request body
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}
