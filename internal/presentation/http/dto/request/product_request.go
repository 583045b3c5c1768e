package request

// CreateProductRequest represents the create product request body
type CreateProductRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Description     *string  `json:"description"`
	Category        string   `json:"category" binding:"required,max=100"`
	Price           float64  `json:"price" binding:"required,gte=0"`
	DiscountPercent int      `json:"discount_percent" binding:"gte=0,lte=100"`
	Stock           int      `json:"stock" binding:"gte=0"`
	PackagingPrice  *float64 `json:"packaging_price" binding:"omitempty,gte=0"`
	MaxPerOrder     int      `json:"max_per_order" binding:"gte=0"`
	ImageURL        *string  `json:"image_url"`
}

// UpdateProductRequest represents the update product request body; omitted
// fields are left unchanged
type UpdateProductRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=255"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category" binding:"omitempty,max=100"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	DiscountPercent *int     `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
	Stock           *int     `json:"stock" binding:"omitempty,gte=0"`
	PackagingPrice  *float64 `json:"packaging_price" binding:"omitempty,gte=0"`
	MaxPerOrder     *int     `json:"max_per_order" binding:"omitempty,gte=0"`
	ImageURL        *string  `json:"image_url"`
}

// CreateCouponRequest represents the create coupon request body
type CreateCouponRequest struct {
	Code        string   `json:"code" binding:"required,max=100"`
	Type        string   `json:"type" binding:"required,oneof=percentage fixed free_shipping free_packaging"`
	Value       float64  `json:"value" binding:"gte=0"`
	MaxDiscount *float64 `json:"max_discount" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Active      *bool    `json:"active"`
}
