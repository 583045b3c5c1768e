package enum

// CouponType enumerates the supported coupon discount strategies. The string
// values are contractual and stored as-is.
type CouponType string

const (
	// CouponPercentage discounts the subtotal by a percentage, optionally
	// capped at the coupon's max discount.
	CouponPercentage CouponType = "percentage"
	// CouponFixed discounts a fixed amount, capped at the subtotal.
	CouponFixed CouponType = "fixed"
	// CouponFreeShipping waives the shipping fee only.
	CouponFreeShipping CouponType = "free_shipping"
	// CouponFreePackaging waives the packaging fee only.
	CouponFreePackaging CouponType = "free_packaging"
)

// IsValid reports whether the coupon type is one of the known values
func (t CouponType) IsValid() bool {
	switch t {
	case CouponPercentage, CouponFixed, CouponFreeShipping, CouponFreePackaging:
		return true
	}
	return false
}
