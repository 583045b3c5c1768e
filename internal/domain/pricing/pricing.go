package pricing

import (
	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/enum"
)

// Money is a monetary value in minor units (cents). All pricing arithmetic
// stays in integer cents; conversion to display decimals happens at the JSON
// boundary.
type Money = int64

const (
	// EssentialShippingFee is the flat shipping surcharge for the
	// essential packaging tier (50 in display currency).
	EssentialShippingFee Money = 5000
	// DefaultPackagingFee is the per-order packaging fee used when a
	// product has no packaging price of its own (150 in display currency).
	DefaultPackagingFee Money = 15000
	// TaxRatePercent is applied to the post-line-discount, pre-coupon
	// subtotal. Tax is informational and never added to the grand total.
	TaxRatePercent = 5
)

// Line is a cart line as seen by the pricing engine. Prices are resolved
// from the live catalog before computation; lines with Selected == false are
// present in the cart but excluded from every total.
type Line struct {
	ProductID          uuid.UUID
	Name               string
	UnitPrice          Money
	DiscountPercent    int // 0-100
	Quantity           int
	PackagingUnitPrice Money
	Selected           bool
}

// Coupon carries the discount terms relevant to pricing. Value is percent
// points for percentage coupons and cents for fixed coupons; the free_*
// types act on shipping/packaging only.
type Coupon struct {
	Code        string
	Type        enum.CouponType
	Value       int64
	MaxDiscount *Money
}

// Breakdown is the totals summary for a set of selected lines. It is derived
// on every computation and never persisted on the cart.
type Breakdown struct {
	Subtotal         Money
	OriginalSubtotal Money
	DiscountAmount   Money
	ShippingCost     Money
	PackagingCost    Money
	Tax              Money
	GrandTotal       Money
}

// EffectiveUnitPrice resolves a line's unit price after its catalog discount.
// Missing or invalid price data degrades to zero rather than erroring.
func EffectiveUnitPrice(l Line) Money {
	if l.UnitPrice <= 0 {
		return 0
	}
	dp := l.DiscountPercent
	if dp <= 0 {
		return l.UnitPrice
	}
	if dp > 100 {
		dp = 100
	}
	return l.UnitPrice * Money(100-dp) / 100
}

// CouponDiscount computes the subtotal discount for a coupon. Percentage
// discounts honor the coupon's cap; fixed discounts can never exceed the
// subtotal they apply to. The free_* types discount nothing here because
// their whole effect is on shipping and packaging.
func CouponDiscount(c *Coupon, subtotal Money) Money {
	if c == nil || subtotal <= 0 {
		return 0
	}
	switch c.Type {
	case enum.CouponPercentage:
		d := subtotal * c.Value / 100
		if c.MaxDiscount != nil && d > *c.MaxDiscount {
			d = *c.MaxDiscount
		}
		if d > subtotal {
			d = subtotal
		}
		return d
	case enum.CouponFixed:
		if c.Value > subtotal {
			return subtotal
		}
		return c.Value
	default:
		return 0
	}
}

// PackagingCosts returns the shipping and packaging fees for the selected
// lines under the chosen tier. The packaging fee is the maximum
// PackagingUnitPrice among selected lines, not the sum: the order's
// packaging requirement is bounded by its single most demanding item.
// A free_shipping coupon waives shipping only and a free_packaging coupon
// waives packaging only; the two are never interchangeable.
func PackagingCosts(lines []Line, tier enum.PackagingTier, coupon *Coupon) (shipping, packaging Money) {
	if tier != enum.PackagingEssential {
		return 0, 0
	}

	any := false
	for _, l := range lines {
		if !l.Selected || l.Quantity < 1 {
			continue
		}
		any = true
		if l.PackagingUnitPrice > packaging {
			packaging = l.PackagingUnitPrice
		}
	}
	if !any {
		return 0, 0
	}

	shipping = EssentialShippingFee
	if coupon != nil {
		switch coupon.Type {
		case enum.CouponFreeShipping:
			shipping = 0
		case enum.CouponFreePackaging:
			packaging = 0
		}
	}
	return shipping, packaging
}

// Compute aggregates the full totals breakdown over the selected lines. It
// is a pure function of (lines, tier, coupon): callers recompute on every
// cart mutation instead of caching totals.
func Compute(lines []Line, tier enum.PackagingTier, coupon *Coupon) Breakdown {
	var b Breakdown

	for _, l := range lines {
		if !l.Selected || l.Quantity < 1 {
			continue
		}
		qty := Money(l.Quantity)
		b.Subtotal += EffectiveUnitPrice(l) * qty
		if l.UnitPrice > 0 {
			b.OriginalSubtotal += l.UnitPrice * qty
		}
	}

	b.DiscountAmount = CouponDiscount(coupon, b.Subtotal)
	if b.DiscountAmount > b.Subtotal {
		b.DiscountAmount = b.Subtotal
	}

	b.ShippingCost, b.PackagingCost = PackagingCosts(lines, tier, coupon)
	b.Tax = b.Subtotal * TaxRatePercent / 100

	b.GrandTotal = b.Subtotal - b.DiscountAmount + b.ShippingCost + b.PackagingCost
	if b.GrandTotal < 0 {
		b.GrandTotal = 0
	}
	return b
}

// HasSelection reports whether at least one line participates in totals.
// Checkout refuses to start without a selection.
func HasSelection(lines []Line) bool {
	for _, l := range lines {
		if l.Selected && l.Quantity >= 1 {
			return true
		}
	}
	return false
}
