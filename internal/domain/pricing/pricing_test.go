package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/terracottic/storefront-api/internal/domain/enum"
)

func line(unitPrice Money, discount, qty int, packaging Money) Line {
	return Line{
		ProductID:          uuid.New(),
		Name:               "test product",
		UnitPrice:          unitPrice,
		DiscountPercent:    discount,
		Quantity:           qty,
		PackagingUnitPrice: packaging,
		Selected:           true,
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		line     Line
		expected Money
	}{
		{"no discount", line(100000, 0, 1, 0), 100000},
		{"ten percent off", line(100000, 10, 1, 0), 90000},
		{"full discount", line(100000, 100, 1, 0), 0},
		{"discount above 100 clamps", line(100000, 150, 1, 0), 0},
		{"zero price contributes zero", line(0, 10, 1, 0), 0},
		{"negative price contributes zero", line(-500, 0, 1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveUnitPrice(tt.line))
		})
	}
}

func TestPackagingCostIsMaxNotSum(t *testing.T) {
	lines := []Line{
		line(100000, 0, 1, 10000),
		line(100000, 0, 1, 5000),
		line(100000, 0, 1, 20000),
	}

	shipping, packaging := PackagingCosts(lines, enum.PackagingEssential, nil)

	assert.Equal(t, EssentialShippingFee, shipping)
	assert.Equal(t, Money(20000), packaging, "packaging cost is the max packaging price, not the sum")
}

func TestPackagingCostsFreeTier(t *testing.T) {
	lines := []Line{line(100000, 0, 1, 20000)}

	shipping, packaging := PackagingCosts(lines, enum.PackagingFree, nil)

	assert.Zero(t, shipping)
	assert.Zero(t, packaging)
}

func TestPackagingCostsNoSelection(t *testing.T) {
	unselected := line(100000, 0, 1, 20000)
	unselected.Selected = false

	shipping, packaging := PackagingCosts([]Line{unselected}, enum.PackagingEssential, nil)

	assert.Zero(t, shipping)
	assert.Zero(t, packaging)
}

func TestFreeShippingCouponLeavesPackaging(t *testing.T) {
	lines := []Line{line(100000, 0, 1, 15000)}
	coupon := &Coupon{Code: "SHIPFREE", Type: enum.CouponFreeShipping}

	shipping, packaging := PackagingCosts(lines, enum.PackagingEssential, coupon)

	assert.Zero(t, shipping, "free_shipping waives shipping")
	assert.Equal(t, Money(15000), packaging, "free_shipping does not touch packaging")
}

func TestFreePackagingCouponLeavesShipping(t *testing.T) {
	lines := []Line{line(100000, 0, 1, 15000)}
	coupon := &Coupon{Code: "PACKFREE", Type: enum.CouponFreePackaging}

	shipping, packaging := PackagingCosts(lines, enum.PackagingEssential, coupon)

	assert.Equal(t, EssentialShippingFee, shipping, "free_packaging does not touch shipping")
	assert.Zero(t, packaging, "free_packaging waives packaging")
}

func TestCouponDiscount(t *testing.T) {
	cap := Money(10000)

	tests := []struct {
		name     string
		coupon   *Coupon
		subtotal Money
		expected Money
	}{
		{"nil coupon", nil, 100000, 0},
		{"percentage", &Coupon{Type: enum.CouponPercentage, Value: 10}, 100000, 10000},
		{"percentage capped", &Coupon{Type: enum.CouponPercentage, Value: 50, MaxDiscount: &cap}, 100000, 10000},
		{"fixed within subtotal", &Coupon{Type: enum.CouponFixed, Value: 20000}, 100000, 20000},
		{"fixed exceeds subtotal", &Coupon{Type: enum.CouponFixed, Value: 50000}, 30000, 30000},
		{"free shipping discounts nothing", &Coupon{Type: enum.CouponFreeShipping, Value: 0}, 100000, 0},
		{"free packaging discounts nothing", &Coupon{Type: enum.CouponFreePackaging, Value: 0}, 100000, 0},
		{"zero subtotal", &Coupon{Type: enum.CouponPercentage, Value: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CouponDiscount(tt.coupon, tt.subtotal))
		})
	}
}

// The checkout review scenario: one line at 1000 with 10% off, quantity 2,
// essential packaging at 150, no coupon. Tax is 5% of the discounted
// subtotal and is reported separately, never added to the grand total.
func TestComputeReviewScenario(t *testing.T) {
	lines := []Line{line(100000, 10, 2, 15000)}

	b := Compute(lines, enum.PackagingEssential, nil)

	assert.Equal(t, Money(180000), b.Subtotal)
	assert.Equal(t, Money(200000), b.OriginalSubtotal)
	assert.Equal(t, Money(0), b.DiscountAmount)
	assert.Equal(t, Money(5000), b.ShippingCost)
	assert.Equal(t, Money(15000), b.PackagingCost)
	assert.Equal(t, Money(9000), b.Tax)
	assert.Equal(t, Money(200000), b.GrandTotal, "grand total excludes tax")
}

func TestComputeFixedCouponFloorsAtFees(t *testing.T) {
	lines := []Line{line(30000, 0, 1, 15000)}
	coupon := &Coupon{Code: "BIG", Type: enum.CouponFixed, Value: 50000}

	b := Compute(lines, enum.PackagingEssential, coupon)

	assert.Equal(t, Money(30000), b.DiscountAmount, "fixed discount caps at subtotal")
	assert.Equal(t, EssentialShippingFee+Money(15000), b.GrandTotal, "floor is shipping plus packaging")
}

func TestComputeGrandTotalNeverNegative(t *testing.T) {
	cases := [][]Line{
		{line(10000, 0, 1, 0)},
		{line(10000, 100, 3, 0)},
		{},
		{line(0, 0, 1, 0)},
	}
	coupons := []*Coupon{
		nil,
		{Type: enum.CouponFixed, Value: 1000000},
		{Type: enum.CouponPercentage, Value: 100},
	}

	for _, lines := range cases {
		for _, c := range coupons {
			for _, tier := range []enum.PackagingTier{enum.PackagingFree, enum.PackagingEssential} {
				b := Compute(lines, tier, c)
				assert.GreaterOrEqual(t, b.GrandTotal, Money(0))
				assert.LessOrEqual(t, b.DiscountAmount, b.Subtotal)
			}
		}
	}
}

func TestComputeZeroSelectionIsAllZero(t *testing.T) {
	unselected := line(100000, 0, 2, 15000)
	unselected.Selected = false

	b := Compute([]Line{unselected}, enum.PackagingEssential, nil)

	assert.Equal(t, Breakdown{}, b)
	assert.False(t, HasSelection([]Line{unselected}))
}

func TestComputeUnselectedLinesExcluded(t *testing.T) {
	selected := line(100000, 0, 1, 5000)
	excluded := line(999999, 0, 5, 99999)
	excluded.Selected = false

	b := Compute([]Line{selected, excluded}, enum.PackagingEssential, nil)

	assert.Equal(t, Money(100000), b.Subtotal)
	assert.Equal(t, Money(5000), b.PackagingCost)
}

// Applying then removing a coupon must return totals identical to the
// never-applied state.
func TestCouponRoundTrip(t *testing.T) {
	lines := []Line{line(100000, 10, 2, 15000), line(50000, 0, 1, 5000)}
	coupons := []*Coupon{
		{Type: enum.CouponPercentage, Value: 20},
		{Type: enum.CouponFixed, Value: 30000},
		{Type: enum.CouponFreeShipping},
		{Type: enum.CouponFreePackaging},
	}

	before := Compute(lines, enum.PackagingEssential, nil)
	for _, c := range coupons {
		_ = Compute(lines, enum.PackagingEssential, c)
		after := Compute(lines, enum.PackagingEssential, nil)
		assert.Equal(t, before, after)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	lines := []Line{line(100000, 10, 2, 15000)}
	coupon := &Coupon{Type: enum.CouponPercentage, Value: 15}

	first := Compute(lines, enum.PackagingEssential, coupon)
	second := Compute(lines, enum.PackagingEssential, coupon)

	assert.Equal(t, first, second)
}
