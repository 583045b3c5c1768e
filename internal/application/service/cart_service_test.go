package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
)

func newTestProduct(name string, priceCents int64, discount, stock int) *entity.Product {
	return &entity.Product{
		ID:              uuid.New(),
		Name:            name,
		Slug:            name,
		SKU:             "SKU-" + name,
		Category:        "pottery",
		Price:           priceCents,
		DiscountPercent: discount,
		Stock:           stock,
	}
}

func newCartFixture(products ...*entity.Product) (*CartService, *memCartRepo, *memProductRepo, *memCouponRepo) {
	productRepo := newMemProductRepo(products...)
	cartRepo := newMemCartRepo()
	couponRepo := newMemCouponRepo()
	return NewCartService(cartRepo, productRepo, couponRepo), cartRepo, productRepo, couponRepo
}

func TestGetCartEmptyForNewUser(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	userID := uuid.New()

	view, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)

	assert.Empty(t, view.Lines)
	assert.Equal(t, 0.0, view.Breakdown.GrandTotal)
	assert.Equal(t, enum.PackagingFree, view.Cart.PackagingTier)
}

func TestAddItemComputesTotals(t *testing.T) {
	vase := newTestProduct("vase", 100000, 10, 5)
	svc, _, _, _ := newCartFixture(vase)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, 900.0, view.Lines[0].EffectivePrice)
	assert.Equal(t, 1800.0, view.Breakdown.Subtotal)
	assert.Equal(t, 2000.0, view.Breakdown.OriginalSubtotal)
	assert.Equal(t, 1800.0, view.Breakdown.GrandTotal)
	assert.Equal(t, 90.0, view.Breakdown.Tax)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 10)
	svc, _, _, _ := newCartFixture(vase)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)
	view, err := svc.AddItem(context.Background(), userID, vase.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
}

func TestClearEmptiesCartAndDropsCoupon(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	svc, _, _, couponRepo := newCartFixture(vase)
	userID := uuid.New()

	require.NoError(t, couponRepo.Create(context.Background(), &entity.Coupon{
		Code:   "SAVE20",
		Type:   enum.CouponPercentage,
		Value:  20,
		Active: true,
	}))

	view, err := svc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)
	code := "SAVE20"
	require.NoError(t, svc.cartRepo.SetCouponCode(context.Background(), view.Cart.ID, &code))

	view, err = svc.Clear(context.Background(), userID)
	require.NoError(t, err)

	assert.Empty(t, view.Lines)
	assert.Nil(t, view.Cart.CouponCode)
	assert.Equal(t, 0.0, view.Breakdown.GrandTotal)
}

func TestAddItemClampsToStockAndLimit(t *testing.T) {
	scarce := newTestProduct("scarce", 5000, 0, 3)
	limited := newTestProduct("limited", 5000, 0, 50)
	limited.MaxPerOrder = 4
	svc, _, _, _ := newCartFixture(scarce, limited)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, scarce.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Lines[0].Quantity)

	view, err = svc.AddItem(context.Background(), userID, limited.ID, 10)
	require.NoError(t, err)
	for _, l := range view.Lines {
		if l.ProductID == limited.ID {
			assert.Equal(t, 4, l.Quantity)
		}
	}
}

func TestAddItemOutOfStock(t *testing.T) {
	gone := newTestProduct("gone", 5000, 0, 0)
	svc, _, _, _ := newCartFixture(gone)

	_, err := svc.AddItem(context.Background(), uuid.New(), gone.ID, 1)
	assert.Error(t, err)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	svc, _, _, _ := newCartFixture(vase)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)

	view, err := svc.UpdateQuantity(context.Background(), userID, vase.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 0.0, view.Breakdown.GrandTotal)
}

func TestDeselectedLineExcludedFromTotals(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	bowl := newTestProduct("bowl", 50000, 0, 5)
	svc, _, _, _ := newCartFixture(vase, bowl)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), userID, bowl.ID, 1)
	require.NoError(t, err)

	view, err := svc.SetItemSelected(context.Background(), userID, bowl.ID, false)
	require.NoError(t, err)

	assert.Len(t, view.Lines, 2)
	assert.Equal(t, 1000.0, view.Breakdown.Subtotal)
}

func TestEssentialPackagingUsesMaxFee(t *testing.T) {
	cheap := newTestProduct("cheap", 10000, 0, 5)
	cheapPkg := int64(5000)
	cheap.PackagingPrice = &cheapPkg
	fancy := newTestProduct("fancy", 10000, 0, 5)
	fancyPkg := int64(20000)
	fancy.PackagingPrice = &fancyPkg

	svc, _, _, _ := newCartFixture(cheap, fancy)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, cheap.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), userID, fancy.ID, 1)
	require.NoError(t, err)

	view, err := svc.SetPackagingTier(context.Background(), userID, enum.PackagingEssential)
	require.NoError(t, err)

	assert.Equal(t, 200.0, view.Breakdown.PackagingCost)
	assert.Equal(t, 50.0, view.Breakdown.ShippingCost)
}

func TestVanishedProductDroppedFromView(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	svc, _, productRepo, _ := newCartFixture(vase)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)

	require.NoError(t, productRepo.Delete(context.Background(), vase.ID))

	view, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 0.0, view.Breakdown.GrandTotal)
}

func TestInactiveCouponPricesAsAbsent(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	productRepo := newMemProductRepo(vase)
	cartRepo := newMemCartRepo()
	couponRepo := newMemCouponRepo(&entity.Coupon{
		Code:   "DEAD10",
		Type:   enum.CouponPercentage,
		Value:  10,
		Active: false,
	})
	svc := NewCartService(cartRepo, productRepo, couponRepo)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)

	cart, err := cartRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	code := "DEAD10"
	require.NoError(t, cartRepo.SetCouponCode(context.Background(), cart.ID, &code))

	view, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, view.Breakdown.DiscountAmount)
	assert.Nil(t, view.Coupon)
}
