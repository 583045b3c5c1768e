package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/pkg/apperror"
)

type checkoutFixture struct {
	svc      *CheckoutService
	cartSvc  *CartService
	carts    *memCartRepo
	products *memProductRepo
	coupons  *memCouponRepo
	orders   *memOrderRepo
	users    *memUserRepo
}

func newCheckoutFixture(products ...*entity.Product) *checkoutFixture {
	productRepo := newMemProductRepo(products...)
	cartRepo := newMemCartRepo()
	couponRepo := newMemCouponRepo()
	userRepo := newMemUserRepo()
	orderRepo := newMemOrderRepo(productRepo, cartRepo)
	cartSvc := NewCartService(cartRepo, productRepo, couponRepo)

	return &checkoutFixture{
		svc:      NewCheckoutService(orderRepo, productRepo, cartRepo, userRepo, cartSvc, nil),
		cartSvc:  cartSvc,
		carts:    cartRepo,
		products: productRepo,
		coupons:  couponRepo,
		orders:   orderRepo,
		users:    userRepo,
	}
}

func completeAddress() entity.Address {
	return entity.Address{
		FullName:   "Asha Rao",
		Line1:      "14 Kiln Street",
		City:       "Jaipur",
		State:      "Rajasthan",
		PostalCode: "302001",
		Country:    "India",
		Phone:      "+91 98765 43210",
	}
}

func validCheckoutInput() *CheckoutInput {
	return &CheckoutInput{
		PaymentMethod:   "card",
		ShippingAddress: completeAddress(),
	}
}

func TestCheckoutFreezesBreakdownOnOrder(t *testing.T) {
	vase := newTestProduct("vase", 100000, 10, 5)
	f := newCheckoutFixture(vase)
	userID := uuid.New()

	_, err := f.cartSvc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)
	_, err = f.cartSvc.SetPackagingTier(context.Background(), userID, enum.PackagingEssential)
	require.NoError(t, err)

	order, err := f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	require.NoError(t, err)

	assert.Equal(t, int64(180000), order.Subtotal)
	assert.Equal(t, int64(200000), order.OriginalSubtotal)
	assert.Equal(t, int64(5000), order.ShippingCost)
	assert.Equal(t, int64(15000), order.PackagingCost)
	assert.Equal(t, int64(9000), order.Tax)
	assert.Equal(t, int64(200000), order.Total)
	assert.Equal(t, enum.OrderStatusProcessing, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(90000), order.Items[0].Price)
	assert.Equal(t, int64(100000), order.Items[0].OriginalPrice)

	// Stock is consumed and the ordered line leaves the cart
	assert.Equal(t, 3, f.products.stock(vase.ID))
	view, err := f.cartSvc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCheckoutRequiresCompleteAddress(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	f := newCheckoutFixture(vase)
	userID := uuid.New()

	_, err := f.cartSvc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)

	input := validCheckoutInput()
	input.ShippingAddress.City = ""
	input.ShippingAddress.Phone = ""

	_, err = f.svc.Checkout(context.Background(), userID, input)
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	fields := make([]string, len(appErr.Errors))
	for i, fe := range appErr.Errors {
		fields[i] = fe.Field
	}
	assert.Contains(t, fields, "shipping_address.city")
	assert.Contains(t, fields, "shipping_address.phone")

	// Nothing was committed
	assert.Equal(t, 0, f.orders.count())
	assert.Equal(t, 5, f.products.stock(vase.ID))
}

func TestCheckoutRequiresSelection(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	f := newCheckoutFixture(vase)
	userID := uuid.New()

	// Empty cart
	_, err := f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	assert.ErrorIs(t, err, apperror.ErrEmptySelection)

	// Carted but deselected
	_, err = f.cartSvc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)
	_, err = f.cartSvc.SetItemSelected(context.Background(), userID, vase.ID, false)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	assert.ErrorIs(t, err, apperror.ErrEmptySelection)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	bowl := newTestProduct("bowl", 50000, 0, 1)
	f := newCheckoutFixture(vase, bowl)
	userID := uuid.New()

	_, err := f.cartSvc.AddItem(context.Background(), userID, vase.ID, 2)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(context.Background(), userID, bowl.ID, 1)
	require.NoError(t, err)

	// Another buyer drains the bowl before this user submits
	f.products.products[bowl.ID].Stock = 0

	_, err = f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bowl")

	// Neither product lost stock and the cart is untouched
	assert.Equal(t, 5, f.products.stock(vase.ID))
	assert.Equal(t, 0, f.orders.count())
	view, err := f.cartSvc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestCheckoutOnlySelectedLinesOrdered(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	bowl := newTestProduct("bowl", 50000, 0, 5)
	f := newCheckoutFixture(vase, bowl)
	userID := uuid.New()

	_, err := f.cartSvc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(context.Background(), userID, bowl.ID, 1)
	require.NoError(t, err)
	_, err = f.cartSvc.SetItemSelected(context.Background(), userID, bowl.ID, false)
	require.NoError(t, err)

	order, err := f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, vase.ID, order.Items[0].ProductID)

	// The deselected line survives in the cart with its stock intact
	assert.Equal(t, 5, f.products.stock(bowl.ID))
	view, err := f.cartSvc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, bowl.ID, view.Lines[0].ProductID)
}

func TestCheckoutClearsCoupon(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	f := newCheckoutFixture(vase)
	userID := uuid.New()

	require.NoError(t, f.coupons.Create(context.Background(), &entity.Coupon{
		Code: "SAVE10", Type: enum.CouponPercentage, Value: 10, Active: true,
	}))

	_, err := f.cartSvc.AddItem(context.Background(), userID, vase.ID, 1)
	require.NoError(t, err)
	cart, err := f.carts.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	code := "SAVE10"
	require.NoError(t, f.carts.SetCouponCode(context.Background(), cart.ID, &code))

	order, err := f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), order.DiscountAmount)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE10", *order.CouponCode)

	cart, err = f.carts.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, cart.CouponCode)
}

// Two buyers race for the last unit. The guarded decrement guarantees
// exactly one order commits and stock never goes negative.
func TestConcurrentCheckoutLastUnit(t *testing.T) {
	lastVase := newTestProduct("last-vase", 100000, 0, 1)
	f := newCheckoutFixture(lastVase)

	buyerA := uuid.New()
	buyerB := uuid.New()
	_, err := f.cartSvc.AddItem(context.Background(), buyerA, lastVase.ID, 1)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(context.Background(), buyerB, lastVase.ID, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buyer := range []uuid.UUID{buyerA, buyerB} {
		wg.Add(1)
		go func(i int, buyer uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.Checkout(context.Background(), buyer, validCheckoutInput())
		}(i, buyer)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, 409, apperror.GetAppError(err).Code)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 0, f.products.stock(lastVase.ID))
}

// A second submit from the same user while the first is still in flight is
// rejected instead of queued.
func TestCheckoutInFlightGuard(t *testing.T) {
	f := newCheckoutFixture()
	userID := uuid.New()

	require.NoError(t, f.svc.acquire(userID))
	defer f.svc.release(userID)

	_, err := f.svc.Checkout(context.Background(), userID, validCheckoutInput())
	assert.ErrorIs(t, err, apperror.ErrCheckoutInFlight)
}

func TestBuyNowSkipsCart(t *testing.T) {
	vase := newTestProduct("vase", 100000, 0, 5)
	f := newCheckoutFixture(vase)
	userID := uuid.New()

	// Cart holds an unrelated line that must survive
	bowl := newTestProduct("bowl", 50000, 0, 5)
	require.NoError(t, f.products.Create(context.Background(), bowl))
	_, err := f.cartSvc.AddItem(context.Background(), userID, bowl.ID, 1)
	require.NoError(t, err)

	order, err := f.svc.BuyNow(context.Background(), userID, vase.ID, 2, validCheckoutInput())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, vase.ID, order.Items[0].ProductID)
	assert.Equal(t, int64(200000), order.Total)
	assert.Equal(t, 3, f.products.stock(vase.ID))

	view, err := f.cartSvc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestBuyNowUnknownProduct(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.BuyNow(context.Background(), uuid.New(), uuid.New(), 1, validCheckoutInput())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
