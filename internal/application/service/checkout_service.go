package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/pricing"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/apperror"
	"github.com/terracottic/storefront-api/pkg/email"
	"github.com/terracottic/storefront-api/pkg/utils"
)

const deliveryEstimateDays = 7

// CheckoutService turns a priced cart into a durable order. The totals are
// computed once before the write and frozen onto the order; the write itself
// is a single transaction that either fully commits (order rows plus stock
// decrements plus cart line removal) or leaves nothing behind.
type CheckoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	userRepo    repository.UserRepository
	cartService *CartService
	emailSvc    *email.EmailService

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	cartService *CartService,
	emailSvc *email.EmailService,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		cartService: cartService,
		emailSvc:    emailSvc,
		inFlight:    make(map[uuid.UUID]struct{}),
	}
}

// CheckoutInput represents the checkout submission
type CheckoutInput struct {
	PaymentMethod   string
	ShippingAddress entity.Address
	BillingAddress  *entity.Address // nil means same as shipping
}

// Checkout finalizes the user's cart: validates preconditions, freezes the
// totals, and commits the order. At most one checkout per user runs at a
// time; a second submit while the first is in flight is rejected rather
// than queued.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*entity.Order, error) {
	if err := s.acquire(userID); err != nil {
		return nil, err
	}
	defer s.release(userID)

	if err := validateCheckoutInput(input); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperror.ErrEmptySelection
	}

	lines, products, err := s.cartService.BuildPricingLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	if !pricing.HasSelection(lines) {
		return nil, apperror.ErrEmptySelection
	}

	_, pricingCoupon, err := s.cartService.ResolveCoupon(ctx, cart)
	if err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, input, cart.PackagingTier, cart.CouponCode, lines, products, pricingCoupon)

	decrements := selectedDecrements(lines)
	failedIDs, err := s.orderRepo.CreateWithStockDecrement(ctx, order, decrements, &cart.ID)
	if err != nil {
		log.Printf("checkout write failed for user %s: %v", userID, err)
		return nil, apperror.ErrWriteFailed
	}
	if len(failedIDs) > 0 {
		return nil, apperror.NewOutOfStockError(productNames(products, failedIDs))
	}

	// The ordered lines are gone; a coupon left on the cart would silently
	// apply to the next order, so clear it as part of finalization.
	if cart.CouponCode != nil {
		if err := s.cartRepo.SetCouponCode(ctx, cart.ID, nil); err != nil {
			log.Printf("failed to clear coupon after checkout for user %s: %v", userID, err)
		}
	}

	s.sendConfirmation(ctx, userID, order)
	return order, nil
}

// BuyNow finalizes a single product purchase without touching the cart.
func (s *CheckoutService) BuyNow(ctx context.Context, userID, productID uuid.UUID, quantity int, input *CheckoutInput) (*entity.Order, error) {
	if err := s.acquire(userID); err != nil {
		return nil, err
	}
	defer s.release(userID)

	if quantity < 1 {
		return nil, apperror.NewBadRequestError("Quantity must be at least 1")
	}
	if err := validateCheckoutInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	quantity = clampQuantity(quantity, product)

	lines := []pricing.Line{{
		ProductID:          product.ID,
		Name:               product.Name,
		UnitPrice:          product.Price,
		DiscountPercent:    product.DiscountPercent,
		Quantity:           quantity,
		PackagingUnitPrice: packagingPrice(product),
		Selected:           true,
	}}
	products := []entity.Product{*product}

	// Buy-now skips the cart entirely, so no coupon and free packaging
	order := s.buildOrder(userID, input, enum.PackagingFree, nil, lines, products, nil)

	failedIDs, err := s.orderRepo.CreateWithStockDecrement(ctx, order, selectedDecrements(lines), nil)
	if err != nil {
		log.Printf("buy-now write failed for user %s: %v", userID, err)
		return nil, apperror.ErrWriteFailed
	}
	if len(failedIDs) > 0 {
		return nil, apperror.NewOutOfStockError(productNames(products, failedIDs))
	}

	s.sendConfirmation(ctx, userID, order)
	return order, nil
}

func (s *CheckoutService) acquire(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return apperror.ErrCheckoutInFlight
	}
	s.inFlight[userID] = struct{}{}
	return nil
}

func (s *CheckoutService) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// buildOrder freezes the computed breakdown and the selected lines onto a
// new order record.
func (s *CheckoutService) buildOrder(
	userID uuid.UUID,
	input *CheckoutInput,
	tier enum.PackagingTier,
	couponCode *string,
	lines []pricing.Line,
	products []entity.Product,
	coupon *pricing.Coupon,
) *entity.Order {
	breakdown := pricing.Compute(lines, tier, coupon)

	billing := input.ShippingAddress
	if input.BillingAddress != nil {
		billing = *input.BillingAddress
	}

	now := time.Now()
	order := &entity.Order{
		OrderNumber:       utils.GenerateOrderNumber(),
		UserID:            userID,
		Status:            enum.OrderStatusProcessing,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     enum.PaymentStatusPending,
		SelectedPackaging: tier,
		CouponCode:        couponCode,
		Subtotal:          breakdown.Subtotal,
		OriginalSubtotal:  breakdown.OriginalSubtotal,
		DiscountAmount:    breakdown.DiscountAmount,
		ShippingCost:      breakdown.ShippingCost,
		PackagingCost:     breakdown.PackagingCost,
		Tax:               breakdown.Tax,
		Total:             breakdown.GrandTotal,
		ShippingAddress:   input.ShippingAddress,
		BillingAddress:    billing,
		OrderDate:         now,
		EstimatedDelivery: now.AddDate(0, 0, deliveryEstimateDays),
	}

	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, l := range lines {
		if !l.Selected || l.Quantity < 1 {
			continue
		}
		product := byID[l.ProductID]
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:       l.ProductID,
			Name:            l.Name,
			SKU:             product.SKU,
			Category:        product.Category,
			Price:           pricing.EffectiveUnitPrice(l),
			OriginalPrice:   l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
		})
	}
	return order
}

// sendConfirmation emails the order confirmation in the background. A mail
// failure never fails the checkout.
func (s *CheckoutService) sendConfirmation(ctx context.Context, userID uuid.UUID, order *entity.Order) {
	if s.emailSvc == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		log.Printf("skipping confirmation email, user %s not loaded: %v", userID, err)
		return
	}

	items := make([]email.OrderConfirmationItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = email.OrderConfirmationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    fmt.Sprintf("%.2f", float64(item.Price)/100),
		}
	}
	data := email.OrderConfirmationData{
		CustomerName:      user.FullName(),
		OrderNumber:       order.OrderNumber,
		Items:             items,
		Total:             fmt.Sprintf("%.2f", float64(order.Total)/100),
		EstimatedDelivery: order.EstimatedDelivery.Format("Jan 2, 2006"),
	}

	go func(to string) {
		if err := s.emailSvc.SendOrderConfirmation(to, data); err != nil {
			log.Printf("failed to send order confirmation for %s: %v", order.OrderNumber, err)
		}
	}(user.Email)
}

// validateCheckoutInput checks the submit preconditions and reports every
// missing field at once.
func validateCheckoutInput(input *CheckoutInput) error {
	var fieldErrors []apperror.FieldError

	if input.PaymentMethod == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "payment_method",
			Message: "Payment method is required",
		})
	}
	for _, name := range input.ShippingAddress.MissingFields() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "shipping_address." + name,
			Message: "This field is required",
		})
	}
	if input.BillingAddress != nil {
		for _, name := range input.BillingAddress.MissingFields() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   "billing_address." + name,
				Message: "This field is required",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// selectedDecrements maps each selected line to the stock it consumes.
func selectedDecrements(lines []pricing.Line) map[uuid.UUID]int {
	decrements := make(map[uuid.UUID]int)
	for _, l := range lines {
		if l.Selected && l.Quantity > 0 {
			decrements[l.ProductID] = l.Quantity
		}
	}
	return decrements
}

// productNames resolves product display names for the failed IDs.
func productNames(products []entity.Product, ids []uuid.UUID) []string {
	byID := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		byID[p.ID] = p.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id.String())
		}
	}
	return names
}
