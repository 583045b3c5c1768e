package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/pricing"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/apperror"
)

// CartService handles cart operations. Every read recomputes the totals from
// the live catalog; nothing derived is ever stored on the cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
	}
}

// CartView is a cart enriched with its priced lines and totals breakdown.
type CartView struct {
	Cart      *entity.Cart   `json:"cart"`
	Lines     []CartLineView `json:"lines"`
	Breakdown TotalsView     `json:"breakdown"`
	Coupon    *entity.Coupon `json:"coupon,omitempty"`
}

// TotalsView is a pricing breakdown converted to decimal display units.
type TotalsView struct {
	Subtotal         float64 `json:"subtotal"`
	OriginalSubtotal float64 `json:"original_subtotal"`
	DiscountAmount   float64 `json:"discount_amount"`
	ShippingCost     float64 `json:"shipping_cost"`
	PackagingCost    float64 `json:"packaging_cost"`
	Tax              float64 `json:"tax"`
	GrandTotal       float64 `json:"grand_total"`
}

// NewTotalsView converts a cents breakdown to display units.
func NewTotalsView(b pricing.Breakdown) TotalsView {
	return TotalsView{
		Subtotal:         float64(b.Subtotal) / 100,
		OriginalSubtotal: float64(b.OriginalSubtotal) / 100,
		DiscountAmount:   float64(b.DiscountAmount) / 100,
		ShippingCost:     float64(b.ShippingCost) / 100,
		PackagingCost:    float64(b.PackagingCost) / 100,
		Tax:              float64(b.Tax) / 100,
		GrandTotal:       float64(b.GrandTotal) / 100,
	}
}

// CartLineView is a cart line joined with live catalog data.
type CartLineView struct {
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	ImageURL        *string   `json:"image_url,omitempty"`
	UnitPrice       float64   `json:"unit_price"`
	EffectivePrice  float64   `json:"effective_price"`
	DiscountPercent int       `json:"discount_percent"`
	Quantity        int       `json:"quantity"`
	Selected        bool      `json:"selected"`
	Stock           int       `json:"stock"`
	LineTotal       float64   `json:"line_total"`
}

// GetCart returns the user's cart with freshly computed totals. A user who
// has never carted anything gets an empty view rather than an error.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

// AddItem adds a product to the cart. Adding a product that is already
// carted merges the quantities; the result is clamped to stock and the
// per-order limit.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, apperror.NewBadRequestError("Quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if product.Stock < 1 {
		return nil, apperror.NewConflictError(fmt.Sprintf("%s is out of stock", product.Name))
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		if item.ProductID == productID {
			quantity += item.Quantity
			break
		}
	}
	quantity = clampQuantity(quantity, product)

	item := &entity.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		Selected:  true,
	}
	if err := s.cartRepo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// UpdateQuantity changes a line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}

	if quantity == 0 {
		if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
			return nil, err
		}
		return s.refresh(ctx, userID)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	quantity = clampQuantity(quantity, product)

	if err := s.cartRepo.UpdateItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

// Clear removes every line from the cart and detaches its coupon.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	if cart.CouponCode != nil {
		if err := s.cartRepo.SetCouponCode(ctx, cart.ID, nil); err != nil {
			return nil, err
		}
	}
	return s.refresh(ctx, userID)
}

// SetItemSelected toggles whether a line participates in totals and checkout.
func (s *CartService) SetItemSelected(ctx context.Context, userID, productID uuid.UUID, selected bool) (*CartView, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := s.cartRepo.SetItemSelected(ctx, cart.ID, productID, selected); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

// SetPackagingTier switches the cart between free and essential packaging.
func (s *CartService) SetPackagingTier(ctx context.Context, userID uuid.UUID, tier enum.PackagingTier) (*CartView, error) {
	if !tier.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown packaging tier")
	}
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetPackagingTier(ctx, cart.ID, tier); err != nil {
		return nil, err
	}
	return s.refresh(ctx, userID)
}

// BuildPricingLines joins the cart's items against the live catalog and
// returns pricing input lines. Lines whose product has vanished from the
// catalog are dropped.
func (s *CartService) BuildPricingLines(ctx context.Context, cart *entity.Cart) ([]pricing.Line, []entity.Product, error) {
	if len(cart.Items) == 0 {
		return nil, nil, nil
	}

	productIDs := make([]uuid.UUID, len(cart.Items))
	for i, item := range cart.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, pricing.Line{
			ProductID:          product.ID,
			Name:               product.Name,
			UnitPrice:          product.Price,
			DiscountPercent:    product.DiscountPercent,
			Quantity:           item.Quantity,
			PackagingUnitPrice: packagingPrice(&product),
			Selected:           item.Selected,
		})
	}
	return lines, products, nil
}

// ResolveCoupon loads the coupon applied to the cart, if any. A coupon that
// was deleted or deactivated after being applied prices as if absent.
func (s *CartService) ResolveCoupon(ctx context.Context, cart *entity.Cart) (*entity.Coupon, *pricing.Coupon, error) {
	if cart.CouponCode == nil {
		return nil, nil, nil
	}
	coupon, err := s.couponRepo.GetByCode(ctx, *cart.CouponCode)
	if err != nil {
		return nil, nil, err
	}
	if coupon == nil || !coupon.Active {
		return nil, nil, nil
	}
	return coupon, &pricing.Coupon{
		Code:        coupon.Code,
		Type:        coupon.Type,
		Value:       coupon.Value,
		MaxDiscount: coupon.MaxDiscount,
	}, nil
}

func (s *CartService) refresh(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return s.buildView(ctx, cart)
}

func (s *CartService) buildView(ctx context.Context, cart *entity.Cart) (*CartView, error) {
	lines, products, err := s.BuildPricingLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	coupon, pricingCoupon, err := s.ResolveCoupon(ctx, cart)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lineViews := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		product := byID[l.ProductID]
		effective := pricing.EffectiveUnitPrice(l)
		lineViews = append(lineViews, CartLineView{
			ProductID:       l.ProductID,
			Name:            l.Name,
			Slug:            product.Slug,
			ImageURL:        product.ImageURL,
			UnitPrice:       float64(l.UnitPrice) / 100,
			EffectivePrice:  float64(effective) / 100,
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
			Selected:        l.Selected,
			Stock:           product.Stock,
			LineTotal:       float64(effective*int64(l.Quantity)) / 100,
		})
	}

	return &CartView{
		Cart:      cart,
		Lines:     lineViews,
		Breakdown: NewTotalsView(pricing.Compute(lines, cart.PackagingTier, pricingCoupon)),
		Coupon:    coupon,
	}, nil
}

// clampQuantity bounds a requested quantity by available stock and the
// product's per-order limit.
func clampQuantity(quantity int, product *entity.Product) int {
	if product.MaxPerOrder > 0 && quantity > product.MaxPerOrder {
		quantity = product.MaxPerOrder
	}
	if quantity > product.Stock {
		quantity = product.Stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

// packagingPrice resolves a product's essential packaging charge, falling
// back to the default fee when the product does not set one.
func packagingPrice(p *entity.Product) pricing.Money {
	if p.PackagingPrice != nil {
		return *p.PackagingPrice
	}
	return pricing.DefaultPackagingFee
}
