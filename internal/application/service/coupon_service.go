package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/apperror"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// CouponService handles coupon application and administration
type CouponService struct {
	couponRepo repository.CouponRepository
	cartRepo   repository.CartRepository
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository, cartRepo repository.CartRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, cartRepo: cartRepo}
}

// ApplyCoupon attaches a coupon to the user's cart. The code is trimmed but
// matched case-sensitively. Only one coupon may be applied at a time; the
// existing one must be removed first.
func (s *CouponService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*entity.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Coupon code is required")
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.CouponCode != nil {
		return nil, apperror.ErrCouponAlreadyApplied
	}

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.Active {
		return nil, apperror.ErrCouponNotFound
	}

	if err := s.cartRepo.SetCouponCode(ctx, cart.ID, &coupon.Code); err != nil {
		return nil, err
	}
	return coupon, nil
}

// RemoveCoupon clears any coupon from the user's cart. Removing when no
// coupon is applied is a no-op, not an error.
func (s *CouponService) RemoveCoupon(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil || cart.CouponCode == nil {
		return nil
	}
	return s.cartRepo.SetCouponCode(ctx, cart.ID, nil)
}

// CreateCouponInput represents the create coupon input
type CreateCouponInput struct {
	Code        string
	Type        enum.CouponType
	Value       float64 // percent points or decimal amount depending on type
	MaxDiscount *float64
	Description *string
	Active      bool
}

// CreateCoupon creates a new coupon (admin)
func (s *CouponService) CreateCoupon(ctx context.Context, input *CreateCouponInput) (*entity.Coupon, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Coupon code is required")
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown coupon type")
	}

	switch input.Type {
	case enum.CouponPercentage:
		if input.Value < 0 || input.Value > 100 {
			return nil, apperror.NewBadRequestError("Percentage value must be between 0 and 100")
		}
	case enum.CouponFixed:
		if input.Value < 0 {
			return nil, apperror.NewBadRequestError("Fixed discount cannot be negative")
		}
	}

	existing, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A coupon with this code already exists")
	}

	coupon := &entity.Coupon{
		Code:        code,
		Type:        input.Type,
		Description: input.Description,
		Active:      input.Active,
	}
	switch input.Type {
	case enum.CouponPercentage:
		coupon.Value = int64(input.Value)
		if input.MaxDiscount != nil {
			maxCents := int64(*input.MaxDiscount * 100)
			coupon.MaxDiscount = &maxCents
		}
	case enum.CouponFixed:
		coupon.Value = int64(input.Value * 100)
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// ListCoupons retrieves coupons with pagination (admin)
func (s *CouponService) ListCoupons(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Coupon], error) {
	coupons, total, err := s.couponRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(coupons, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// DeleteCoupon removes a coupon (admin). Carts still referencing the code
// simply price without a discount afterwards.
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	return s.couponRepo.Delete(ctx, id)
}
