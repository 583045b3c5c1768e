package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	domainRepo "github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/pagination"
	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) domainRepo.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	// Codes match exactly, "SAVE20" and "save20" are different coupons
	err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

func (r *couponRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Coupon, int64, error) {
	var coupons []entity.Coupon
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Coupon{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&coupons).Error

	return coupons, total, err
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Coupon{}, "id = ?", id).Error
}
