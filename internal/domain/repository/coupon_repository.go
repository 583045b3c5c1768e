package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	// GetByCode looks up a coupon by its exact, case-sensitive code.
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Coupon, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
