package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// CreateWithStockDecrement commits an order atomically: in a single
	// transaction it inserts the order with its items, decrements each
	// product's stock only where enough remains, and removes the ordered
	// cart lines. If any product lacks stock the whole transaction rolls
	// back and the failed product IDs are returned with a nil error.
	// Nothing is ever partially applied.
	CreateWithStockDecrement(ctx context.Context, order *entity.Order, decrements map[uuid.UUID]int, cartID *uuid.UUID) (failedIDs []uuid.UUID, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, userID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination     *pagination.PaginationParams
	Status         *enum.OrderStatus
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all orders (for admins)
}
