package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	domainRepo "github.com/terracottic/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
)

// errInsufficientStock forces a rollback of the checkout transaction when a
// guarded decrement touches no rows.
var errInsufficientStock = errors.New("insufficient stock")

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithStockDecrement commits an order as one transaction: order +
// items insert, a guarded stock decrement per line, and removal of the
// ordered cart lines. The decrement is conditional
// (UPDATE ... SET stock = stock - n WHERE id = ? AND stock >= n) so two
// concurrent buyers of the last unit cannot both succeed: the loser's
// update affects zero rows and the whole transaction rolls back.
func (r *orderRepository) CreateWithStockDecrement(ctx context.Context, order *entity.Order, decrements map[uuid.UUID]int, cartID *uuid.UUID) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for id, amount := range decrements {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", id, amount).
				Update("stock", gorm.Expr("stock - ?", amount))

			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return errInsufficientStock
		}

		if cartID != nil {
			orderedIDs := make([]uuid.UUID, 0, len(decrements))
			for id := range decrements {
				orderedIDs = append(orderedIDs, id)
			}
			if err := tx.
				Where("cart_id = ? AND product_id IN ?", *cartID, orderedIDs).
				Delete(&entity.CartItem{}).Error; err != nil {
				return err
			}
		}

		return nil
	})

	// A stock failure is reported through failedIDs, not as a transport error
	if errors.Is(err, errInsufficientStock) {
		return failedIDs, nil
	}
	return failedIDs, err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "order_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
