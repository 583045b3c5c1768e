package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/apperror"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// OrderService handles order history and administration. All reads go
// through the one orders table; a user's history is a filtered view of it.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo}
}

// GetOrder retrieves an order. Non-admin callers can only see their own.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !isAdmin && order.UserID != userID {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders retrieves orders with pagination. SkipUserFilter on the params
// widens the listing to all users (admin only; the handler enforces that).
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(orders, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// UpdateOrderStatus transitions an order's status (admin)
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) error {
	if !status.IsValid() {
		return apperror.NewBadRequestError("Unknown order status")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return apperror.NewConflictError("Cancelled orders cannot change status")
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

// CancelOrder cancels an order and restores the stock it consumed (admin).
// Delivered orders cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	switch order.Status {
	case enum.OrderStatusCancelled:
		return apperror.NewConflictError("Order is already cancelled")
	case enum.OrderStatusDelivered:
		return apperror.NewConflictError("Delivered orders cannot be cancelled")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, enum.OrderStatusCancelled); err != nil {
		return err
	}

	increments := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		increments[item.ProductID] += item.Quantity
	}
	return s.productRepo.AtomicIncrementStock(ctx, increments)
}
