package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/application/service"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/request"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/response"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns the caller's order history, or every order for admins
// passing all=true
func (h *OrderHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination:     &pageParams,
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
		SkipUserFilter: IsAdmin(c) && c.Query("all") == "true",
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := enum.ParseOrderStatus(statusStr)
		if !ok {
			response.BadRequest(c, "Unknown order status")
			return
		}
		params.Status = &status
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			params.StartDate = &from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			params.EndDate = &to
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders", result)
}

// Get returns a single order; shoppers can only see their own
func (h *OrderHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), *userID, orderID, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order", order)
}

// UpdateStatus transitions an order's status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, ok := enum.ParseOrderStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown order status")
		return
	}

	if status == enum.OrderStatusCancelled {
		if err := h.orderService.CancelOrder(c.Request.Context(), orderID); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Order cancelled", nil)
		return
	}

	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, status); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order status updated", nil)
}
