package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/application/service"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/request"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/response"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// CouponHandler handles coupon administration HTTP requests
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// List returns all coupons (admin)
func (h *CouponHandler) List(c *gin.Context) {
	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.couponService.ListCoupons(c.Request.Context(), &pageParams)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Coupons", result)
}

// Create creates a coupon (admin)
func (h *CouponHandler) Create(c *gin.Context) {
	var req request.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), &service.CreateCouponInput{
		Code:        req.Code,
		Type:        enum.CouponType(req.Type),
		Value:       req.Value,
		MaxDiscount: req.MaxDiscount,
		Description: req.Description,
		Active:      active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Coupon created", coupon)
}

// Delete removes a coupon (admin)
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
