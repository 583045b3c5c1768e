package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/application/service"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/request"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/response"
)

// CartHandler handles cart HTTP requests
type CartHandler struct {
	cartService   *service.CartService
	couponService *service.CouponService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, couponService *service.CouponService) *CartHandler {
	return &CartHandler{cartService: cartService, couponService: couponService}
}

// Get returns the cart with freshly computed totals
func (h *CartHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart", view)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.cartService.Clear(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", view)
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), *userID, productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", view)
}

// UpdateItem changes a line's quantity; zero removes it
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.cartService.UpdateQuantity(c.Request.Context(), *userID, productID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), *userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", view)
}

// SelectItem toggles whether a line participates in totals and checkout
func (h *CartHandler) SelectItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.SelectCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.cartService.SetItemSelected(c.Request.Context(), *userID, productID, *req.Selected)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Selection updated", view)
}

// SetPackaging switches the cart between packaging tiers
func (h *CartHandler) SetPackaging(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SetPackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.cartService.SetPackagingTier(c.Request.Context(), *userID, enum.PackagingTier(req.Tier))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Packaging updated", view)
}

// ApplyCoupon attaches a coupon code to the cart
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.couponService.ApplyCoupon(c.Request.Context(), *userID, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Coupon applied", view)
}

// RemoveCoupon clears the coupon from the cart
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.couponService.RemoveCoupon(c.Request.Context(), *userID); err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Coupon removed", view)
}
