package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/application/service"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/request"
	"github.com/terracottic/storefront-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles checkout HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout finalizes the cart into an order
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), *userID, &service.CheckoutInput{
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: toAddress(req.ShippingAddress),
		BillingAddress:  toAddressPtr(req.BillingAddress),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order placed", order)
}

// BuyNow finalizes a single-product purchase without touching the cart
func (h *CheckoutHandler) BuyNow(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	order, err := h.checkoutService.BuyNow(c.Request.Context(), *userID, productID, req.Quantity, &service.CheckoutInput{
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: toAddress(req.ShippingAddress),
		BillingAddress:  toAddressPtr(req.BillingAddress),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order placed", order)
}

func toAddress(a request.AddressRequest) entity.Address {
	return entity.Address{
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func toAddressPtr(a *request.AddressRequest) *entity.Address {
	if a == nil {
		return nil
	}
	addr := toAddress(*a)
	return &addr
}
