package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/terracottic/storefront-api/internal/config"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	domainRepo "github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/internal/presentation/http/handler"
	"github.com/terracottic/storefront-api/internal/presentation/http/middleware"
	"github.com/terracottic/storefront-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Coupon   *handler.CouponHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		registerPublicRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
		registerAdminRoutes(protected, h)
	}

	return router
}

// registerPublicRoutes registers routes that do not require authentication
func registerPublicRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/google/url", h.Auth.GoogleAuthURL)
		auth.POST("/google/callback", h.Auth.GoogleCallback)
	}

	// The catalog is browsable without an account
	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
	}
}

// registerProtectedRoutes registers routes for authenticated shoppers
func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.GET("/auth/me", h.Auth.Me)

	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:productId", h.Cart.UpdateItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.PUT("/items/:productId/selection", h.Cart.SelectItem)
		cart.PUT("/packaging", h.Cart.SetPackaging)
		cart.POST("/coupon", h.Cart.ApplyCoupon)
		cart.DELETE("/coupon", h.Cart.RemoveCoupon)
	}

	// Checkout requires an Idempotency-Key so client retries cannot
	// double-submit an order
	idempotency := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})
	checkout := rg.Group("/checkout")
	checkout.Use(idempotency)
	{
		checkout.POST("", h.Checkout.Checkout)
		checkout.POST("/buy-now", h.Checkout.BuyNow)
	}

	orders := rg.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}
}

// registerAdminRoutes registers catalog and order administration routes
func registerAdminRoutes(rg *gin.RouterGroup, h *Handlers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)

		admin.GET("/coupons", h.Coupon.List)
		admin.POST("/coupons", h.Coupon.Create)
		admin.DELETE("/coupons/:id", h.Coupon.Delete)

		admin.PUT("/orders/:id/status", h.Order.UpdateStatus)
	}
}
