package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
)

// CartRepository defines the interface for cart data operations. A user has
// at most one cart; GetOrCreate materializes it lazily on first use.
type CartRepository interface {
	// GetByUserID returns the user's cart with items and their products
	// preloaded, or nil when the user has never carted anything.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	// UpsertItem inserts the line or, when the product is already carted,
	// replaces its quantity.
	UpsertItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	SetItemSelected(ctx context.Context, cartID, productID uuid.UUID, selected bool) error
	SetPackagingTier(ctx context.Context, cartID uuid.UUID, tier enum.PackagingTier) error
	// SetCouponCode applies or clears (nil) the cart's coupon.
	SetCouponCode(ctx context.Context, cartID uuid.UUID, code *string) error
	// RemoveItems deletes the given cart lines; used after checkout to
	// clear only the lines that were ordered.
	RemoveItems(ctx context.Context, cartID uuid.UUID, productIDs []uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}
