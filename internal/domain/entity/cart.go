package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Cart is a shopper's persistent cart. The packaging tier and any applied
// coupon code live on the cart row; totals are never stored and are
// recomputed from the live catalog on every read.
type Cart struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	PackagingTier enum.PackagingTier `gorm:"size:20;default:free" json:"packaging_tier"`
	CouponCode    *string            `gorm:"size:100" json:"coupon_code,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a single line in a cart. The line stores only the product
// reference, quantity and selection flag; unit prices come from the catalog
// at pricing time so a stale cart never freezes an old price.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Selected  bool      `gorm:"not null;default:true" json:"selected"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart item
func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}
