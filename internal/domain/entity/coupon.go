package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Coupon is a discount document looked up by code. Codes are stored and
// matched case-sensitively; the only normalization applied on lookup is a
// trim. Value holds percent points for percentage coupons and cents for
// fixed coupons; the free_* types ignore it.
type Coupon struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code        string          `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Type        enum.CouponType `gorm:"size:20;not null" json:"type"`
	Value       int64           `gorm:"default:0" json:"-"`
	MaxDiscount *int64          `json:"-"` // Cents, percentage coupons only
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Active      bool            `gorm:"default:true" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// MarshalJSON converts the coupon to JSON with display units: fixed values
// and discount caps become decimals, percentage values stay as percent
// points.
func (c Coupon) MarshalJSON() ([]byte, error) {
	type Alias Coupon
	out := struct {
		Alias
		Value       float64  `json:"value"`
		MaxDiscount *float64 `json:"max_discount,omitempty"`
	}{
		Alias: Alias(c),
		Value: float64(c.Value),
	}
	if c.Type == enum.CouponFixed {
		out.Value = float64(c.Value) / 100
	}
	if c.MaxDiscount != nil {
		cap := float64(*c.MaxDiscount) / 100
		out.MaxDiscount = &cap
	}
	return json.Marshal(out)
}
