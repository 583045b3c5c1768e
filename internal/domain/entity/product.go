package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Slug            string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	SKU             string         `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	Category        string         `gorm:"size:100;index" json:"category"`
	Price           int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountPercent int            `gorm:"default:0" json:"discount_percent"`
	Stock           int            `gorm:"default:0" json:"stock"`
	PackagingPrice  *int64         `json:"-"` // Cents; nil means the default packaging fee applies
	MaxPerOrder     int            `gorm:"default:0" json:"max_per_order"` // 0 = no limit
	ImageURL        *string        `gorm:"size:512" json:"image_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price * 100)
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	out := struct {
		Alias
		Price          float64  `json:"price"`
		PackagingPrice *float64 `json:"packaging_price,omitempty"`
	}{
		Alias: Alias(p),
		Price: p.GetPriceDecimal(),
	}
	if p.PackagingPrice != nil {
		pkg := float64(*p.PackagingPrice) / 100
		out.PackagingPrice = &pkg
	}
	return json.Marshal(out)
}
