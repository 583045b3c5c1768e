package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Address is a postal address embedded on orders. Shipping and billing
// addresses are snapshots taken at checkout, never references to a profile.
type Address struct {
	FullName   string `gorm:"size:255" json:"full_name"`
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:100" json:"state"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
	Country    string `gorm:"size:100" json:"country"`
	Phone      string `gorm:"size:30" json:"phone"`
}

// Complete reports whether the address has every field checkout requires.
func (a Address) Complete() bool {
	return a.FullName != "" && a.Line1 != "" && a.City != "" &&
		a.State != "" && a.PostalCode != "" && a.Country != "" && a.Phone != ""
}

// MissingFields returns the names of required address fields that are empty.
func (a Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"full_name", a.FullName},
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
		{"country", a.Country},
		{"phone", a.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Order is the durable record committed at checkout. The totals columns are
// the breakdown frozen before the write; they are never recomputed. Orders
// live in a single table and the per-user history is the user_id index, not
// a duplicated document.
type Order struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber       string             `gorm:"size:20;not null;index" json:"order_number"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            enum.OrderStatus   `gorm:"default:0" json:"status"`
	PaymentMethod     string             `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus     enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	SelectedPackaging enum.PackagingTier `gorm:"size:20;default:free" json:"selected_packaging"`
	CouponCode        *string            `gorm:"size:100" json:"coupon_code,omitempty"`
	Subtotal          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OriginalSubtotal  int64              `gorm:"default:0" json:"-"`
	DiscountAmount    int64              `gorm:"default:0" json:"-"`
	ShippingCost      int64              `gorm:"default:0" json:"-"`
	PackagingCost     int64              `gorm:"default:0" json:"-"`
	Tax               int64              `gorm:"default:0" json:"-"`
	Total             int64              `gorm:"default:0" json:"-"`
	ShippingAddress   Address            `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress    Address            `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	OrderDate         time.Time          `gorm:"not null" json:"order_date"`
	EstimatedDelivery time.Time          `json:"estimated_delivery"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Subtotal         float64 `json:"subtotal"`
		OriginalSubtotal float64 `json:"original_subtotal"`
		DiscountAmount   float64 `json:"discount_amount"`
		ShippingCost     float64 `json:"shipping_cost"`
		PackagingCost    float64 `json:"packaging_cost"`
		Tax              float64 `json:"tax"`
		Total            float64 `json:"total"`
	}{
		Alias:            Alias(o),
		Subtotal:         float64(o.Subtotal) / 100,
		OriginalSubtotal: float64(o.OriginalSubtotal) / 100,
		DiscountAmount:   float64(o.DiscountAmount) / 100,
		ShippingCost:     float64(o.ShippingCost) / 100,
		PackagingCost:    float64(o.PackagingCost) / 100,
		Tax:              float64(o.Tax) / 100,
		Total:            float64(o.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a purchased line frozen at checkout: name, category, sku and
// prices are copied from the catalog so later product edits cannot rewrite
// history.
type OrderItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	SKU             string         `gorm:"size:100" json:"sku"`
	Category        string         `gorm:"size:100" json:"category"`
	Price           int64          `gorm:"not null" json:"-"` // Effective unit price in cents
	OriginalPrice   int64          `gorm:"not null" json:"-"`
	DiscountPercent int            `gorm:"default:0" json:"discount_percent"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		Price         float64 `json:"price"`
		OriginalPrice float64 `json:"original_price"`
	}{
		Alias:         Alias(oi),
		Price:         float64(oi.Price) / 100,
		OriginalPrice: float64(oi.OriginalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
