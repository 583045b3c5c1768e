package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus int

const (
	OrderStatusProcessing OrderStatus = 0
	OrderStatusShipped    OrderStatus = 1
	OrderStatusDelivered  OrderStatus = 2
	OrderStatusCancelled  OrderStatus = 3
)

func (s OrderStatus) String() string {
	return [...]string{"Processing", "Shipped", "Delivered", "Cancelled"}[s]
}

// IsValid reports whether the status is one of the known values
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusProcessing && s <= OrderStatusCancelled
}

// ParseOrderStatus maps an API status string to its enum value
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch s {
	case "processing":
		return OrderStatusProcessing, true
	case "shipped":
		return OrderStatusShipped, true
	case "delivered":
		return OrderStatusDelivered, true
	case "cancelled":
		return OrderStatusCancelled, true
	}
	return OrderStatusProcessing, false
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "Processing":
		*s = OrderStatusProcessing
	case "Shipped":
		*s = OrderStatusShipped
	case "Delivered":
		*s = OrderStatusDelivered
	case "Cancelled":
		*s = OrderStatusCancelled
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusProcessing
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
