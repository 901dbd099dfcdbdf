package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AggregateType    = "Order"
	EventOrderPlaced = "OrderPlaced"
)

type OrderPlaced struct {
	OrderTrackingNumber string          `json:"order_tracking_number"`
	CustomerEmail       string          `json:"customer_email"`
	Items               []OrderItem     `json:"items"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	TotalQuantity       int             `json:"total_quantity"`
	PlacedAt            time.Time       `json:"placed_at"`
}

func NewOrderPlaced(trackingNumber string, purchase Purchase, placedAt time.Time) OrderPlaced {
	return OrderPlaced{
		OrderTrackingNumber: trackingNumber,
		CustomerEmail:       purchase.Customer.Email,
		Items:               purchase.OrderItems,
		TotalPrice:          purchase.Order.TotalPrice,
		TotalQuantity:       purchase.Order.TotalQuantity,
		PlacedAt:            placedAt,
	}
}
