package order

import (
	"github.com/example/guitar-shop/internal/domain/cart"
	"github.com/shopspring/decimal"
)

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Address carries state and country as display names
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// Order is a snapshot of the cart totals at submission time
type Order struct {
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalQuantity int             `json:"totalQuantity"`
}

func NewOrder(totals cart.Totals) Order {
	return Order{
		TotalPrice:    totals.TotalPrice,
		TotalQuantity: totals.TotalQuantity,
	}
}

// OrderItem is a copy of one cart line
type OrderItem struct {
	ImageURL  string          `json:"imageUrl"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ProductID string          `json:"productId"`
}

func NewOrderItem(line cart.CartLine) OrderItem {
	return OrderItem{
		ImageURL:  line.ImageURL,
		UnitPrice: line.UnitPrice,
		Quantity:  line.Quantity,
		ProductID: line.ID,
	}
}

// NewOrderItems maps lines to order items, preserving order
func NewOrderItems(lines []cart.CartLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, NewOrderItem(line))
	}
	return items
}

// Purchase is the payload posted to the checkout endpoint
type Purchase struct {
	Customer        Customer    `json:"customer"`
	ShippingAddress Address     `json:"shippingAddress"`
	BillingAddress  Address     `json:"billingAddress"`
	Order           Order       `json:"order"`
	OrderItems      []OrderItem `json:"orderItems"`
}

type PurchaseResponse struct {
	OrderTrackingNumber string `json:"orderTrackingNumber"`
}
