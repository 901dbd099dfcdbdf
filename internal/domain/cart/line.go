package cart

import (
	"github.com/example/guitar-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart. ID is the product id.
type CartLine struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// NewCartLine creates a line for product with quantity 1
func NewCartLine(product catalog.Product) CartLine {
	return CartLine{
		ID:        product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		UnitPrice: product.UnitPrice,
		Quantity:  1,
	}
}

// Subtotal returns quantity × unit price
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from the current lines and never stored
type Totals struct {
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalQuantity int             `json:"totalQuantity"`
}

func computeTotals(lines []CartLine) Totals {
	totals := Totals{TotalPrice: decimal.Zero}
	for _, line := range lines {
		totals.TotalPrice = totals.TotalPrice.Add(line.Subtotal())
		totals.TotalQuantity += line.Quantity
	}
	return totals
}
