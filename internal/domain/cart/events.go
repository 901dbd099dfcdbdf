package cart

import "time"

const (
	AggregateType    = "Cart"
	EventCartUpdated = "CartUpdated"
)

type CartUpdated struct {
	CartID    string     `json:"cart_id"`
	Lines     []CartLine `json:"lines"`
	Totals    Totals     `json:"totals"`
	UpdatedAt time.Time  `json:"updated_at"`
}
