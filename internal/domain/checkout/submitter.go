package checkout

import (
	"context"
	"errors"

	"github.com/example/guitar-shop/internal/domain/order"
)

const purchasePath = "/api/checkout/purchase"

var ErrNoTrackingNumber = errors.New("purchase response has no order tracking number")

// Poster sends an authenticated JSON POST. Satisfied by *api.Client.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// HTTPSubmitter posts purchases to the checkout endpoint
type HTTPSubmitter struct {
	api Poster
}

func NewHTTPSubmitter(api Poster) *HTTPSubmitter {
	return &HTTPSubmitter{api: api}
}

func (s *HTTPSubmitter) SubmitPurchase(ctx context.Context, purchase order.Purchase) (string, error) {
	var resp order.PurchaseResponse
	if err := s.api.Post(ctx, purchasePath, purchase, &resp); err != nil {
		return "", err
	}
	if resp.OrderTrackingNumber == "" {
		return "", ErrNoTrackingNumber
	}
	return resp.OrderTrackingNumber, nil
}
