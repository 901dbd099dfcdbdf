// Package checkout turns the checkout form and the current cart into a
// purchase and submits it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/guitar-shop/internal/catalog"
	"github.com/example/guitar-shop/internal/domain/cart"
	"github.com/example/guitar-shop/internal/domain/order"
	"go.uber.org/zap"
)

const expirationYears = 10

var (
	ErrUnknownGroup   = errors.New("not an address group")
	ErrUnknownCountry = errors.New("unknown country")
	ErrUnknownState   = errors.New("unknown state")
)

// Cart is the part of the cart store checkout reads and resets
type Cart interface {
	Lines() []cart.CartLine
	Totals() cart.Totals
	Clear(ctx context.Context)
}

// OrderSubmitter sends a purchase to the backend and returns its tracking number
type OrderSubmitter interface {
	SubmitPurchase(ctx context.Context, purchase order.Purchase) (string, error)
}

// PlaceSource lists the countries and states offered in address groups.
// Satisfied by *catalog.Client.
type PlaceSource interface {
	Countries(ctx context.Context) ([]catalog.Country, error)
	States(ctx context.Context, countryCode string) ([]catalog.State, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, aggregateID, aggregateType, eventType string, data any) error
}

// Checkout holds the checkout form and the selectable country and state
// lists. It is not safe for concurrent use.
type Checkout struct {
	cart      Cart
	submitter OrderSubmitter
	places    PlaceSource
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time

	form      Form
	touched   map[string]bool
	countries []catalog.Country
	states    map[Group][]catalog.State
}

// New creates an empty checkout. publisher may be nil.
func New(c Cart, submitter OrderSubmitter, places PlaceSource, publisher EventPublisher, log *zap.Logger) *Checkout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checkout{
		cart:      c,
		submitter: submitter,
		places:    places,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		touched:   make(map[string]bool),
		states:    make(map[Group][]catalog.State),
	}
}

// Form returns a copy of the current form state
func (c *Checkout) Form() Form {
	return c.form.clone()
}

// SetForm replaces the whole form
func (c *Checkout) SetForm(f Form) {
	c.form = f.clone()
}

func (c *Checkout) SetCustomer(customer Customer) {
	c.form.Customer = customer
}

func (c *Checkout) SetCreditCard(card CreditCard) {
	c.form.CreditCard = card
}

// SetAddress replaces an address group's values. The group's state list is
// left as is.
func (c *Checkout) SetAddress(group Group, address Address) error {
	a, err := c.address(group)
	if err != nil {
		return err
	}
	*a = address.clone()
	return nil
}

func (c *Checkout) address(group Group) (*Address, error) {
	switch group {
	case GroupShippingAddress:
		return &c.form.ShippingAddress, nil
	case GroupBillingAddress:
		return &c.form.BillingAddress, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
}

// Touch marks a field as edited so its validation errors are shown
func (c *Checkout) Touch(field string) {
	c.touched[field] = true
}

func (c *Checkout) MarkAllTouched() {
	for _, field := range Fields() {
		c.touched[field] = true
	}
}

func (c *Checkout) Touched(field string) bool {
	return c.touched[field]
}

// VisibleErrors returns the validation failures of touched fields only
func (c *Checkout) VisibleErrors() map[string][]string {
	visible := make(map[string][]string)
	for field, names := range c.form.Validate() {
		if c.touched[field] {
			visible[field] = names
		}
	}
	return visible
}

// LoadCountries fetches the countries offered in address groups
func (c *Checkout) LoadCountries(ctx context.Context) error {
	countries, err := c.places.Countries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load countries: %w", err)
	}
	c.countries = countries
	c.log.Debug("countries loaded", zap.Int("count", len(countries)))
	return nil
}

func (c *Checkout) Countries() []catalog.Country {
	return append([]catalog.Country(nil), c.countries...)
}

// States returns the selectable states of an address group
func (c *Checkout) States(group Group) []catalog.State {
	return append([]catalog.State{}, c.states[group]...)
}

// SelectCountry sets the group's country, replaces the group's state list
// with that country's states and defaults the state to the first of them.
// On a failed fetch the country is set and the state list is left unchanged.
func (c *Checkout) SelectCountry(ctx context.Context, group Group, country catalog.Country) error {
	a, err := c.address(group)
	if err != nil {
		return err
	}
	a.Country = &country

	states, err := c.places.States(ctx, country.Code)
	if err != nil {
		return fmt.Errorf("failed to load states for %s: %w", country.Code, err)
	}

	c.states[group] = states
	if len(states) > 0 {
		first := states[0]
		a.State = &first
	} else {
		a.State = nil
	}
	c.log.Debug("states loaded",
		zap.String("group", string(group)),
		zap.String("country", country.Code),
		zap.Int("count", len(states)),
	)
	return nil
}

// SelectCountryByCode is SelectCountry for a country of the loaded list
func (c *Checkout) SelectCountryByCode(ctx context.Context, group Group, code string) error {
	for _, country := range c.countries {
		if strings.EqualFold(country.Code, code) {
			return c.SelectCountry(ctx, group, country)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCountry, code)
}

// SelectState sets the group's state to the entry of its state list named name
func (c *Checkout) SelectState(group Group, name string) error {
	a, err := c.address(group)
	if err != nil {
		return err
	}
	for _, state := range c.states[group] {
		if strings.EqualFold(state.Name, name) {
			selected := state
			a.State = &selected
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownState, name)
}

// CopyShippingToBilling copies the shipping group and its state list into
// the billing group when enabled, and clears the billing group otherwise.
// Later shipping edits are not propagated.
func (c *Checkout) CopyShippingToBilling(enabled bool) {
	if enabled {
		c.form.BillingAddress = c.form.ShippingAddress.clone()
		c.states[GroupBillingAddress] = append([]catalog.State(nil), c.states[GroupShippingAddress]...)
		return
	}
	c.form.BillingAddress = Address{}
	delete(c.states, GroupBillingAddress)
}

// SetExpirationYear selects the card expiration year
func (c *Checkout) SetExpirationYear(year int) {
	c.form.CreditCard.ExpirationYear = year
}

// CreditCardMonths lists the selectable expiration months. In the current
// year months before the current one are excluded.
func (c *Checkout) CreditCardMonths() []int {
	now := c.now()
	start := 1
	if c.form.CreditCard.ExpirationYear == now.Year() {
		start = int(now.Month())
	}
	months := make([]int, 0, 13-start)
	for m := start; m <= 12; m++ {
		months = append(months, m)
	}
	return months
}

// CreditCardYears lists the current year and the following ten
func (c *Checkout) CreditCardYears() []int {
	year := c.now().Year()
	years := make([]int, 0, expirationYears+1)
	for y := year; y <= year+expirationYears; y++ {
		years = append(years, y)
	}
	return years
}

// Submit validates the form, submits the purchase built from it and the
// cart, and on success clears the cart and resets the form. Invalid forms
// return *ValidationError without submitting. A failed submission changes
// nothing.
func (c *Checkout) Submit(ctx context.Context) (string, error) {
	if errs := c.form.Validate(); len(errs) > 0 {
		c.MarkAllTouched()
		return "", &ValidationError{Errors: errs}
	}

	purchase := BuildPurchase(c.form, c.cart.Lines(), c.cart.Totals())

	trackingNumber, err := c.submitter.SubmitPurchase(ctx, purchase)
	if err != nil {
		c.log.Warn("purchase submission failed", zap.Error(err))
		return "", fmt.Errorf("failed to submit purchase: %w", err)
	}

	c.log.Info("order placed",
		zap.String("tracking_number", trackingNumber),
		zap.Int("items", len(purchase.OrderItems)),
		zap.String("total_price", purchase.Order.TotalPrice.StringFixed(2)),
	)
	c.publishOrderPlaced(ctx, trackingNumber, purchase)

	c.cart.Clear(ctx)
	c.Reset()
	return trackingNumber, nil
}

func (c *Checkout) publishOrderPlaced(ctx context.Context, trackingNumber string, purchase order.Purchase) {
	if c.publisher == nil {
		return
	}
	event := order.NewOrderPlaced(trackingNumber, purchase, c.now())
	if err := c.publisher.PublishEvent(ctx, trackingNumber, order.AggregateType, order.EventOrderPlaced, event); err != nil {
		c.log.Warn("failed to publish order event", zap.Error(err))
	}
}

// Reset clears the form, touched flags and state lists. Loaded countries
// are kept.
func (c *Checkout) Reset() {
	c.form = Form{}
	c.touched = make(map[string]bool)
	c.states = make(map[Group][]catalog.State)
}

// BuildPurchase assembles the purchase for form, lines and totals. Lines
// map to order items in order; state and country selections become names.
func BuildPurchase(form Form, lines []cart.CartLine, totals cart.Totals) order.Purchase {
	return order.Purchase{
		Customer: order.Customer{
			FirstName: form.Customer.FirstName,
			LastName:  form.Customer.LastName,
			Email:     form.Customer.Email,
		},
		ShippingAddress: toOrderAddress(form.ShippingAddress),
		BillingAddress:  toOrderAddress(form.BillingAddress),
		Order:           order.NewOrder(totals),
		OrderItems:      order.NewOrderItems(lines),
	}
}

func toOrderAddress(a Address) order.Address {
	addr := order.Address{
		Street:  a.Street,
		City:    a.City,
		ZipCode: a.ZipCode,
	}
	if a.State != nil {
		addr.State = a.State.Name
	}
	if a.Country != nil {
		addr.Country = a.Country.Name
	}
	return addr
}
