package checkout

import (
	"fmt"

	"github.com/example/guitar-shop/internal/catalog"
	"github.com/example/guitar-shop/internal/validation"
)

const emailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`

var (
	nameRules         = []validation.Rule{validation.Required, validation.MinLength(2), validation.NotOnlyWhitespace}
	emailRules        = []validation.Rule{validation.Required, validation.Pattern(emailPattern)}
	selectRules       = []validation.Rule{validation.Required}
	cardTypeRules     = []validation.Rule{validation.Required}
	cardNumberRules   = []validation.Rule{validation.Required, validation.Pattern(`[0-9]{16}`)}
	securityCodeRules = []validation.Rule{validation.Required, validation.Pattern(`[0-9]{3}`)}
)

// Group names one of the four sections of the checkout form
type Group string

const (
	GroupCustomer        Group = "customer"
	GroupShippingAddress Group = "shippingAddress"
	GroupBillingAddress  Group = "billingAddress"
	GroupCreditCard      Group = "creditCard"
)

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Address holds the selected country and state as catalog entries; they are
// flattened to names only when the purchase is built.
type Address struct {
	Street  string           `json:"street"`
	City    string           `json:"city"`
	State   *catalog.State   `json:"state,omitempty"`
	Country *catalog.Country `json:"country,omitempty"`
	ZipCode string           `json:"zipCode"`
}

func (a Address) clone() Address {
	if a.State != nil {
		state := *a.State
		a.State = &state
	}
	if a.Country != nil {
		country := *a.Country
		a.Country = &country
	}
	return a
}

// IsZero reports whether no field of the address is set
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == nil && a.Country == nil && a.ZipCode == ""
}

type CreditCard struct {
	CardType        string `json:"cardType"`
	NameOnCard      string `json:"nameOnCard"`
	CardNumber      string `json:"cardNumber"`
	SecurityCode    string `json:"securityCode"`
	ExpirationMonth int    `json:"expirationMonth"`
	ExpirationYear  int    `json:"expirationYear"`
}

// Form is the complete checkout form state
type Form struct {
	Customer        Customer   `json:"customer"`
	ShippingAddress Address    `json:"shippingAddress"`
	BillingAddress  Address    `json:"billingAddress"`
	CreditCard      CreditCard `json:"creditCard"`
}

func (f Form) clone() Form {
	f.ShippingAddress = f.ShippingAddress.clone()
	f.BillingAddress = f.BillingAddress.clone()
	return f
}

// Fields lists every validated field path of the form
func Fields() []string {
	return []string{
		"customer.firstName", "customer.lastName", "customer.email",
		"shippingAddress.street", "shippingAddress.city", "shippingAddress.state", "shippingAddress.country", "shippingAddress.zipCode",
		"billingAddress.street", "billingAddress.city", "billingAddress.state", "billingAddress.country", "billingAddress.zipCode",
		"creditCard.cardType", "creditCard.nameOnCard", "creditCard.cardNumber", "creditCard.securityCode",
	}
}

// Validate checks every field and returns the failures keyed by field path.
// The result is empty when the form is valid.
func (f Form) Validate() validation.Errors {
	errs := validation.Errors{}
	check := func(field, value string, rules []validation.Rule) {
		errs.Add(field, validation.Validate(&value, rules...)...)
	}

	check("customer.firstName", f.Customer.FirstName, nameRules)
	check("customer.lastName", f.Customer.LastName, nameRules)
	check("customer.email", f.Customer.Email, emailRules)

	validateAddress(errs, GroupShippingAddress, f.ShippingAddress)
	validateAddress(errs, GroupBillingAddress, f.BillingAddress)

	check("creditCard.cardType", f.CreditCard.CardType, cardTypeRules)
	check("creditCard.nameOnCard", f.CreditCard.NameOnCard, nameRules)
	check("creditCard.cardNumber", f.CreditCard.CardNumber, cardNumberRules)
	check("creditCard.securityCode", f.CreditCard.SecurityCode, securityCodeRules)

	return errs
}

func validateAddress(errs validation.Errors, group Group, a Address) {
	field := func(name string) string { return string(group) + "." + name }

	errs.Add(field("street"), validation.Validate(&a.Street, nameRules...)...)
	errs.Add(field("city"), validation.Validate(&a.City, nameRules...)...)
	errs.Add(field("state"), validation.Validate(stateName(a.State), selectRules...)...)
	errs.Add(field("country"), validation.Validate(countryName(a.Country), selectRules...)...)
	errs.Add(field("zipCode"), validation.Validate(&a.ZipCode, nameRules...)...)
}

func stateName(s *catalog.State) *string {
	if s == nil {
		return nil
	}
	return &s.Name
}

func countryName(c *catalog.Country) *string {
	if c == nil {
		return nil
	}
	return &c.Name
}

// ValidationError is returned by Submit when the form has invalid fields
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout form: %s", e.Errors.Error())
}
