package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/guitar-shop/internal/app"
	"github.com/example/guitar-shop/internal/auth"
	"github.com/example/guitar-shop/internal/catalog"
	"github.com/example/guitar-shop/internal/domain/cart"
	"github.com/example/guitar-shop/internal/domain/checkout"
	"github.com/example/guitar-shop/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

const usage = `usage: storefront <command> [arguments]

catalog:
  products [-category N] [-page N] [-size N]
  search [-page N] [-size N] <keyword>
  product <id>
  categories
  countries
  states <country-code>

cart:
  cart
  add <product-id>
  dec <product-id>
  remove <product-id>
  checkout [-same-billing] <form.json>

account:
  login -user <login> -password <password>
  register -first <name> -last <name> -user <login> -password <password>
  logout
  whoami

events:
  activity [-group <consumer-group>]
`

var errUsage = errors.New("invalid arguments")

type command func(ctx context.Context, a *app.App, args []string, out io.Writer) error

var commands = map[string]command{
	"products":   cmdProducts,
	"search":     cmdSearch,
	"product":    cmdProduct,
	"categories": cmdCategories,
	"countries":  cmdCountries,
	"states":     cmdStates,
	"cart":       cmdCart,
	"add":        cmdAdd,
	"dec":        cmdDecrement,
	"remove":     cmdRemove,
	"checkout":   cmdCheckout,
	"login":      cmdLogin,
	"register":   cmdRegister,
	"logout":     cmdLogout,
	"whoami":     cmdWhoami,
	"activity":   cmdActivity,
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(out, usage)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd(ctx, a, args[1:], out)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		return "", fmt.Errorf("%w: %s requires %s", errUsage, fs.Name(), what)
	}
	return fs.Arg(0), nil
}

// ============================================
// Catalog
// ============================================

func cmdProducts(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("products", out)
	category := fs.Int64("category", 1, "category id")
	page := fs.Int("page", 1, "page number, starting at 1")
	size := fs.Int("size", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.Catalog.ProductsByCategory(ctx, *category, *page-1, *size)
	if err != nil {
		return err
	}
	printProductPage(out, result)
	return nil
}

func cmdSearch(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("search", out)
	page := fs.Int("page", 1, "page number, starting at 1")
	size := fs.Int("size", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	keyword, err := oneArg(fs, "a keyword")
	if err != nil {
		return err
	}

	result, err := a.Catalog.SearchProducts(ctx, keyword, *page-1, *size)
	if err != nil {
		return err
	}
	printProductPage(out, result)
	return nil
}

func printProductPage(out io.Writer, result *catalog.ProductPage) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tIN STOCK")
	for _, p := range result.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, money(p.UnitPrice), p.UnitsInStock)
	}
	w.Flush()

	totalPages := result.Page.TotalPages
	if totalPages == 0 {
		totalPages = 1
	}
	fmt.Fprintf(out, "page %d of %d (%d products)\n", result.Page.Number+1, totalPages, result.Page.TotalElements)
}

func cmdProduct(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("product", out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "a product id")
	if err != nil {
		return err
	}

	p, err := a.Catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.SKU)
	fmt.Fprintf(out, "price:    %s\n", money(p.UnitPrice))
	fmt.Fprintf(out, "in stock: %d\n", p.UnitsInStock)
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
	return nil
}

func cmdCategories(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	categories, err := a.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\n", c.ID, c.CategoryName)
	}
	return w.Flush()
}

func cmdCountries(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	countries, err := a.Catalog.Countries(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tCOUNTRY")
	for _, c := range countries {
		fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
	}
	return w.Flush()
}

func cmdStates(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("states", out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	code, err := oneArg(fs, "a country code")
	if err != nil {
		return err
	}

	states, err := a.Catalog.States(ctx, code)
	if err != nil {
		return err
	}
	for _, s := range states {
		fmt.Fprintln(out, s.Name)
	}
	return nil
}

// ============================================
// Cart
// ============================================

func cmdCart(_ context.Context, a *app.App, _ []string, out io.Writer) error {
	printCart(out, a.Cart.Lines(), a.Cart.Totals())
	return nil
}

func printCart(out io.Writer, lines []cart.CartLine, totals cart.Totals) {
	if len(lines) == 0 {
		fmt.Fprintln(out, "your cart is empty")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", l.ID, l.Name, l.Quantity, money(l.UnitPrice), money(l.Subtotal()))
	}
	w.Flush()
	fmt.Fprintf(out, "total: %s (%d items)\n", money(totals.TotalPrice), totals.TotalQuantity)
}

func cmdAdd(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("add", out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "a product id")
	if err != nil {
		return err
	}

	p, err := a.Catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	if err := a.Cart.AddToCart(ctx, cart.NewCartLine(*p)); err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s\n", p.Name)
	printCart(out, a.Cart.Lines(), a.Cart.Totals())
	return nil
}

func cmdDecrement(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("dec", out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "a product id")
	if err != nil {
		return err
	}

	a.Cart.DecrementQuantity(ctx, id)
	printCart(out, a.Cart.Lines(), a.Cart.Totals())
	return nil
}

func cmdRemove(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("remove", out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "a product id")
	if err != nil {
		return err
	}

	a.Cart.Remove(ctx, id)
	printCart(out, a.Cart.Lines(), a.Cart.Totals())
	return nil
}

// ============================================
// Checkout
// ============================================

// addressInput names the country by code and the state by name
type addressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

type checkoutInput struct {
	Customer        checkout.Customer   `json:"customer"`
	ShippingAddress addressInput        `json:"shippingAddress"`
	BillingAddress  addressInput        `json:"billingAddress"`
	CreditCard      checkout.CreditCard `json:"creditCard"`
}

func cmdCheckout(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("checkout", out)
	sameBilling := fs.Bool("same-billing", false, "use the shipping address for billing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := oneArg(fs, "a form file")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read form: %w", err)
	}
	var input checkoutInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	c := a.NewCheckout()
	if err := fillCheckout(ctx, c, input, *sameBilling); err != nil {
		return err
	}

	lines, totals := a.Cart.Lines(), a.Cart.Totals()
	trackingNumber, err := c.Submit(ctx)
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			for _, field := range verr.Errors.Fields() {
				fmt.Fprintf(out, "  %s: %s\n", field, strings.Join(verr.Errors[field], ", "))
			}
		}
		return err
	}

	printCart(out, lines, totals)
	fmt.Fprintf(out, "Your order has been received.\nOrder tracking number: %s\n", trackingNumber)
	return nil
}

func fillCheckout(ctx context.Context, c *checkout.Checkout, input checkoutInput, sameBilling bool) error {
	if err := c.LoadCountries(ctx); err != nil {
		return err
	}

	c.SetCustomer(input.Customer)
	if err := fillAddress(ctx, c, checkout.GroupShippingAddress, input.ShippingAddress); err != nil {
		return err
	}
	if sameBilling {
		c.CopyShippingToBilling(true)
	} else if err := fillAddress(ctx, c, checkout.GroupBillingAddress, input.BillingAddress); err != nil {
		return err
	}

	card := input.CreditCard
	c.SetExpirationYear(card.ExpirationYear)
	if card.ExpirationYear != 0 {
		if !slices.Contains(c.CreditCardYears(), card.ExpirationYear) {
			return fmt.Errorf("expiration year %d is not selectable", card.ExpirationYear)
		}
		if card.ExpirationMonth != 0 && !slices.Contains(c.CreditCardMonths(), card.ExpirationMonth) {
			return fmt.Errorf("expiration month %d is not selectable for %d", card.ExpirationMonth, card.ExpirationYear)
		}
	}
	c.SetCreditCard(card)
	return nil
}

func fillAddress(ctx context.Context, c *checkout.Checkout, group checkout.Group, in addressInput) error {
	if err := c.SetAddress(group, checkout.Address{Street: in.Street, City: in.City, ZipCode: in.ZipCode}); err != nil {
		return err
	}
	if in.Country == "" {
		return nil
	}
	if err := c.SelectCountryByCode(ctx, group, in.Country); err != nil {
		return err
	}
	if in.State == "" {
		return nil
	}
	return c.SelectState(group, in.State)
}

// ============================================
// Account
// ============================================

func cmdLogin(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("login", out)
	login := fs.String("user", "", "login")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.Auth.Login(ctx, auth.Credentials{Login: *login, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s\n", displayName(user))
	return nil
}

func cmdRegister(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("register", out)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	login := fs.String("user", "", "login")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.Auth.Register(ctx, auth.SignUp{FirstName: *first, LastName: *last, Login: *login, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "registered and logged in as %s\n", displayName(user))
	return nil
}

func displayName(user *auth.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Login
	}
	return name
}

func cmdLogout(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "logged out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if !a.Session.LoggedIn(ctx) {
		fmt.Fprintln(out, "not logged in")
		return nil
	}
	claims, err := a.Session.Claims(ctx)
	if err != nil {
		fmt.Fprintln(out, "logged in")
		return nil
	}
	fmt.Fprintf(out, "logged in as %s\n", claims.Name())
	if claims.ExpiresAt != nil {
		fmt.Fprintf(out, "token expires %s\n", claims.ExpiresAt.Time.Local().Format(time.RFC1123))
	}
	return nil
}

// ============================================
// Activity
// ============================================

func cmdActivity(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("activity", out)
	group := fs.String("group", "storefront-activity", "consumer group id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	consumer, err := a.NewActivityConsumer(*group)
	if err != nil {
		return err
	}
	defer consumer.Close()

	err = consumer.Consume(ctx, func(_ context.Context, _, value []byte) error {
		return printActivity(out, value)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printActivity(out io.Writer, value []byte) error {
	var event kafka.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	fmt.Fprintf(out, "%s  %-12s %-10s %s\n",
		event.Timestamp.Local().Format(time.DateTime), event.EventType, event.AggregateType, event.AggregateID)
	return nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
