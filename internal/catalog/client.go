package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var (
	ErrInvalidPage    = errors.New("page must be >= 0 and size > 0")
	ErrEmptyProductID = errors.New("product id is required")
)

// Getter fetches path relative to the backend root and decodes JSON into out
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Client reads products, categories, countries and states from the catalog
// REST API.
type Client struct {
	api Getter
}

func NewClient(api Getter) *Client {
	return &Client{api: api}
}

// ProductsByCategory lists one page of the products in a category
func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64, page, size int) (*ProductPage, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(categoryID, 10))
	return c.productPage(ctx, "/api/products/search/findByCategoryId", q, page, size)
}

// SearchProducts lists one page of the products whose name contains keyword
func (c *Client) SearchProducts(ctx context.Context, keyword string, page, size int) (*ProductPage, error) {
	q := url.Values{}
	q.Set("name", keyword)
	return c.productPage(ctx, "/api/products/search/findByNameContaining", q, page, size)
}

func (c *Client) productPage(ctx context.Context, path string, q url.Values, page, size int) (*ProductPage, error) {
	if page < 0 || size <= 0 {
		return nil, ErrInvalidPage
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var resp productPageResponse
	if err := c.api.Get(ctx, path+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := resp.Embedded.Products
	if products == nil {
		products = []Product{}
	}
	return &ProductPage{Products: products, Page: resp.Page}, nil
}

// Product fetches a single product by id
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, ErrEmptyProductID
	}

	var product Product
	if err := c.api.Get(ctx, "/api/products/"+url.PathEscape(id), &product); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp categoriesResponse
	if err := c.api.Get(ctx, "/api/product-category", &resp); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return resp.Embedded.ProductCategory, nil
}

func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var resp countriesResponse
	if err := c.api.Get(ctx, "/api/countries", &resp); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return resp.Embedded.Countries, nil
}

// States lists the states of the country with the given code
func (c *Client) States(ctx context.Context, countryCode string) ([]State, error) {
	q := url.Values{}
	q.Set("code", countryCode)

	var resp statesResponse
	if err := c.api.Get(ctx, "/api/states/search/findByCountryCode?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list states for %s: %w", countryCode, err)
	}
	return resp.Embedded.States, nil
}
