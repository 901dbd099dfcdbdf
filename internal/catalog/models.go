package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a guitar (or accessory) as served by the catalog API
type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ImageURL     string          `json:"imageUrl"`
	Active       bool            `json:"active"`
	UnitsInStock int             `json:"unitsInStock"`
	DateCreated  *time.Time      `json:"dateCreated,omitempty"`
	LastUpdated  *time.Time      `json:"lastUpdated,omitempty"`
}

// Category groups products for browsing
type Category struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
}

type Country struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is the pagination envelope of collection responses. Number is 0-based.
type Page struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products []Product
	Page     Page
}

type productPageResponse struct {
	Embedded struct {
		Products []Product `json:"products"`
	} `json:"_embedded"`
	Page Page `json:"page"`
}

type categoriesResponse struct {
	Embedded struct {
		ProductCategory []Category `json:"productCategory"`
	} `json:"_embedded"`
}

type countriesResponse struct {
	Embedded struct {
		Countries []Country `json:"countries"`
	} `json:"_embedded"`
}

type statesResponse struct {
	Embedded struct {
		States []State `json:"states"`
	} `json:"_embedded"`
}
