package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a plant or gardening product in the catalogue.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// SearchQuery holds the parameters for a product search.
type SearchQuery struct {
	Term     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

// PriceRange describes a price bucket with the number of products in it.
type PriceRange struct {
	Label string          `json:"label"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Count int             `json:"count"`
}

// CategoryFacet describes a category with its product count.
type CategoryFacet struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
