package domain

import (
	"time"
)

// Category classifies a catalog product.
type Category string

const (
	CategoryLiquid    Category = "liquid"
	CategoryDevice    Category = "device"
	CategoryPod       Category = "pod"
	CategoryAccessory Category = "accessory"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryLiquid, CategoryDevice, CategoryPod, CategoryAccessory:
		return true
	}
	return false
}

// Product represents a single catalog item.
//
// InStock and Stock are set independently by callers: the store owner
// can mark a product out of stock without zeroing the counter (manual
// override). No invariant between the two fields is enforced here.
type Product struct {
	// ID is the unique identifier of the product.
	ID string `json:"id"`

	// Name is the display name of the product.
	Name string `json:"name"`

	// Description is the marketing description.
	Description string `json:"description"`

	// Price is the list price. Kept for the catalog record even though
	// the storefront does not transact.
	Price float64 `json:"price"`

	// Category is one of the fixed product categories.
	Category Category `json:"category"`

	// Image is a URL or stored-media reference for the product photo.
	Image string `json:"image"`

	// InStock indicates whether the product is offered for sale.
	InStock bool `json:"inStock"`

	// Stock is the remaining unit count. Never negative.
	Stock int `json:"stock"`

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the product was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the product fields against catalog constraints.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if p.Name == "" {
		return ErrInvalidProduct
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
