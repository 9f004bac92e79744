package models

import "time"

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       float64          `json:"price"`
	Stock       int              `json:"stock"`
	CategoryID  string           `json:"category_id,omitempty"`
	Category    string           `json:"category,omitempty"`
	IsActive    bool             `json:"is_active"`
	Images      []ProductImage   `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ProductImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductVariant is a sellable variation of a product, identified by
// a SKU and a set of attribute values (e.g. size=L, color=red).
type ProductVariant struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"product_id"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
}
