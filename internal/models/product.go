package models

import "time"

// Gender is the single-letter target-audience code carried by every product.
type Gender string

const (
	GenderMen    Gender = "M"
	GenderWomen  Gender = "W"
	GenderKids   Gender = "K"
	GenderUnisex Gender = "U"
)

// Product is a catalog record. The chatbot core only reads these fields to test
// predicate membership; lifecycle ownership stays with the storefront.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Gender      Gender    `json:"gender"`
	Color       string    `json:"color,omitempty"`
	Size        string    `json:"size,omitempty"`
	Available   bool      `json:"available"`
	Stock       int       `json:"stock"`
	Created     time.Time `json:"created,omitempty"`
}
