package models

import "time"

// ProductsCollection is the top-level catalog collection.
const ProductsCollection = "products"

type Product struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	LikesCount   int       `json:"likes_count"` // mutated only by the favorite toggle
	ProductImage string    `json:"product_image"`
	CreatedAt    time.Time `json:"created_at"`
}
