package models

import "fmt"

// LikedProductsCollection is the per-user favorites subcollection.
// Documents are keyed by product id, so one favorite per (user, product).
func LikedProductsCollection(userID string) string {
	return fmt.Sprintf("users/%s/liked_products", userID)
}

// Favorite is a snapshot, not a reference: product fields are copied at
// like-time for offline display and intentionally never re-synchronized.
type Favorite struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	LikedAt     string  `json:"liked_at"`
}
