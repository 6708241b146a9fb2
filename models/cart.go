package models

import (
	"fmt"
	"time"
)

// CartItemsCollection is the per-user cart subcollection.
func CartItemsCollection(userID string) string {
	return fmt.Sprintf("users/%s/cart_items", userID)
}

// CartItem snapshots the product at add-time. Subtotal is always
// recomputed as price × quantity, never mutated independently.
type CartItem struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
	Subtotal  float64   `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}
