package models

import (
	"fmt"
	"time"
)

// UsersCollection holds buyer/seller profiles keyed by Firebase uid.
const UsersCollection = "users"

// StoreDetailsCollection is the per-seller store profile subcollection.
func StoreDetailsCollection(userID string) string {
	return fmt.Sprintf("users/%s/store_details", userID)
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Picture   string    `json:"picture"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is the buyer name snapshotted onto orders.
func (u User) DisplayName() string {
	name := u.FirstName + u.LastName
	if name == "" {
		return "NoName"
	}
	return name
}

// StoreProfile holds a seller's storefront details. DefaultPickupAddress
// is required before the seller can receive orders.
type StoreProfile struct {
	SellerID             string `json:"seller_id"`
	StoreName            string `json:"store_name"`
	StoreDescription     string `json:"store_description"`
	DefaultPickupAddress string `json:"default_pickup_address"`
}
