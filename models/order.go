package models

import "time"

// OrdersCollection is the top-level orders collection.
const OrdersCollection = "orders"

type OrderStatus string

const (
	// Order statuses (buyer places -> seller accepts -> seller fulfils)
	OrderStatusPending    OrderStatus = "Pending"    // Order placed, awaiting seller acceptance
	OrderStatusProcessing OrderStatus = "Processing" // Accepted by seller, being prepared
	OrderStatusCompleted  OrderStatus = "Completed"  // Fulfilled; terminal
	OrderStatusCancelled  OrderStatus = "Cancelled"  // Cancelled by buyer or seller; terminal
)

// Terminal reports whether no further status transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ValidOrderStatus maps a raw string onto a known status.
func ValidOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

// Order is append-only once created: every field except Status is
// write-once at checkout time. Buyer, store and product fields are
// snapshots taken when the order was placed.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	UserName        string      `json:"user_name"`
	UserEmail       string      `json:"user_email"`
	ProductID       string      `json:"product_id"`
	ProductName     string      `json:"product_name"`
	ProductPrice    float64     `json:"product_price"`
	ProductImage    string      `json:"product_image"`
	StoreID         string      `json:"store_id"`
	StoreName       string      `json:"store_name"`
	StoreAddress    string      `json:"store_address"`
	Quantity        int         `json:"quantity"`
	Subtotal        float64     `json:"subtotal"`
	DeliveryFee     float64     `json:"delivery_fee"`
	TotalAmount     float64     `json:"total_amount"`
	VoucherApplied  string      `json:"voucher_applied,omitempty"`
	VoucherID       string      `json:"voucher_id,omitempty"`
	VoucherDiscount float64     `json:"voucher_discount"`
	PaymentMethod   string      `json:"payment_method"` // e.g. "cod", "gcash"
	Status          OrderStatus `json:"status"`
	OrderDate       time.Time   `json:"order_date"`
}
