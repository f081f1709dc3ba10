package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order, stored as an integer code.
type OrderStatus int

const (
	StatusPending    OrderStatus = 1
	StatusProcessing OrderStatus = 2
	StatusShipped    OrderStatus = 3
	StatusDelivered  OrderStatus = 4
	StatusCancelled  OrderStatus = 5
)

// ErrOrderNotCancellable is returned when cancellation is requested for an
// order that is no longer pending.
var ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")

// Valid reports whether s is one of the five defined status codes.
func (s OrderStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusShipped:
		return "shipped"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is an immutable snapshot of shipping and contact details captured
// at checkout. UserID is nullable: orders survive account deletion.
type Order struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	UserID         *uuid.UUID  `json:"userId" db:"user_id"`
	FirstName      string      `json:"firstName" db:"first_name"`
	LastName       string      `json:"lastName" db:"last_name"`
	Email          string      `json:"email" db:"email"`
	Phone          string      `json:"phone" db:"phone"`
	Address        string      `json:"address" db:"address"`
	Apt            string      `json:"apt" db:"apt"`
	City           string      `json:"city" db:"city"`
	State          string      `json:"state" db:"state"`
	PostalCode     string      `json:"postalCode" db:"postal_code"`
	PaymentMethod  string      `json:"paymentMethod" db:"payment_method"`
	ShippingCharge float64     `json:"shippingCharge" db:"shipping_charge"`
	Tax            float64     `json:"tax" db:"tax"`
	TotalPrice     float64     `json:"totalPrice" db:"total_price"`
	Status         OrderStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// Cancel is the single guarded transition of the order lifecycle: an order
// may only move to cancelled while it is still pending. Every other
// transition is a plain status update.
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return ErrOrderNotCancellable
	}
	o.Status = StatusCancelled
	return nil
}

// OrderItem is a price/quantity snapshot of one product within an order.
// The unit price is the one submitted at checkout, kept verbatim so order
// history survives later catalog price changes.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"orderId" db:"order_id"`
	ProductID   uuid.UUID `json:"productId" db:"product_id"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	TotalAmount float64   `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// OrderItemDetail pairs an order item with the product projection returned
// by order reads (id, name, current price, images).
type OrderItemDetail struct {
	OrderItem
	Product OrderItemProduct `json:"product"`
}

// OrderItemProduct is the product projection embedded in order reads.
type OrderItemProduct struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Price  float64   `json:"price"`
	Images []string  `json:"images"`
}

// OrderDetail is an order together with its items.
type OrderDetail struct {
	Order
	Items []OrderItemDetail `json:"orderItems"`
}
