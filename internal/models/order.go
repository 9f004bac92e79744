package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// PaymentStatus is independent of the order lifecycle and may be set
// freely alongside a status update.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusTransitions is the fixed transition graph for order statuses.
// Cancelled and refunded are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {OrderRefunded},
	OrderCancelled: {},
	OrderRefunded:  {},
}

// AllowedTransitions returns the statuses an order in the given status
// may move to. The returned slice is a copy and safe to modify.
func AllowedTransitions(s OrderStatus) []OrderStatus {
	targets, ok := statusTransitions[s]
	if !ok {
		return nil
	}
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether moving from one status to another is
// allowed by the transition graph.
func CanTransition(from, to OrderStatus) bool {
	for _, t := range statusTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	targets, ok := statusTransitions[s]
	return ok && len(targets) == 0
}

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	TotalPrice    float64       `json:"total_price"`
	Items         []OrderItem   `json:"items,omitempty"`
	Customer      OrderCustomer `json:"customer"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantID   string  `json:"variant_id,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OrderCustomer is the customer summary embedded in an order.
type OrderCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type OrderStats struct {
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	ShippedOrders   int     `json:"shipped_orders"`
	DeliveredOrders int     `json:"delivered_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}
