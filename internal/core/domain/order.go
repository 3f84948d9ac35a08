package domain

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderPending: {}, OrderProcessing: {}, OrderShipped: {}, OrderDelivered: {}, OrderCancelled: {},
}

// ParseOrderStatus returns ErrInvalidStatus for unknown values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if _, ok := orderStatuses[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// OrderItem snapshots a product at purchase time.
type OrderItem struct {
	ProductID       string  `json:"productId" bson:"product_id"`
	ProductName     string  `json:"productName" bson:"product_name"`
	Quantity        int     `json:"quantity" bson:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase" bson:"price_at_purchase"`
}

type Order struct {
	ID              string      `bson:"_id"`
	UserID          string      `bson:"user_id"`
	Items           []OrderItem `bson:"items"`
	TotalAmount     float64     `bson:"total_amount"`
	Status          OrderStatus `bson:"status"`
	ShippingAddress string      `bson:"shipping_address"`
	CreatedAt       time.Time   `bson:"created_at"`
}
