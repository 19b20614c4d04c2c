package models

import "time"

const (
    OrderStatusPending   = "pending"
    OrderStatusPaid      = "paid"
    OrderStatusShipped   = "shipped"
    OrderStatusCompleted = "completed"
    OrderStatusCancelled = "cancelled"
)

// Order is upstream-owned. The gateway treats it as opaque beyond status.
type Order struct {
    ID        string    `json:"id"`
    Status    string    `json:"status"`
    Total     float64   `json:"total"`
    CreatedAt time.Time `json:"created_at"`
}

type OrderDetail struct {
    Order
    Items    []CartItem `json:"items"`
    Shipping float64    `json:"shipping"`
    Tax      float64    `json:"tax"`
    Discount float64    `json:"discount"`
    Address  string     `json:"address"`
    City     string     `json:"city"`
}
