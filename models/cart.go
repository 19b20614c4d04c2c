package models

import "time"

const (
    CartStatusActive     = "active"
    CartStatusCheckedOut = "checked_out"
)

type Cart struct {
    ID        string     `json:"id"`
    Status    string     `json:"status"`
    Items     []CartItem `json:"items"`
    Subtotal  float64    `json:"subtotal"`
    ItemCount int        `json:"item_count"`
    UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
    ID        string  `json:"id"`
    ProductID string  `json:"product_id"`
    Name      string  `json:"name"`
    UnitPrice float64 `json:"unit_price"`
    Quantity  int     `json:"quantity"`
    LineTotal float64 `json:"line_total"`
}

type AddItemRequest struct {
    ProductID string `json:"product_id"`
    Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
    ProductID string `json:"product_id"`
    Quantity  int    `json:"quantity"`
}

type RemoveItemRequest struct {
    ProductID string `json:"product_id"`
}

// CartView is the cart as shown to the UI: the cached upstream cart plus the
// locally computed pricing lines (coupon, shipping, tax).
type CartView struct {
    Cart        Cart           `json:"cart"`
    Coupon      *AppliedCoupon `json:"coupon,omitempty"`
    Shipping    float64        `json:"shipping"`
    Tax         float64        `json:"tax"`
    Discount    float64        `json:"discount"`
    Total       float64        `json:"total"`
    AuthNeeded  bool           `json:"auth_needed,omitempty"`
    LoadError   string         `json:"load_error,omitempty"`
}

func (c *Cart) IsEmpty() bool {
    return len(c.Items) == 0
}

func (c *Cart) CountItems() int {
    total := 0
    for _, item := range c.Items {
        total += item.Quantity
    }
    return total
}
