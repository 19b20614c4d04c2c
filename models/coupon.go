package models

const (
    DiscountTypePercentage = "percentage"
    DiscountTypeFixed      = "fixed"
)

type Coupon struct {
    Code          string  `json:"code"`
    DiscountType  string  `json:"discount_type"`
    DiscountValue float64 `json:"discount_value"`
    MinOrderValue float64 `json:"min_order_value,omitempty"`
    MaxDiscount   float64 `json:"max_discount,omitempty"`
    Description   string  `json:"description,omitempty"`
}

// AppliedCoupon guarda o cupom ativo do carrinho com o desconto ja calculado
type AppliedCoupon struct {
    Code     string  `json:"code"`
    Discount float64 `json:"discount"`
}
