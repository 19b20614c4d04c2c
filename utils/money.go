package utils

import (
    "math"

    "storefront-session-api/models"
)

func Round(value float64) float64 {
    return math.Round(value*100) / 100
}

// Subtotal recomputes the cart subtotal from its line items. The upstream
// value is authoritative; this is used for display checks between refetches.
func Subtotal(items []models.CartItem) float64 {
    var subtotal float64
    for _, item := range items {
        subtotal += float64(item.Quantity) * item.UnitPrice
    }
    return Round(subtotal)
}

// Total applies the storefront total formula:
// total = subtotal + shipping + tax - discount
func Total(subtotal, shipping, tax, discount float64) float64 {
    return Round(subtotal + shipping + tax - discount)
}

func Tax(subtotal, rate float64) float64 {
    return Round(subtotal * rate)
}
