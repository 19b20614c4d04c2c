package coupon

import (
    "errors"
    "strings"
    "sync"

    "storefront-session-api/models"
    "storefront-session-api/utils"
)

// FreeShippingCode is special-cased: instead of waiving the shipping fee it
// converts it into a discount line, so the total formula
// (subtotal + shipping + tax - discount) holds for every coupon.
const FreeShippingCode = "FREESHIP"

var (
    ErrUnknownCode   = errors.New("coupon code is not valid")
    ErrMinimumNotMet = errors.New("order subtotal is below the coupon minimum")
)

// Catalog holds the coupon table. Codes are matched case-insensitively and
// normalized to uppercase on the way in.
type Catalog struct {
    mu      sync.RWMutex
    coupons map[string]models.Coupon
}

func NewCatalog() *Catalog {
    catalog := &Catalog{
        coupons: make(map[string]models.Coupon),
    }

    catalog.Add(models.Coupon{
        Code:          "SAVE10",
        DiscountType:  models.DiscountTypePercentage,
        DiscountValue: 10,
        Description:   "10% off your order",
    })
    catalog.Add(models.Coupon{
        Code:          "SAVE20",
        DiscountType:  models.DiscountTypePercentage,
        DiscountValue: 20,
        MinOrderValue: 300000,
        MaxDiscount:   150000,
        Description:   "20% off orders over 300,000, capped at 150,000",
    })
    catalog.Add(models.Coupon{
        Code:          "WELCOME50",
        DiscountType:  models.DiscountTypeFixed,
        DiscountValue: 50000,
        MinOrderValue: 200000,
        Description:   "50,000 off your first order over 200,000",
    })
    catalog.Add(models.Coupon{
        Code:          FreeShippingCode,
        DiscountType:  models.DiscountTypeFixed,
        DiscountValue: 0,
        Description:   "Free shipping",
    })

    return catalog
}

func (c *Catalog) Add(coupon models.Coupon) {
    c.mu.Lock()
    defer c.mu.Unlock()
    coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
    c.coupons[coupon.Code] = coupon
}

// Resolve looks a code up and checks it against the current subtotal. The
// caller applies the result to exactly one cart; resolving a new code simply
// replaces whatever was applied before.
func (c *Catalog) Resolve(code string, subtotal float64) (*models.Coupon, error) {
    normalized := strings.ToUpper(strings.TrimSpace(code))

    c.mu.RLock()
    coupon, exists := c.coupons[normalized]
    c.mu.RUnlock()

    if !exists {
        return nil, ErrUnknownCode
    }
    if coupon.MinOrderValue > 0 && subtotal < coupon.MinOrderValue {
        return nil, ErrMinimumNotMet
    }
    return &coupon, nil
}

// Calculate maps (subtotal, shipping, coupon) to the discount amount and the
// adjusted shipping fee. It is pure; rejection happens in Resolve.
func Calculate(subtotal, shipping float64, coupon *models.Coupon) (float64, float64) {
    if coupon == nil {
        return 0, shipping
    }

    switch coupon.DiscountType {
    case models.DiscountTypePercentage:
        discount := subtotal * coupon.DiscountValue / 100
        if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
            discount = coupon.MaxDiscount
        }
        return utils.Round(discount), shipping

    case models.DiscountTypeFixed:
        if strings.EqualFold(coupon.Code, FreeShippingCode) {
            // The shipping line stays; an equal discount line offsets it.
            return utils.Round(shipping), shipping
        }
        return utils.Round(coupon.DiscountValue), shipping

    default:
        return 0, shipping
    }
}
