package models

const (
    PaymentMethodCOD          = "cod"
    PaymentMethodBankTransfer = "bank_transfer"
    PaymentMethodCard         = "card"
    PaymentMethodEwallet      = "ewallet"
)

const (
    DeliveryStandard = "standard"
    DeliveryExpress  = "express"
)

// CheckoutForm agrega os dados do wizard de checkout. Existe apenas durante a
// sessao e e descartado depois do envio.
type CheckoutForm struct {
    Name           string `json:"name"`
    Email          string `json:"email"`
    Phone          string `json:"phone"`
    Address        string `json:"address"`
    City           string `json:"city"`
    Note           string `json:"note,omitempty"`
    DeliveryOption string `json:"delivery_option"`
    PaymentMethod  string `json:"payment_method"`
    CardNumber     string `json:"card_number,omitempty"`
    CardExpiry     string `json:"card_expiry,omitempty"`
    CardCVV        string `json:"card_cvv,omitempty"`
    TermsAccepted  bool   `json:"terms_accepted"`
}

type DeliveryOption struct {
    Code     string  `json:"code"`
    Label    string  `json:"label"`
    Fee      float64 `json:"fee"`
    LeadDays int     `json:"lead_days"`
}

// CheckoutRequest is the payload sent to the upstream checkout endpoint.
type CheckoutRequest struct {
    CartID         string  `json:"cart_id"`
    Name           string  `json:"name"`
    Email          string  `json:"email"`
    Phone          string  `json:"phone"`
    Address        string  `json:"address"`
    City           string  `json:"city"`
    Note           string  `json:"note,omitempty"`
    DeliveryOption string  `json:"delivery_option"`
    PaymentMethod  string  `json:"payment_method"`
    CardNumber     string  `json:"card_number,omitempty"`
    CardExpiry     string  `json:"card_expiry,omitempty"`
    CardCVV        string  `json:"card_cvv,omitempty"`
    CouponCode     string  `json:"coupon_code,omitempty"`
    ShippingFee    float64 `json:"shipping_fee"`
    Discount       float64 `json:"discount"`
}

type CheckoutResult struct {
    OrderID string `json:"order_id"`
    Message string `json:"message"`
}

const (
    StepCartReview   = "cart_review"
    StepShipping     = "shipping"
    StepPayment      = "payment"
    StepConfirmation = "confirmation"
    StepDone         = "done"
)

// WizardState is the step-local state of the checkout wizard, persisted on
// the session record between requests.
type WizardState struct {
    Step    string       `json:"step"`
    Form    CheckoutForm `json:"form"`
    OrderID string       `json:"order_id,omitempty"`
}

