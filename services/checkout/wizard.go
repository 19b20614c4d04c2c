package checkout

import (
    "storefront-session-api/config"
    "storefront-session-api/models"
)

// Wizard drives the linear checkout flow:
//
//   cart_review -> shipping -> payment -> confirmation -> done
//
// Forward transitions merge the submitted fields into the session's form and
// are blocked with field-level errors until the current step validates. Back
// is always allowed. Done is reached only after a server-confirmed checkout;
// abandoning the flow just leaves the state behind, the cart is untouched.
type Wizard struct {
    validator *Validator
    delivery  []models.DeliveryOption
}

func NewWizard(validator *Validator, cfg config.CheckoutConfig) *Wizard {
    return &Wizard{
        validator: validator,
        delivery: []models.DeliveryOption{
            {
                Code:     models.DeliveryStandard,
                Label:    "Standard delivery",
                Fee:      cfg.BaseShippingFee,
                LeadDays: cfg.StandardLeadDays,
            },
            {
                Code:     models.DeliveryExpress,
                Label:    "Express delivery",
                Fee:      cfg.BaseShippingFee + cfg.ExpressSurcharge,
                LeadDays: cfg.ExpressLeadDays,
            },
        },
    }
}

func NewState() *models.WizardState {
    return &models.WizardState{
        Step: models.StepCartReview,
    }
}

func (w *Wizard) DeliveryOptions() []models.DeliveryOption {
    options := make([]models.DeliveryOption, len(w.delivery))
    copy(options, w.delivery)
    return options
}

// ShippingFee returns the fee for the chosen delivery option, falling back
// to the standard fee for an empty or unknown selection.
func (w *Wizard) ShippingFee(option string) float64 {
    for _, d := range w.delivery {
        if d.Code == option {
            return d.Fee
        }
    }
    return w.delivery[0].Fee
}

func (w *Wizard) validDeliveryOption(option string) bool {
    for _, d := range w.delivery {
        if d.Code == option {
            return true
        }
    }
    return false
}

// Advance attempts the forward transition out of the current step, merging
// the submitted fields first. It returns the field errors that blocked the
// move, or an empty map when the step changed.
func (w *Wizard) Advance(state *models.WizardState, cart *models.Cart, payload models.CheckoutForm) FieldErrors {
    errs := FieldErrors{}

    switch state.Step {
    case models.StepCartReview:
        if cart == nil || cart.IsEmpty() {
            errs.add("cart", "your cart is empty")
            return errs
        }
        state.Step = models.StepShipping

    case models.StepShipping:
        mergeShippingFields(&state.Form, payload)
        errs = w.validateShipping(state.Form)
        if errs.Empty() {
            state.Step = models.StepPayment
        }

    case models.StepPayment:
        mergePaymentFields(&state.Form, payload)
        errs = w.validatePayment(state.Form)
        if errs.Empty() {
            state.Step = models.StepConfirmation
        }

    case models.StepConfirmation:
        errs.add("step", "confirm the order to finish checkout")

    case models.StepDone:
        errs.add("step", "checkout is already complete")
    }

    return errs
}

func (w *Wizard) Back(state *models.WizardState) {
    switch state.Step {
    case models.StepShipping:
        state.Step = models.StepCartReview
    case models.StepPayment:
        state.Step = models.StepShipping
    case models.StepConfirmation:
        state.Step = models.StepPayment
    }
}

// ReadyToConfirm gates the final checkout call: the wizard must sit on the
// confirmation step with terms accepted and a non-empty cart.
func (w *Wizard) ReadyToConfirm(state *models.WizardState, cart *models.Cart, termsAccepted bool) FieldErrors {
    errs := FieldErrors{}
    if state.Step != models.StepConfirmation {
        errs.add("step", "complete the previous steps first")
        return errs
    }
    if cart == nil || cart.IsEmpty() {
        errs.add("cart", "your cart is empty")
    }
    if !termsAccepted {
        errs.add("terms", "you must accept the terms and conditions")
    }
    if errs.Empty() {
        state.Form.TermsAccepted = true
    }
    return errs
}

// MarkDone records the created order and moves the wizard to its terminal
// state. A failed checkout never calls this; the wizard stays on
// confirmation with the error surfaced.
func (w *Wizard) MarkDone(state *models.WizardState, orderID string) {
    state.Step = models.StepDone
    state.OrderID = orderID
}

func (w *Wizard) validateShipping(form models.CheckoutForm) FieldErrors {
    errs := FieldErrors{}
    if err := w.validator.ValidateName(form.Name); err != nil {
        errs.add("name", err.Error())
    }
    if err := w.validator.ValidateEmail(form.Email); err != nil {
        errs.add("email", err.Error())
    }
    if err := w.validator.ValidatePhone(form.Phone); err != nil {
        errs.add("phone", err.Error())
    }
    if err := w.validator.ValidateAddress(form.Address); err != nil {
        errs.add("address", err.Error())
    }
    if err := w.validator.ValidateCity(form.City); err != nil {
        errs.add("city", err.Error())
    }
    if !w.validDeliveryOption(form.DeliveryOption) {
        errs.add("delivery_option", "choose a delivery option")
    }
    return errs
}

func (w *Wizard) validatePayment(form models.CheckoutForm) FieldErrors {
    errs := FieldErrors{}

    switch form.PaymentMethod {
    case models.PaymentMethodCOD, models.PaymentMethodBankTransfer, models.PaymentMethodEwallet:
        // No extra fields to check.
    case models.PaymentMethodCard:
        if err := w.validator.ValidateCardNumber(form.CardNumber); err != nil {
            errs.add("card_number", err.Error())
        }
        if err := w.validator.ValidateExpiry(form.CardExpiry); err != nil {
            errs.add("card_expiry", err.Error())
        }
        if err := w.validator.ValidateCVV(form.CardCVV, form.CardNumber); err != nil {
            errs.add("card_cvv", err.Error())
        }
    default:
        errs.add("payment_method", "choose a payment method")
    }

    return errs
}

func mergeShippingFields(form *models.CheckoutForm, payload models.CheckoutForm) {
    form.Name = payload.Name
    form.Email = payload.Email
    form.Phone = payload.Phone
    form.Address = payload.Address
    form.City = payload.City
    form.Note = payload.Note
    form.DeliveryOption = payload.DeliveryOption
}

func mergePaymentFields(form *models.CheckoutForm, payload models.CheckoutForm) {
    form.PaymentMethod = payload.PaymentMethod
    form.CardNumber = payload.CardNumber
    form.CardExpiry = payload.CardExpiry
    form.CardCVV = payload.CardCVV
}
