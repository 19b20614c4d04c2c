package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "storefront-session-api/middleware"
    "storefront-session-api/models"
    "storefront-session-api/services/cart"
    "storefront-session-api/services/checkout"
    "storefront-session-api/services/notification"
    "storefront-session-api/services/session"
    "storefront-session-api/utils"
)

type CheckoutHandler struct {
    manager *cart.Manager
    wizard  *checkout.Wizard
    hub     *notification.Hub
}

func NewCheckoutHandler(manager *cart.Manager, wizard *checkout.Wizard, hub *notification.Hub) *CheckoutHandler {
    return &CheckoutHandler{manager: manager, wizard: wizard, hub: hub}
}

type checkoutStateResponse struct {
    State           *models.WizardState     `json:"state"`
    DeliveryOptions []models.DeliveryOption `json:"delivery_options"`
    Cart            models.CartView         `json:"cart"`
}

func (h *CheckoutHandler) ensureState(rec *session.Record) *models.WizardState {
    if rec.Wizard == nil {
        rec.Wizard = checkout.NewState()
    }
    return rec.Wizard
}

func (h *CheckoutHandler) shippingFee(rec *session.Record) float64 {
    option := ""
    if rec.Wizard != nil {
        option = rec.Wizard.Form.DeliveryOption
    }
    return h.wizard.ShippingFee(option)
}

func (h *CheckoutHandler) stateResponse(rec *session.Record) checkoutStateResponse {
    return checkoutStateResponse{
        State:           rec.Wizard,
        DeliveryOptions: h.wizard.DeliveryOptions(),
        Cart:            h.manager.View(rec, h.shippingFee(rec)),
    }
}

// GetState returns the wizard as it stands, creating a fresh one on the cart
// review step for a session that has not started checking out.
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    h.ensureState(rec)
    h.manager.FetchCart(r.Context(), rec)

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Checkout state",
        Data:    h.stateResponse(rec),
    })
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var payload models.CheckoutForm
    if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
        log.Printf("Error decoding checkout step body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    state := h.ensureState(rec)
    cartState := h.manager.FetchCart(r.Context(), rec)

    if errs := h.wizard.Advance(state, cartState, payload); !errs.Empty() {
        sendFieldErrors(w, "Please fix the highlighted fields", errs)
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Step advanced",
        Data:    h.stateResponse(rec),
    })
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    state := h.ensureState(rec)
    h.wizard.Back(state)

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Step back",
        Data:    h.stateResponse(rec),
    })
}

// Confirm fires the upstream checkout. The wizard only reaches done when the
// order really exists server-side; any failure keeps it on the confirmation
// step so the shopper can retry.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var payload struct {
        TermsAccepted bool `json:"terms_accepted"`
    }
    if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
        log.Printf("Error decoding checkout confirm body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    state := h.ensureState(rec)
    cartState := h.manager.FetchCart(r.Context(), rec)

    if errs := h.wizard.ReadyToConfirm(state, cartState, payload.TermsAccepted); !errs.Empty() {
        sendFieldErrors(w, "Please fix the highlighted fields", errs)
        return
    }

    view := h.manager.View(rec, h.shippingFee(rec))
    req := models.CheckoutRequest{
        Name:           state.Form.Name,
        Email:          state.Form.Email,
        Phone:          state.Form.Phone,
        Address:        state.Form.Address,
        City:           state.Form.City,
        Note:           state.Form.Note,
        DeliveryOption: state.Form.DeliveryOption,
        PaymentMethod:  state.Form.PaymentMethod,
        ShippingFee:    view.Shipping,
        Discount:       view.Discount,
    }
    if state.Form.PaymentMethod == models.PaymentMethodCard {
        // Card data is validated locally and forwarded opaquely; only the
        // upstream charges it.
        req.CardNumber = state.Form.CardNumber
        req.CardExpiry = state.Form.CardExpiry
        req.CardCVV = state.Form.CardCVV
    }

    result, opResult := h.manager.Checkout(r.Context(), rec, req)
    if !opResult.Success {
        h.hub.Push(models.SeverityError, opResult.Message)
        utils.SendErrorResponse(w, http.StatusBadRequest, opResult.Message)
        return
    }

    h.wizard.MarkDone(state, result.OrderID)
    h.hub.Push(models.SeveritySuccess, "Order placed successfully")

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Order placed",
        Data: map[string]interface{}{
            "order": result,
            "state": state,
            "cart":  h.manager.View(rec, h.shippingFee(rec)),
        },
    })
}
