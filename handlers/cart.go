// handlers/cart.go
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

type CartHandler struct {
    manager *cart.Manager
    wizard  *checkout.Wizard
    hub     *notification.Hub
}

func NewCartHandler(manager *cart.Manager, wizard *checkout.Wizard, hub *notification.Hub) *CartHandler {
    return &CartHandler{manager: manager, wizard: wizard, hub: hub}
}

// shippingFee picks the fee for the delivery option the wizard has selected
// so far; before the shipping step it is the standard fee.
func (h *CartHandler) shippingFee(rec *session.Record) float64 {
    option := ""
    if rec.Wizard != nil {
        option = rec.Wizard.Form.DeliveryOption
    }
    return h.wizard.ShippingFee(option)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    h.manager.FetchCart(r.Context(), rec)
    view := h.manager.View(rec, h.shippingFee(rec))

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Cart",
        Data:    view,
    })
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var req models.AddItemRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding add-item body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    result := h.manager.AddToCart(r.Context(), rec, req.ProductID, req.Quantity)
    h.respondWithResult(w, rec, result)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var req models.UpdateQuantityRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding update-quantity body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    result := h.manager.UpdateQuantity(r.Context(), rec, req.ProductID, req.Quantity)
    h.respondWithResult(w, rec, result)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var req models.RemoveItemRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding remove-item body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    result := h.manager.RemoveItem(r.Context(), rec, req.ProductID)
    h.respondWithResult(w, rec, result)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    result := h.manager.ClearCart(r.Context(), rec)
    h.respondWithResult(w, rec, result)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var req struct {
        Code string `json:"code"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding coupon body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    result := h.manager.ApplyCoupon(r.Context(), rec, req.Code)
    if !result.Success {
        // Coupon rejection is a field-level error on the coupon input.
        sendFieldErrors(w, result.Message, checkout.FieldErrors{
            "coupon": {result.Message},
        })
        return
    }
    h.respondWithResult(w, rec, result)
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    result := h.manager.RemoveCoupon(rec)
    h.respondWithResult(w, rec, result)
}

// respondWithResult turns an OperationResult into the gateway response. The
// fresh cart view rides along on success so the UI re-renders from the
// refetched state.
func (h *CartHandler) respondWithResult(w http.ResponseWriter, rec *session.Record, result models.OperationResult) {
    if !result.Success {
        h.hub.Push(models.SeverityError, result.Message)
        utils.SendErrorResponse(w, http.StatusBadRequest, result.Message)
        return
    }

    h.hub.Push(models.SeveritySuccess, result.Message)
    view := h.manager.View(rec, h.shippingFee(rec))
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: result.Message,
        Data:    view,
    })
}
