package handlers

import (
    "net/http"

    "github.com/gorilla/mux"

    "storefront-session-api/middleware"
    "storefront-session-api/models"
    "storefront-session-api/services/commerce"
    "storefront-session-api/services/notification"
    "storefront-session-api/utils"
)

type OrderHandler struct {
    client *commerce.Client
    hub    *notification.Hub
}

func NewOrderHandler(client *commerce.Client, hub *notification.Hub) *OrderHandler {
    return &OrderHandler{client: client, hub: hub}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }
    if !rec.IsAuthenticated() {
        utils.SendErrorResponse(w, http.StatusUnauthorized, "Sign in to see your orders")
        return
    }

    orders, err := h.client.ListOrders(r.Context(), rec)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Orders",
        Data:    orders,
    })
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }
    if !rec.IsAuthenticated() {
        utils.SendErrorResponse(w, http.StatusUnauthorized, "Sign in to see your orders")
        return
    }

    orderID := mux.Vars(r)["id"]
    order, err := h.client.GetOrder(r.Context(), rec, orderID)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Order",
        Data:    order,
    })
}
