package handlers

import (
    "net/http"

    "github.com/gorilla/mux"

    "storefront-session-api/models"
    "storefront-session-api/services/notification"
    "storefront-session-api/utils"
)

type NotificationHandler struct {
    hub *notification.Hub
}

func NewNotificationHandler(hub *notification.Hub) *NotificationHandler {
    return &NotificationHandler{hub: hub}
}

// ListActive retorna as notificacoes ainda visiveis, da mais antiga para a
// mais recente
func (h *NotificationHandler) ListActive(w http.ResponseWriter, r *http.Request) {
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Notifications",
        Data:    h.hub.Active(),
    })
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
    id := mux.Vars(r)["id"]
    if id == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Notification id is required")
        return
    }

    h.hub.Dismiss(id)
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Notification dismissed",
    })
}
