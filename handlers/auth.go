package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "storefront-session-api/middleware"
    "storefront-session-api/models"
    "storefront-session-api/services/commerce"
    "storefront-session-api/services/notification"
    "storefront-session-api/utils"
)

type AuthHandler struct {
    client *commerce.Client
    hub    *notification.Hub
}

func NewAuthHandler(client *commerce.Client, hub *notification.Hub) *AuthHandler {
    return &AuthHandler{client: client, hub: hub}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var creds models.Credentials
    if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
        log.Printf("Error decoding login body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    auth, err := h.client.Login(r.Context(), creds)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    rec.SetCredentials(auth)
    // The anonymous cart cache belongs to nobody; drop it so the next fetch
    // loads the user's own cart.
    rec.CachedCart = nil
    rec.CartID = ""

    h.hub.Push(models.SeveritySuccess, "Welcome back, "+auth.User.Name)
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Logged in",
        Data:    auth.User,
    })
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    var req models.RegisterRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding register body: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    auth, err := h.client.Register(r.Context(), req)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    rec.SetCredentials(auth)
    rec.CachedCart = nil
    rec.CartID = ""

    h.hub.Push(models.SeveritySuccess, "Account created")
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Registered",
        Data:    auth.User,
    })
}

// Logout limpa a credencial local sempre, mesmo se o upstream falhar
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    if rec.IsAuthenticated() {
        if err := h.client.Logout(r.Context(), rec); err != nil {
            log.Printf("Upstream logout failed (credential cleared anyway): %v", err)
        }
    }

    rec.ClearCredentials()
    rec.CachedCart = nil
    rec.CartID = ""
    rec.Coupon = nil
    rec.Wizard = nil

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Logged out",
    })
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil || !rec.IsAuthenticated() || rec.User == nil {
        utils.SendErrorResponse(w, http.StatusUnauthorized, "Not logged in")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Profile",
        Data:    rec.User,
    })
}
