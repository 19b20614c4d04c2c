package handlers

import (
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "storefront-session-api/middleware"
    "storefront-session-api/models"
    "storefront-session-api/services/commerce"
    "storefront-session-api/services/notification"
    "storefront-session-api/utils"
)

type CatalogHandler struct {
    client *commerce.Client
    hub    *notification.Hub
}

func NewCatalogHandler(client *commerce.Client, hub *notification.Hub) *CatalogHandler {
    return &CatalogHandler{client: client, hub: hub}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    query := r.URL.Query()
    page, _ := strconv.Atoi(query.Get("page"))

    list, err := h.client.ListProducts(r.Context(), rec, query.Get("q"), query.Get("category_id"), page)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Products",
        Data:    list,
    })
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    productID := mux.Vars(r)["id"]
    product, err := h.client.GetProduct(r.Context(), rec, productID)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Product",
        Data:    product,
    })
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
    rec := middleware.GetSession(r.Context())
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Session not found")
        return
    }

    categories, err := h.client.ListCategories(r.Context(), rec)
    if err != nil {
        h.hub.Error(err)
        utils.SendErrorResponse(w, statusForError(err), notification.Normalize(err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Categories",
        Data:    categories,
    })
}
