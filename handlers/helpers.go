package handlers

import (
    "encoding/json"
    "net/http"

    "storefront-session-api/models"
    "storefront-session-api/services/checkout"
    "storefront-session-api/services/commerce"
)

// statusForError maps the upstream error taxonomy onto the status the
// gateway answers with.
func statusForError(err error) int {
    apiErr := commerce.AsAPIError(err)
    if apiErr == nil {
        return http.StatusInternalServerError
    }
    switch apiErr.Kind {
    case commerce.ErrKindAuth:
        return http.StatusUnauthorized
    case commerce.ErrKindForbidden:
        return http.StatusForbidden
    case commerce.ErrKindNotFound:
        return http.StatusNotFound
    case commerce.ErrKindValidation:
        return http.StatusBadRequest
    default:
        return http.StatusBadGateway
    }
}

// sendFieldErrors answers a blocked form submission: the envelope carries the
// field -> messages map so the UI can mark each field.
func sendFieldErrors(w http.ResponseWriter, message string, errs checkout.FieldErrors) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusBadRequest)
    json.NewEncoder(w).Encode(models.APIResponse{
        Status:  "error",
        Message: message,
        Data:    errs,
    })
}
