package models

import "time"

const (
    SeverityInfo    = "info"
    SeveritySuccess = "success"
    SeverityWarning = "warning"
    SeverityError   = "error"
)

type Notification struct {
    ID        string    `json:"id"`
    Severity  string    `json:"severity"`
    Message   string    `json:"message"`
    CreatedAt time.Time `json:"created_at"`
    ExpiresAt time.Time `json:"expires_at"`
}
