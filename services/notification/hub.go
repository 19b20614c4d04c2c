package notification

import (
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"

    "storefront-session-api/models"
    "storefront-session-api/services/commerce"
)

const fallbackMessage = "An error occurred"

// Hub is the single process-wide queue of transient user-facing messages.
// Every notification auto-dismisses after a severity-scaled duration and can
// be dismissed early. All user-visible error text is produced here; nothing
// else in the gateway formats errors for display.
type Hub struct {
    mu            sync.RWMutex
    notifications map[string]models.Notification
    durations     map[string]time.Duration
}

func NewHub() *Hub {
    return &Hub{
        notifications: make(map[string]models.Notification),
        durations: map[string]time.Duration{
            models.SeveritySuccess: 4 * time.Second,
            models.SeverityInfo:    5 * time.Second,
            models.SeverityWarning: 6 * time.Second,
            models.SeverityError:   8 * time.Second,
        },
    }
}

func (h *Hub) Push(severity, message string) models.Notification {
    return h.PushWithDuration(severity, message, 0)
}

// PushWithDuration queues a message; duration 0 means the severity default.
func (h *Hub) PushWithDuration(severity, message string, duration time.Duration) models.Notification {
    if duration <= 0 {
        if d, exists := h.durations[severity]; exists {
            duration = d
        } else {
            duration = 5 * time.Second
        }
    }

    now := time.Now().UTC()
    n := models.Notification{
        ID:        uuid.New().String(),
        Severity:  severity,
        Message:   message,
        CreatedAt: now,
        ExpiresAt: now.Add(duration),
    }

    h.mu.Lock()
    h.notifications[n.ID] = n
    h.mu.Unlock()

    return n
}

// Error normalizes err and queues it with error severity.
func (h *Hub) Error(err error) models.Notification {
    return h.Push(models.SeverityError, Normalize(err))
}

func (h *Hub) Dismiss(id string) {
    h.mu.Lock()
    defer h.mu.Unlock()
    delete(h.notifications, id)
}

// Active returns the not-yet-expired notifications, oldest first.
func (h *Hub) Active() []models.Notification {
    now := time.Now().UTC()

    h.mu.RLock()
    active := make([]models.Notification, 0, len(h.notifications))
    for _, n := range h.notifications {
        if n.ExpiresAt.After(now) {
            active = append(active, n)
        }
    }
    h.mu.RUnlock()

    sort.Slice(active, func(i, j int) bool {
        return active[i].CreatedAt.Before(active[j].CreatedAt)
    })
    return active
}

// Sweep drops expired notifications and returns how many were removed.
func (h *Hub) Sweep() int {
    now := time.Now().UTC()

    h.mu.Lock()
    defer h.mu.Unlock()

    removed := 0
    for id, n := range h.notifications {
        if !n.ExpiresAt.After(now) {
            delete(h.notifications, id)
            removed++
        }
    }
    return removed
}

// Normalize turns any error into user-displayable text: upstream validation
// errors are flattened field by field, plain error messages pass through, and
// anything without a usable message falls back to a generic line.
func Normalize(err error) string {
    if err == nil {
        return fallbackMessage
    }

    if apiErr := commerce.AsAPIError(err); apiErr != nil {
        if apiErr.Kind == commerce.ErrKindValidation && len(apiErr.Fields) > 0 {
            return apiErr.FlattenFields()
        }
        if apiErr.Message != "" {
            return apiErr.Message
        }
        return fallbackMessage
    }

    if msg := err.Error(); msg != "" {
        return msg
    }
    return fallbackMessage
}
