package session

import (
    "context"
    "time"

    "github.com/google/uuid"

    "storefront-session-api/models"
)

// Record is everything the gateway remembers about one browser session: the
// upstream credential, the cached copy of the active cart, the applied coupon
// and the checkout wizard state. The upstream view always wins; the cart here
// is a cache, never the source of truth.
type Record struct {
    ID           string                `json:"id"`
    Token        string                `json:"token,omitempty"`
    User         *models.AuthUser      `json:"user,omitempty"`
    AuthRequired bool                  `json:"auth_required,omitempty"`
    LoadError    string                `json:"load_error,omitempty"`
    CartID       string                `json:"cart_id,omitempty"`
    CachedCart   *models.Cart          `json:"cached_cart,omitempty"`
    Coupon       *models.AppliedCoupon `json:"coupon,omitempty"`
    Wizard       *models.WizardState   `json:"wizard,omitempty"`
    CreatedAt    time.Time             `json:"created_at"`
    UpdatedAt    time.Time             `json:"updated_at"`
}

type Store interface {
    // Get returns the record, or (nil, nil) when no session with that id
    // exists.
    Get(ctx context.Context, id string) (*Record, error)
    Put(ctx context.Context, rec *Record) error
    Delete(ctx context.Context, id string) error
    Healthy(ctx context.Context) error
}

func NewRecord() *Record {
    now := time.Now().UTC()
    return &Record{
        ID:        uuid.New().String(),
        CreatedAt: now,
        UpdatedAt: now,
    }
}

func (r *Record) BearerToken() string {
    return r.Token
}

// ClearCredentials drops the stored token and profile wholesale. Called on
// logout and whenever the upstream answers 401.
func (r *Record) ClearCredentials() {
    r.Token = ""
    r.User = nil
    r.AuthRequired = true
}

// SetCredentials stores a fresh credential after login/register and clears
// the auth-required marker so cart fetches go upstream again.
func (r *Record) SetCredentials(auth *models.AuthResponse) {
    r.Token = auth.Token
    user := auth.User
    r.User = &user
    r.AuthRequired = false
    r.LoadError = ""
}

func (r *Record) IsAuthenticated() bool {
    return r.Token != ""
}
