package middleware

import (
    "context"
    "log"
    "net/http"
    "time"

    "github.com/gorilla/sessions"

    "storefront-session-api/config"
    "storefront-session-api/services/session"
)

type contextKey string

const SessionContextKey contextKey = "session"

const sidKey = "sid"

// SessionMiddleware resolves the signed session cookie into a session record
// and makes it available on the request context. Records are created lazily
// on first contact and persisted back to the store after every request, so
// handlers only mutate the record in memory.
type SessionMiddleware struct {
    cookies    *sessions.CookieStore
    store      session.Store
    cookieName string
}

func NewSessionMiddleware(cfg config.SessionConfig, store session.Store) *SessionMiddleware {
    cookieStore := sessions.NewCookieStore([]byte(cfg.Secret))
    cookieStore.Options = &sessions.Options{
        Path:     "/",
        Domain:   cfg.Domain,
        MaxAge:   cfg.MaxAge,
        Secure:   cfg.SecureCookie,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    }
    return &SessionMiddleware{
        cookies:    cookieStore,
        store:      store,
        cookieName: cfg.CookieName,
    }
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        cookie, err := m.cookies.Get(r, m.cookieName)
        if err != nil {
            // A tampered or stale cookie just means a fresh session.
            log.Printf("Error decoding session cookie: %v", err)
            cookie, _ = m.cookies.New(r, m.cookieName)
        }

        var rec *session.Record
        if sid, ok := cookie.Values[sidKey].(string); ok && sid != "" {
            rec, err = m.store.Get(r.Context(), sid)
            if err != nil {
                log.Printf("Error loading session %s: %v", sid, err)
            }
        }

        if rec == nil {
            rec = session.NewRecord()
            cookie.Values[sidKey] = rec.ID
            if err := cookie.Save(r, w); err != nil {
                log.Printf("Error saving session cookie: %v", err)
            }
        }

        // An expired token is treated as logged out without bothering the
        // upstream.
        if rec.Token != "" && session.TokenExpired(rec.Token, time.Now()) {
            log.Printf("Session %s token expired, clearing credentials", rec.ID)
            rec.ClearCredentials()
        }

        ctx := context.WithValue(r.Context(), SessionContextKey, rec)
        next.ServeHTTP(w, r.WithContext(ctx))

        if err := m.store.Put(r.Context(), rec); err != nil {
            log.Printf("Error persisting session %s: %v", rec.ID, err)
        }
    })
}

// GetSession extrai o registro de sessão do contexto da requisição
func GetSession(ctx context.Context) *session.Record {
    rec, ok := ctx.Value(SessionContextKey).(*session.Record)
    if !ok {
        return nil
    }
    return rec
}

func IsAuthenticated(ctx context.Context) bool {
    rec := GetSession(ctx)
    return rec != nil && rec.IsAuthenticated()
}
