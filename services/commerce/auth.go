package commerce

import (
    "context"
    "net/http"

    "storefront-session-api/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
    var auth models.AuthResponse
    if err := c.do(ctx, nil, http.MethodPost, "/auth/login", creds, &auth); err != nil {
        return nil, err
    }
    return &auth, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
    var auth models.AuthResponse
    if err := c.do(ctx, nil, http.MethodPost, "/auth/register", req, &auth); err != nil {
        return nil, err
    }
    return &auth, nil
}

// Logout asks the upstream to invalidate the token. Callers clear the local
// credential no matter what this returns.
func (c *Client) Logout(ctx context.Context, sess Session) error {
    return c.do(ctx, sess, http.MethodPost, "/auth/logout", nil, nil)
}
