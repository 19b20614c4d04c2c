package commerce

import (
    "context"
    "fmt"
    "net/http"

    "storefront-session-api/models"
)

// Cart endpoints. Behavior contract (not exact upstream paths) per the
// storefront API: fetch answers 404 while no active cart exists and 401 when
// the session is unauthenticated.

func (c *Client) FetchCart(ctx context.Context, sess Session) (*models.Cart, error) {
    var cart models.Cart
    if err := c.do(ctx, sess, http.MethodGet, "/cart", nil, &cart); err != nil {
        return nil, err
    }
    return &cart, nil
}

func (c *Client) CreateCart(ctx context.Context, sess Session) (*models.Cart, error) {
    var cart models.Cart
    if err := c.do(ctx, sess, http.MethodPost, "/carts", nil, &cart); err != nil {
        return nil, err
    }
    return &cart, nil
}

func (c *Client) AddItem(ctx context.Context, sess Session, cartID string, req models.AddItemRequest) error {
    path := fmt.Sprintf("/carts/%s/items", cartID)
    return c.do(ctx, sess, http.MethodPost, path, req, nil)
}

func (c *Client) UpdateItemQuantity(ctx context.Context, sess Session, cartID string, req models.UpdateQuantityRequest) error {
    path := fmt.Sprintf("/carts/%s/items", cartID)
    return c.do(ctx, sess, http.MethodPut, path, req, nil)
}

func (c *Client) RemoveItem(ctx context.Context, sess Session, cartID string, req models.RemoveItemRequest) error {
    path := fmt.Sprintf("/carts/%s/items/remove", cartID)
    return c.do(ctx, sess, http.MethodPost, path, req, nil)
}

func (c *Client) ClearCart(ctx context.Context, sess Session, cartID string) error {
    path := fmt.Sprintf("/carts/%s/clear", cartID)
    return c.do(ctx, sess, http.MethodPost, path, nil, nil)
}

func (c *Client) Checkout(ctx context.Context, sess Session, req models.CheckoutRequest) (*models.CheckoutResult, error) {
    var result models.CheckoutResult
    path := fmt.Sprintf("/carts/%s/checkout", req.CartID)
    if err := c.do(ctx, sess, http.MethodPost, path, req, &result); err != nil {
        return nil, err
    }
    return &result, nil
}
