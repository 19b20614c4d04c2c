package commerce

import (
    "context"
    "fmt"
    "net/http"
    "net/url"

    "storefront-session-api/models"
)

func (c *Client) ListOrders(ctx context.Context, sess Session) ([]models.Order, error) {
    var orders []models.Order
    if err := c.do(ctx, sess, http.MethodGet, "/orders", nil, &orders); err != nil {
        return nil, err
    }
    return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, sess Session, orderID string) (*models.OrderDetail, error) {
    var order models.OrderDetail
    path := fmt.Sprintf("/orders/%s", url.PathEscape(orderID))
    if err := c.do(ctx, sess, http.MethodGet, path, nil, &order); err != nil {
        return nil, err
    }
    return &order, nil
}
