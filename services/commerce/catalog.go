package commerce

import (
    "context"
    "fmt"
    "net/http"
    "net/url"

    "storefront-session-api/models"
)

func (c *Client) ListProducts(ctx context.Context, sess Session, search, categoryID string, page int) (*models.ProductList, error) {
    query := url.Values{}
    if search != "" {
        query.Set("q", search)
    }
    if categoryID != "" {
        query.Set("category_id", categoryID)
    }
    if page > 1 {
        query.Set("page", fmt.Sprintf("%d", page))
    }

    path := "/products"
    if encoded := query.Encode(); encoded != "" {
        path += "?" + encoded
    }

    var list models.ProductList
    if err := c.do(ctx, sess, http.MethodGet, path, nil, &list); err != nil {
        return nil, err
    }
    return &list, nil
}

func (c *Client) GetProduct(ctx context.Context, sess Session, productID string) (*models.Product, error) {
    var product models.Product
    path := fmt.Sprintf("/products/%s", url.PathEscape(productID))
    if err := c.do(ctx, sess, http.MethodGet, path, nil, &product); err != nil {
        return nil, err
    }
    return &product, nil
}

func (c *Client) ListCategories(ctx context.Context, sess Session) ([]models.Category, error) {
    var categories []models.Category
    if err := c.do(ctx, sess, http.MethodGet, "/categories", nil, &categories); err != nil {
        return nil, err
    }
    return categories, nil
}
