package cart

import (
    "context"
    "log"
    "sync"

    "storefront-session-api/config"
    "storefront-session-api/models"
    "storefront-session-api/services/commerce"
    "storefront-session-api/services/coupon"
    "storefront-session-api/services/notification"
    "storefront-session-api/services/session"
    "storefront-session-api/utils"
)

// Manager owns the single active cart of a session. Every mutation goes
// upstream and is followed by a full refetch of the authoritative cart, so
// the local copy never has to reconcile partial updates. Mutations against
// the same cart are serialized through a per-cart lock; races between
// different sessions still resolve as last-refetch-wins.
type Manager struct {
    client  *commerce.Client
    coupons *coupon.Catalog
    cfg     config.CheckoutConfig

    mu    sync.Mutex
    locks map[string]*sync.Mutex
}

func NewManager(client *commerce.Client, coupons *coupon.Catalog, cfg config.CheckoutConfig) *Manager {
    return &Manager{
        client:  client,
        coupons: coupons,
        cfg:     cfg,
        locks:   make(map[string]*sync.Mutex),
    }
}

func placeholderCart() *models.Cart {
    return &models.Cart{
        Status: models.CartStatusActive,
        Items:  []models.CartItem{},
    }
}

func (m *Manager) lockKey(rec *session.Record) string {
    if rec.CartID != "" {
        return rec.CartID
    }
    return rec.ID
}

// lockFor serializes mutations per cart; sessions without a cart yet lock on
// their own session id.
func (m *Manager) lockFor(rec *session.Record) *sync.Mutex {
    key := m.lockKey(rec)

    m.mu.Lock()
    defer m.mu.Unlock()
    lock, exists := m.locks[key]
    if !exists {
        lock = &sync.Mutex{}
        m.locks[key] = lock
    }
    return lock
}

// releaseLock drops a retired lock entry. Goroutines already waiting on the
// mutex keep their pointer; only future callers get a fresh one.
func (m *Manager) releaseLock(key string) {
    m.mu.Lock()
    delete(m.locks, key)
    m.mu.Unlock()
}

func setCart(rec *session.Record, cart *models.Cart) {
    rec.CachedCart = cart
    rec.CartID = cart.ID
}

// FetchCart loads the active cart, creating one when the upstream reports
// none exists. It never fails: an unauthenticated session gets an empty
// placeholder plus the auth-required state (and no further upstream calls
// until login), and any other failure gets a placeholder plus a generic
// load error so the UI always has a cart to render.
func (m *Manager) FetchCart(ctx context.Context, rec *session.Record) *models.Cart {
    if rec.AuthRequired && !rec.IsAuthenticated() {
        cart := placeholderCart()
        setCart(rec, cart)
        return cart
    }

    cart, err := m.client.FetchCart(ctx, rec)
    if err != nil && commerce.IsNotFound(err) {
        cart, err = m.client.CreateCart(ctx, rec)
    }

    if err != nil {
        fallback := placeholderCart()
        if commerce.IsAuth(err) {
            rec.AuthRequired = true
        } else {
            log.Printf("Failed to load cart for session %s: %v", rec.ID, err)
            rec.LoadError = "could not load your cart"
        }
        setCart(rec, fallback)
        return fallback
    }

    rec.LoadError = ""
    setCart(rec, cart)
    return cart
}

// ensureCart fetches or creates the active cart ahead of a mutation. Unlike
// FetchCart it reports failure, because a mutation with no cart must not
// proceed.
func (m *Manager) ensureCart(ctx context.Context, rec *session.Record) (*models.Cart, error) {
    if rec.CachedCart != nil && rec.CachedCart.ID != "" {
        return rec.CachedCart, nil
    }

    cart, err := m.client.FetchCart(ctx, rec)
    if err != nil && commerce.IsNotFound(err) {
        cart, err = m.client.CreateCart(ctx, rec)
    }
    if err != nil {
        if commerce.IsAuth(err) {
            rec.AuthRequired = true
        }
        return nil, err
    }

    setCart(rec, cart)
    return cart, nil
}

func (m *Manager) AddToCart(ctx context.Context, rec *session.Record, productID string, quantity int) models.OperationResult {
    if quantity < 1 {
        return models.Failed("quantity must be at least 1")
    }

    lock := m.lockFor(rec)
    lock.Lock()
    defer lock.Unlock()

    cart, err := m.ensureCart(ctx, rec)
    if err != nil {
        return models.Failed(notification.Normalize(err))
    }

    addErr := m.client.AddItem(ctx, rec, cart.ID, models.AddItemRequest{
        ProductID: productID,
        Quantity:  quantity,
    })

    // Refetch regardless: the upstream view wins even when the add failed.
    m.refetch(ctx, rec)

    if addErr != nil {
        return models.Failed(notification.Normalize(addErr))
    }
    return models.OK("added to cart")
}

func (m *Manager) UpdateQuantity(ctx context.Context, rec *session.Record, productID string, quantity int) models.OperationResult {
    if quantity < 0 {
        return models.Failed("quantity cannot be negative")
    }
    if quantity == 0 {
        // Dropping to zero removes the item; zero-quantity lines never exist.
        return m.RemoveItem(ctx, rec, productID)
    }

    lock := m.lockFor(rec)
    lock.Lock()
    defer lock.Unlock()

    cart, err := m.ensureCart(ctx, rec)
    if err != nil {
        return models.Failed(notification.Normalize(err))
    }

    if err := m.client.UpdateItemQuantity(ctx, rec, cart.ID, models.UpdateQuantityRequest{
        ProductID: productID,
        Quantity:  quantity,
    }); err != nil {
        return models.Failed(notification.Normalize(err))
    }

    m.refetch(ctx, rec)
    return models.OK("cart updated")
}

func (m *Manager) RemoveItem(ctx context.Context, rec *session.Record, productID string) models.OperationResult {
    lock := m.lockFor(rec)
    lock.Lock()
    defer lock.Unlock()

    cart, err := m.ensureCart(ctx, rec)
    if err != nil {
        return models.Failed(notification.Normalize(err))
    }

    if err := m.client.RemoveItem(ctx, rec, cart.ID, models.RemoveItemRequest{
        ProductID: productID,
    }); err != nil {
        return models.Failed(notification.Normalize(err))
    }

    m.refetch(ctx, rec)
    return models.OK("item removed")
}

func (m *Manager) ClearCart(ctx context.Context, rec *session.Record) models.OperationResult {
    lock := m.lockFor(rec)
    lock.Lock()
    defer lock.Unlock()

    cart, err := m.ensureCart(ctx, rec)
    if err != nil {
        return models.Failed(notification.Normalize(err))
    }

    if err := m.client.ClearCart(ctx, rec, cart.ID); err != nil {
        return models.Failed(notification.Normalize(err))
    }

    rec.Coupon = nil
    m.refetch(ctx, rec)
    return models.OK("cart cleared")
}

// ApplyCoupon validates the code against the current subtotal and stores it
// on the session. Only one coupon is active at a time; a new code replaces
// the old one outright.
func (m *Manager) ApplyCoupon(ctx context.Context, rec *session.Record, code string) models.OperationResult {
    cart := rec.CachedCart
    if cart == nil || cart.ID == "" {
        cart = m.FetchCart(ctx, rec)
    }

    subtotal := utils.Subtotal(cart.Items)
    resolved, err := m.coupons.Resolve(code, subtotal)
    if err != nil {
        return models.Failed(err.Error())
    }

    discount, _ := coupon.Calculate(subtotal, m.cfg.BaseShippingFee, resolved)
    rec.Coupon = &models.AppliedCoupon{
        Code:     resolved.Code,
        Discount: discount,
    }
    return models.OK("coupon applied")
}

func (m *Manager) RemoveCoupon(rec *session.Record) models.OperationResult {
    rec.Coupon = nil
    return models.OK("coupon removed")
}

// Checkout submits the assembled order. An empty cart is rejected before any
// network call. On success the cart is refetched (now empty or transitioned)
// and the coupon cleared; on failure nothing about the cart state changes.
func (m *Manager) Checkout(ctx context.Context, rec *session.Record, req models.CheckoutRequest) (*models.CheckoutResult, models.OperationResult) {
    key := m.lockKey(rec)
    lock := m.lockFor(rec)
    lock.Lock()
    defer lock.Unlock()

    cart := rec.CachedCart
    if cart == nil || cart.ID == "" {
        fetched, err := m.ensureCart(ctx, rec)
        if err != nil {
            return nil, models.Failed(notification.Normalize(err))
        }
        cart = fetched
    }
    if cart.IsEmpty() {
        return nil, models.Failed("your cart is empty")
    }

    req.CartID = cart.ID
    if rec.Coupon != nil {
        // Recompute against the cart as it stands now; the snapshot taken at
        // apply time goes stale when the cart changes afterwards. A coupon the
        // current subtotal no longer qualifies for is silently dropped.
        subtotal := utils.Subtotal(cart.Items)
        if resolved, err := m.coupons.Resolve(rec.Coupon.Code, subtotal); err == nil {
            discount, _ := coupon.Calculate(subtotal, req.ShippingFee, resolved)
            req.CouponCode = resolved.Code
            req.Discount = discount
        }
    }

    result, err := m.client.Checkout(ctx, rec, req)
    if err != nil {
        return nil, models.Failed(notification.Normalize(err))
    }

    rec.Coupon = nil
    m.refetch(ctx, rec)
    // The checked-out cart id is retired upstream; its lock entry would
    // otherwise sit in the map for the life of the process.
    m.releaseLock(key)
    return result, models.OK("order placed")
}

// View assembles the cart as the UI renders it: locally recomputed subtotal,
// coupon discount, shipping and tax lines, and the total formula
// subtotal + shipping + tax - discount.
func (m *Manager) View(rec *session.Record, shippingFee float64) models.CartView {
    cart := rec.CachedCart
    if cart == nil {
        cart = placeholderCart()
    }

    subtotal := utils.Subtotal(cart.Items)
    cart.Subtotal = subtotal
    cart.ItemCount = cart.CountItems()

    var applied *models.AppliedCoupon
    discount := 0.0
    shipping := shippingFee
    if rec.Coupon != nil {
        if resolved, err := m.coupons.Resolve(rec.Coupon.Code, subtotal); err == nil {
            discount, shipping = coupon.Calculate(subtotal, shippingFee, resolved)
            applied = &models.AppliedCoupon{Code: resolved.Code, Discount: discount}
        }
    }
    if cart.IsEmpty() {
        shipping = 0
        discount = 0
        applied = nil
    }

    tax := utils.Tax(subtotal, m.cfg.TaxRate)

    view := models.CartView{
        Cart:     *cart,
        Coupon:   applied,
        Shipping: shipping,
        Tax:      tax,
        Discount: discount,
        Total:    utils.Total(subtotal, shipping, tax, discount),
    }
    if rec.AuthRequired && !rec.IsAuthenticated() {
        view.AuthNeeded = true
        view.LoadError = "sign in to keep your cart"
    } else if rec.LoadError != "" {
        view.LoadError = rec.LoadError
    }
    return view
}

// refetch reloads the authoritative cart after a mutation. Failures here are
// logged, not surfaced: the mutation itself already succeeded or failed on
// its own terms.
func (m *Manager) refetch(ctx context.Context, rec *session.Record) {
    cart, err := m.client.FetchCart(ctx, rec)
    if err != nil {
        if commerce.IsNotFound(err) {
            setCart(rec, placeholderCart())
            return
        }
        log.Printf("Cart refetch failed for session %s: %v", rec.ID, err)
        return
    }
    setCart(rec, cart)
}
