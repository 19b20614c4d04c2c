package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-session-api/config"
	"storefront-session-api/middleware"
	"storefront-session-api/models"
	"storefront-session-api/services/cart"
	"storefront-session-api/services/checkout"
	"storefront-session-api/services/commerce"
	"storefront-session-api/services/coupon"
	"storefront-session-api/services/notification"
	"storefront-session-api/services/session"
)

// checkoutUpstream serves a cart that is never empty and records the payload
// the gateway submits on checkout.
type checkoutUpstream struct {
	mu        sync.Mutex
	submitted *models.CheckoutRequest
}

func (u *checkoutUpstream) handler() http.Handler {
	cartState := &models.Cart{
		ID:     "cart-1",
		Status: models.CartStatusActive,
		Items: []models.CartItem{
			{ProductID: "p1", UnitPrice: 250000, Quantity: 2, LineTotal: 500000},
		},
		Subtotal:  500000,
		ItemCount: 2,
	}
	send := func(w http.ResponseWriter, data interface{}) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "data": data})
	}

	r := mux.NewRouter()
	r.HandleFunc("/cart", func(w http.ResponseWriter, req *http.Request) {
		send(w, cartState)
	}).Methods("GET")
	r.HandleFunc("/carts/{id}/checkout", func(w http.ResponseWriter, req *http.Request) {
		var body models.CheckoutRequest
		json.NewDecoder(req.Body).Decode(&body)
		u.mu.Lock()
		u.submitted = &body
		u.mu.Unlock()
		send(w, models.CheckoutResult{OrderID: "order-7", Message: "created"})
	}).Methods("POST")
	return r
}

func checkoutGateway(t *testing.T, upstream http.Handler) (*http.Client, string, func()) {
	t.Helper()
	upstreamServer := httptest.NewServer(upstream)

	client := commerce.NewClient(upstreamServer.URL, 2*time.Second, 0)
	checkoutCfg := config.CheckoutConfig{TaxRate: 0.08, BaseShippingFee: 30000, ExpressSurcharge: 25000}
	manager := cart.NewManager(client, coupon.NewCatalog(), checkoutCfg)
	wizard := checkout.NewWizard(checkout.NewValidator(nil), checkoutCfg)
	hub := notification.NewHub()

	mw := middleware.NewSessionMiddleware(config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "storefront-session",
		MaxAge:     3600,
	}, session.NewMemoryStore())

	checkoutHandler := NewCheckoutHandler(manager, wizard, hub)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(mw.Handler)
	api.HandleFunc("/checkout", checkoutHandler.GetState).Methods("GET")
	api.HandleFunc("/checkout/next", checkoutHandler.Next).Methods("POST")
	api.HandleFunc("/checkout/back", checkoutHandler.Back).Methods("POST")
	api.HandleFunc("/checkout/confirm", checkoutHandler.Confirm).Methods("POST")

	gatewayServer := httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{Jar: jar}

	closeAll := func() {
		gatewayServer.Close()
		upstreamServer.Close()
	}
	return browser, gatewayServer.URL, closeAll
}

func postJSON(t *testing.T, browser *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := browser.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestConfirmForwardsCardData(t *testing.T) {
	upstream := &checkoutUpstream{}
	browser, base, done := checkoutGateway(t, upstream.handler())
	defer done()

	resp := postJSON(t, browser, base+"/api/checkout/next", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "cart review passes on a filled cart")
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/next", `{
		"name": "Nguyen Van A",
		"email": "shopper@example.com",
		"phone": "0912345678",
		"address": "123 Le Loi, District 1",
		"city": "Ha Noi",
		"delivery_option": "standard"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "shipping step passes")
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/next", `{
		"payment_method": "card",
		"card_number": "4532015112830366",
		"card_expiry": "12/99",
		"card_cvv": "123"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "payment step passes")
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/confirm", `{"terms_accepted":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	upstream.mu.Lock()
	submitted := upstream.submitted
	upstream.mu.Unlock()

	require.NotNil(t, submitted)
	assert.Equal(t, models.PaymentMethodCard, submitted.PaymentMethod)
	assert.Equal(t, "4532015112830366", submitted.CardNumber)
	assert.Equal(t, "12/99", submitted.CardExpiry)
	assert.Equal(t, "123", submitted.CardCVV)
	assert.Equal(t, "Nguyen Van A", submitted.Name)
	assert.Equal(t, 30000.0, submitted.ShippingFee)
}

func TestConfirmOmitsCardDataForCashOnDelivery(t *testing.T) {
	upstream := &checkoutUpstream{}
	browser, base, done := checkoutGateway(t, upstream.handler())
	defer done()

	resp := postJSON(t, browser, base+"/api/checkout/next", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/next", `{
		"name": "Nguyen Van A",
		"email": "shopper@example.com",
		"phone": "0912345678",
		"address": "123 Le Loi, District 1",
		"city": "Ha Noi",
		"delivery_option": "standard"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/next", `{"payment_method":"cod"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, browser, base+"/api/checkout/confirm", `{"terms_accepted":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	upstream.mu.Lock()
	submitted := upstream.submitted
	upstream.mu.Unlock()

	require.NotNil(t, submitted)
	assert.Equal(t, models.PaymentMethodCOD, submitted.PaymentMethod)
	assert.Empty(t, submitted.CardNumber)
	assert.Empty(t, submitted.CardCVV)
}
