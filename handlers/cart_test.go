package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

// upstreamStub answers the few cart endpoints the gateway calls with one
// in-memory cart.
func upstreamStub() http.Handler {
	cartState := &models.Cart{ID: "cart-1", Status: models.CartStatusActive, Items: []models.CartItem{}}
	send := func(w http.ResponseWriter, data interface{}) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "data": data})
	}

	r := mux.NewRouter()
	r.HandleFunc("/cart", func(w http.ResponseWriter, req *http.Request) {
		send(w, cartState)
	}).Methods("GET")
	r.HandleFunc("/carts/{id}/items", func(w http.ResponseWriter, req *http.Request) {
		var body models.AddItemRequest
		json.NewDecoder(req.Body).Decode(&body)
		cartState.Items = append(cartState.Items, models.CartItem{
			ProductID: body.ProductID,
			UnitPrice: 250000,
			Quantity:  body.Quantity,
		})
		send(w, cartState)
	}).Methods("POST")
	return r
}

func testGateway(t *testing.T, upstream http.Handler) (*mux.Router, func()) {
	t.Helper()
	server := httptest.NewServer(upstream)

	client := commerce.NewClient(server.URL, 2*time.Second, 0)
	coupons := coupon.NewCatalog()
	checkoutCfg := config.CheckoutConfig{TaxRate: 0.08, BaseShippingFee: 30000, ExpressSurcharge: 25000}
	manager := cart.NewManager(client, coupons, checkoutCfg)
	wizard := checkout.NewWizard(checkout.NewValidator(nil), checkoutCfg)
	hub := notification.NewHub()

	store := session.NewMemoryStore()
	mw := middleware.NewSessionMiddleware(config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "storefront-session",
		MaxAge:     3600,
	}, store)

	cartHandler := NewCartHandler(manager, wizard, hub)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(mw.Handler)
	api.HandleFunc("/cart", cartHandler.GetCart).Methods("GET")
	api.HandleFunc("/cart/items", cartHandler.AddItem).Methods("POST")
	api.HandleFunc("/cart/coupon", cartHandler.ApplyCoupon).Methods("POST")

	return router, server.Close
}

type viewEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    models.CartView `json:"data"`
}

func TestGetCartEndpoint(t *testing.T) {
	router, done := testGateway(t, upstreamStub())
	defer done()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/cart", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var env viewEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "cart-1", env.Data.Cart.ID)
	assert.Equal(t, 0.0, env.Data.Total)
}

func TestAddItemEndpointReturnsRefreshedView(t *testing.T) {
	router, done := testGateway(t, upstreamStub())
	defer done()

	body := strings.NewReader(`{"product_id":"p1","quantity":2}`)
	req := httptest.NewRequest("POST", "/api/cart/items", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var env viewEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data.Cart.Items, 1)
	assert.Equal(t, 500000.0, env.Data.Cart.Subtotal)
	assert.Equal(t, 30000.0, env.Data.Shipping)
	assert.Equal(t, 40000.0, env.Data.Tax)
	assert.Equal(t, 570000.0, env.Data.Total)
}

func TestAddItemEndpointRejectsBadBody(t *testing.T) {
	router, done := testGateway(t, upstreamStub())
	defer done()

	req := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader("{broken"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestApplyCouponEndpointFieldError(t *testing.T) {
	router, done := testGateway(t, upstreamStub())
	defer done()

	req := httptest.NewRequest("POST", "/api/cart/coupon", strings.NewReader(`{"code":"BOGUS"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var env struct {
		Status string              `json:"status"`
		Data   map[string][]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Data, "coupon")
}
