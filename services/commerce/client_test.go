package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-session-api/models"
)

type fakeSession struct {
	token   string
	cleared bool
}

func (s *fakeSession) BearerToken() string { return s.token }
func (s *fakeSession) ClearCredentials() { s.cleared = true }

func newTestClient(url string) *Client {
	return NewClient(url, 2*time.Second, 2)
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"success","data":{"id":"cart-1","status":"active","items":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cart, err := client.FetchCart(context.Background(), &fakeSession{token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "two extra attempts after the first")
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchCart(context.Background(), &fakeSession{token: "tok"})
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindTransient))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchCart(context.Background(), &fakeSession{token: "tok"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateCart(context.Background(), &fakeSession{token: "tok"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "POST gets exactly one attempt")
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sess := &fakeSession{token: "stale"}
	client := newTestClient(server.URL)
	_, err := client.FetchCart(context.Background(), sess)

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.True(t, sess.cleared, "401 must drop the stored credential")
}

func TestBearerHeaderIsSent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success","data":{"id":"cart-1"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchCart(context.Background(), &fakeSession{token: "tok-123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":"error","message":"invalid item","errors":{"quantity":["must be positive"],"product_id":["unknown product"]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.AddItem(context.Background(), &fakeSession{token: "tok"}, "cart-1", models.AddItemRequest{})

	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, ErrKindValidation, apiErr.Kind)
	assert.Equal(t, "product_id: unknown product; quantity: must be positive", apiErr.FlattenFields())
}

func TestDecodeStripsBOM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\ufeff" + `{"status":"success","data":{"id":"cart-1"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cart, err := client.FetchCart(context.Background(), &fakeSession{token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
}
