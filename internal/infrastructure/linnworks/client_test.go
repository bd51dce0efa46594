package linnworks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeERP struct {
	t            *testing.T
	server       *httptest.Server
	authCalls    int
	createCalls  int
	createBody   string
	rejectToken  string // token that triggers a 401
	createResult string // raw JSON array returned by CreateOrders
}

// newFakeERP starts a stub that answers both authentication and the order
// endpoints, advertising itself as the region server.
func newFakeERP(t *testing.T) *fakeERP {
	f := &fakeERP{t: t}
	f.server = httptest.NewServer(f)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeERP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/Auth/AuthorizeByApplication":
		f.authCalls++
		require.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, "app-id", r.PostFormValue("ApplicationId"))
		assert.Equal(f.t, "app-secret", r.PostFormValue("ApplicationSecret"))
		assert.Equal(f.t, "install-token", r.PostFormValue("Token"))
		json.NewEncoder(w).Encode(map[string]string{
			"Token":  "session-token",
			"Server": f.server.URL,
		})
	case "/api/Orders/CreateOrders":
		f.createCalls++
		if f.rejectToken != "" && r.Header.Get("Authorization") == f.rejectToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(f.t, r.ParseForm())
		f.createBody = r.PostFormValue("orders")
		w.Write([]byte(f.createResult))
	case "/api/Orders/UnparkOrder":
		require.NoError(f.t, r.ParseForm())
		assert.NotEmpty(f.t, r.PostFormValue("pkOrderId"))
		w.Write([]byte(`true`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeERP) authURL() string {
	return f.server.URL + "/api/Auth/AuthorizeByApplication"
}

func newTestClient(t *testing.T, authURL string, tokens TokenStore) *Client {
	cfg := config.LinnworksConfig{
		AppID:        "app-id",
		AppSecret:    "app-secret",
		InstallToken: "install-token",
		AuthURL:      authURL,
		Timeout:      5 * time.Second,
		TokenTTL:     55 * time.Minute,
	}
	client, err := NewClient(cfg, tokens, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("rejects missing credentials", func(t *testing.T) {
		_, err := NewClient(config.LinnworksConfig{}, NewMemoryTokenStore(), zap.NewNop())
		assert.ErrorIs(t, err, erp.ErrNotConfigured)
	})
}

func TestClient_CreateOrders(t *testing.T) {
	t.Run("authenticates then posts orders as a form field", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.createResult = `["11111111-aaaa-bbbb-cccc-222222222222"]`

		client := newTestClient(t, fake.authURL(), NewMemoryTokenStore())

		results, err := client.CreateOrders(context.Background(), []erp.OrderPayload{
			{ReferenceNumber: "RP-20260115-AB12CD34"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
		assert.Equal(t, "11111111-aaaa-bbbb-cccc-222222222222", results[0].ErpOrderID)
		assert.Equal(t, "RP-20260115-AB12CD34", results[0].ReferenceNumber)
		assert.Equal(t, 1, fake.authCalls)

		var sent []erp.OrderPayload
		require.NoError(t, json.Unmarshal([]byte(fake.createBody), &sent))
		require.Len(t, sent, 1)
		assert.Equal(t, "RP-20260115-AB12CD34", sent[0].ReferenceNumber)
	})

	t.Run("normalizes object results with error fields", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.createResult = `[
			{"pkOrderId": "33333333-aaaa-bbbb-cccc-444444444444"},
			{"Error": "SKU not linked"}
		]`

		client := newTestClient(t, fake.authURL(), NewMemoryTokenStore())

		results, err := client.CreateOrders(context.Background(), []erp.OrderPayload{
			{ReferenceNumber: "REF-1"},
			{ReferenceNumber: "REF-2"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].Success)
		assert.Equal(t, "33333333-aaaa-bbbb-cccc-444444444444", results[0].ErpOrderID)
		assert.False(t, results[1].Success)
		assert.Equal(t, "SKU not linked", results[1].Error)
	})

	t.Run("rejects result count mismatch", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.createResult = `[]`

		client := newTestClient(t, fake.authURL(), NewMemoryTokenStore())

		_, err := client.CreateOrders(context.Background(), []erp.OrderPayload{{ReferenceNumber: "REF-1"}})
		assert.ErrorIs(t, err, erp.ErrInvalidResponse)
	})

	t.Run("reuses the cached session across calls", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.createResult = `["55555555-aaaa-bbbb-cccc-666666666666"]`

		client := newTestClient(t, fake.authURL(), NewMemoryTokenStore())

		for i := 0; i < 3; i++ {
			_, err := client.CreateOrders(context.Background(), []erp.OrderPayload{{ReferenceNumber: "REF"}})
			require.NoError(t, err)
		}
		assert.Equal(t, 1, fake.authCalls)
	})

	t.Run("re-authenticates once on 401", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.createResult = `["77777777-aaaa-bbbb-cccc-888888888888"]`
		fake.rejectToken = "stale-token"

		tokens := NewMemoryTokenStore()
		require.NoError(t, tokens.Set(context.Background(), &Session{
			Token:     "stale-token",
			Server:    fake.server.URL,
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		client := newTestClient(t, fake.authURL(), tokens)

		results, err := client.CreateOrders(context.Background(), []erp.OrderPayload{{ReferenceNumber: "REF"}})
		require.NoError(t, err)
		assert.True(t, results[0].Success)
		assert.Equal(t, 1, fake.authCalls)
		assert.Equal(t, 2, fake.createCalls)

		// The fresh session replaced the stale one
		session, err := tokens.Get(context.Background())
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "session-token", session.Token)
	})
}

func TestClient_UnparkOrder(t *testing.T) {
	t.Run("posts the order id", func(t *testing.T) {
		fake := newFakeERP(t)

		client := newTestClient(t, fake.authURL(), NewMemoryTokenStore())

		err := client.UnparkOrder(context.Background(), "99999999-aaaa-bbbb-cccc-000000000000")
		assert.NoError(t, err)
	})
}

func TestMemoryTokenStore(t *testing.T) {
	t.Run("expired sessions read as absent", func(t *testing.T) {
		store := NewMemoryTokenStore()
		require.NoError(t, store.Set(context.Background(), &Session{
			Token:     "old",
			Server:    "https://eu1.example.com",
			ExpiresAt: time.Now().Add(-time.Minute),
		}))

		session, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("invalidate drops the session", func(t *testing.T) {
		store := NewMemoryTokenStore()
		require.NoError(t, store.Set(context.Background(), &Session{
			Token:     "current",
			Server:    "https://eu1.example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, store.Invalidate(context.Background()))

		session, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}
