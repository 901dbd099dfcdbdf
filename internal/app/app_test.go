package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/guitar-shop/internal/config"
	"github.com/example/guitar-shop/internal/domain/cart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend string) config.Config {
	return config.Config{
		APIBaseURL:     "http://localhost:0",
		HTTPTimeout:    time.Second,
		StorageBackend: backend,
		StorageProfile: "default",
		KafkaTopic:     "guitar-shop-activity",
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), testConfig("memory"), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Cart)
	assert.NotNil(t, a.Catalog)
	assert.Nil(t, a.Producer)
	assert.Empty(t, a.Cart.Lines())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig("floppy"), nil)

	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNew_FileBackendRestoresCart(t *testing.T) {
	cfg := testConfig("file")
	cfg.StoragePath = filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Cart.AddToCart(ctx, cart.CartLine{ID: "A", UnitPrice: decimal.NewFromInt(10)}))
	require.NoError(t, first.Cart.AddToCart(ctx, cart.CartLine{ID: "A", UnitPrice: decimal.NewFromInt(10)}))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 2, second.Cart.Totals().TotalQuantity)
	assert.Equal(t, "20", second.Cart.Totals().TotalPrice.String())
}

func TestNew_ProfilesAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	alice := testConfig("redis")
	alice.RedisAddr = mr.Addr()
	alice.StorageProfile = "alice"
	bob := alice
	bob.StorageProfile = "bob"

	a, err := New(ctx, alice, nil)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Cart.AddToCart(ctx, cart.CartLine{ID: "A", UnitPrice: decimal.NewFromInt(1)}))

	b, err := New(ctx, bob, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Empty(t, b.Cart.Lines())
	assert.True(t, mr.Exists("alice:"+cart.StorageKey))
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := testConfig("redis")
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, nil)

	assert.Error(t, err)
}

func TestApp_RequestsCarrySessionToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"_embedded":{"countries":[]}}`))
	}))
	defer server.Close()

	cfg := testConfig("memory")
	cfg.APIBaseURL = server.URL
	ctx := context.Background()
	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Session.SetToken(ctx, "opaque-token"))
	_, err = a.Catalog.Countries(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", gotAuth)
}

func TestApp_NewCheckoutUsesCart(t *testing.T) {
	a, err := New(context.Background(), testConfig("memory"), nil)
	require.NoError(t, err)
	defer a.Close()

	c := a.NewCheckout()

	assert.NotNil(t, c)
	assert.Len(t, c.CreditCardYears(), 11)
}

func TestApp_NewActivityConsumer_RequiresBrokers(t *testing.T) {
	a, err := New(context.Background(), testConfig("memory"), nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.NewActivityConsumer("storefront-activity")

	assert.Error(t, err)
}
