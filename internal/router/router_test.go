package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	cartdomain "github.com/qkartio/cart-service/internal/cart/domain"
	"github.com/qkartio/cart-service/internal/cart/infra/adapter"
	catalogapp "github.com/qkartio/cart-service/internal/catalog/app"
	catalogdomain "github.com/qkartio/cart-service/internal/catalog/domain"
	"github.com/qkartio/cart-service/internal/router"
	userapp "github.com/qkartio/cart-service/internal/user/app"
	userdomain "github.com/qkartio/cart-service/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCartStore struct {
	mu    sync.Mutex
	carts map[string]cartdomain.Cart
}

func (m *memCartStore) FindByOwner(ctx context.Context, owner string) (cartdomain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[owner]
	if !ok {
		return cartdomain.Cart{}, cartapp.ErrCartNotFound
	}
	return cart, nil
}

func (m *memCartStore) Create(ctx context.Context, owner string) (cartdomain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[owner]; ok {
		return cart, nil
	}
	cart := cartdomain.Cart{Owner: owner}
	m.carts[owner] = cart
	return cart, nil
}

func (m *memCartStore) Save(ctx context.Context, cart cartdomain.Cart) (cartdomain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.Owner] = cart
	return cart, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]userdomain.User
}

func (m *memUserRepo) Get(ctx context.Context, email string) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return userdomain.User{}, userapp.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) Save(ctx context.Context, u userdomain.User) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Email] = u
	return u, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]catalogdomain.Product
}

func (m *memProductRepo) Create(ctx context.Context, p catalogdomain.Product) (catalogdomain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.products[p.ID] = p
	return p, nil
}

func (m *memProductRepo) Get(ctx context.Context, id string) (catalogdomain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return catalogdomain.Product{}, catalogapp.ErrNotFound
	}
	return p, nil
}

func (m *memProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]catalogdomain.Product, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalogdomain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, "", nil
}

type memCheckout struct {
	store *memCartStore
	users *memUserRepo
}

func (m *memCheckout) Commit(ctx context.Context, owner string, total cartdomain.Money) error {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()

	u, ok := m.users.users[owner]
	if !ok || u.WalletMoney < total.Amount {
		return cartapp.ErrInsufficientFunds
	}
	u.WalletMoney -= total.Amount
	m.users.users[owner] = u

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	cart := m.store.carts[owner]
	cart.Lines = nil
	m.store.carts[owner] = cart
	return nil
}

type testServer struct {
	srv      *httptest.Server
	users    *memUserRepo
	products *memProductRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &memCartStore{carts: make(map[string]cartdomain.Cart)}
	userRepo := &memUserRepo{users: make(map[string]userdomain.User)}
	productRepo := &memProductRepo{products: make(map[string]catalogdomain.Product)}

	catalogSvc := catalogapp.NewService(productRepo)
	userSvc := userapp.NewService(userRepo)
	cartSvc := cartapp.NewService(
		store,
		&memCheckout{store: store, users: userRepo},
		adapter.NewCatalogServiceReader(catalogSvc),
		adapter.NewUserServiceReader(userSvc),
		4,
	)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(router.New(log, cartSvc, userSvc, catalogSvc))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, users: userRepo, products: productRepo}
}

func (ts *testServer) addUser(u userdomain.User) {
	ts.users.mu.Lock()
	defer ts.users.mu.Unlock()
	ts.users.users[u.Email] = u
}

func (ts *testServer) addProduct(name string, cost int64) string {
	ts.products.mu.Lock()
	defer ts.products.mu.Unlock()
	id := uuid.NewString()
	ts.products.products[id] = catalogdomain.Product{
		ID:    id,
		Name:  name,
		Price: catalogdomain.Money{Currency: "INR", Amount: cost},
	}
	return id
}

func (ts *testServer) do(t *testing.T, method, path, identity string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, buf)
	require.NoError(t, err)
	if identity != "" {
		req.Header.Set("X-User-Email", identity)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

const identity = "crio-user@gmail.com"

func TestIdentityRequired(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(userdomain.User{
		Email:       identity,
		WalletMoney: 500,
		Address:     "221B Baker Street, London NW1 6XE, UK",
	})
	productID := ts.addProduct("productX", 100)

	t.Run("no cart yet", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodGet, "/v1/cart", identity, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "User does not have a cart", body["message"])
	})

	t.Run("add defaults quantity to one", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPost, "/v1/cart", identity,
			map[string]any{"productId": productID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		items := body["cartItems"].([]any)
		require.Len(t, items, 1)
		line := items[0].(map[string]any)
		assert.Equal(t, float64(1), line["quantity"])
	})

	t.Run("duplicate add rejected", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPost, "/v1/cart", identity,
			map[string]any{"productId": productID, "quantity": 3})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", body["code"])
	})

	t.Run("update quantity", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPut, "/v1/cart", identity,
			map[string]any{"productId": productID, "quantity": 2})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		items := body["cartItems"].([]any)
		line := items[0].(map[string]any)
		assert.Equal(t, float64(2), line["quantity"])
	})

	t.Run("checkout empties cart and debits wallet", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPut, "/v1/cart/checkout", identity, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["cartItems"])

		resp, body = ts.do(t, http.MethodGet, "/v1/users/"+identity, identity, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(300), body["walletMoney"])
	})
}

func TestCheckoutWithoutAddress(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(userdomain.User{Email: identity, WalletMoney: 500, Address: userdomain.DefaultAddress})
	productID := ts.addProduct("productY", 50)

	resp, _ := ts.do(t, http.MethodPost, "/v1/cart", identity,
		map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPut, "/v1/cart/checkout", identity, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	resp, body = ts.do(t, http.MethodGet, "/v1/users/"+identity, identity, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(500), body["walletMoney"])
}

func TestRemoveProduct(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(userdomain.User{Email: identity, WalletMoney: 500, Address: userdomain.DefaultAddress})
	productID := ts.addProduct("productZ", 10)

	resp, _ := ts.do(t, http.MethodPost, "/v1/cart", identity,
		map[string]any{"productId": productID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodDelete, "/v1/cart/"+productID, identity, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := ts.do(t, http.MethodDelete, "/v1/cart/"+productID, identity, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Product not in cart", body["message"])
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(userdomain.User{Email: identity, WalletMoney: 500, Address: userdomain.DefaultAddress})
	ts.addUser(userdomain.User{Email: "other@gmail.com", WalletMoney: 500})

	t.Run("address projection", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodGet, "/v1/users/"+identity+"?q=address", identity, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{"address": userdomain.DefaultAddress}, body)
	})

	t.Run("someone else's record is forbidden", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/v1/users/other@gmail.com", identity, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("set address", func(t *testing.T) {
		address := "221B Baker Street, London NW1 6XE, UK"
		resp, body := ts.do(t, http.MethodPut, "/v1/users/"+identity, identity,
			map[string]any{"address": address})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, address, body["address"])
	})

	t.Run("short address rejected", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPut, "/v1/users/"+identity, identity,
			map[string]any{"address": "short"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProductEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("create and fetch", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPost, "/v1/products", "",
			map[string]any{"name": "Keyboard", "currency": "INR", "cost": 1500})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		id := body["id"].(string)
		resp, body = ts.do(t, http.MethodGet, "/v1/products/"+id, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Keyboard", body["name"])
		assert.Equal(t, float64(1500), body["cost"])
	})

	t.Run("invalid currency rejected", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPost, "/v1/products", "",
			map[string]any{"name": "Keyboard", "currency": "COINS", "cost": 1500})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown product", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, fmt.Sprintf("/v1/products/%s", uuid.NewString()), "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
