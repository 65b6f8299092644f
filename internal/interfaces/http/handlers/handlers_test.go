package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/auth"
	"github.com/your-org/storefront-api/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memProducts map[uuid.UUID]*product.Product

func (m memProducts) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	if p, ok := m[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

type memCarts map[uuid.UUID]*cart.Cart

func (m memCarts) FindByUser(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, ok := m[userID]
	if !ok {
		return nil, nil
	}
	clone := *c
	clone.Items = append([]cart.CartItem{}, c.Items...)
	return &clone, nil
}

func (m memCarts) Create(ctx context.Context, c *cart.Cart) error {
	c.ID = uuid.New()
	return m.Save(ctx, c)
}

func (m memCarts) Save(_ context.Context, c *cart.Cart) error {
	clone := *c
	clone.Items = append([]cart.CartItem{}, c.Items...)
	m[c.UserID] = &clone
	return nil
}

type memOrders map[uuid.UUID]*order.Order

func (m memOrders) Create(_ context.Context, o *order.Order) error {
	o.ID = uuid.New()
	clone := *o
	m[o.ID] = &clone
	return nil
}

func (m memOrders) Update(_ context.Context, o *order.Order) error {
	clone := *o
	m[o.ID] = &clone
	return nil
}

func (m memOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	if o, ok := m[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, nil
}

func (m memOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range m {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m memOrders) ListAll(_ context.Context) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range m {
		out = append(out, *o)
	}
	return out, nil
}

type noRevocations struct{}

func (noRevocations) IsTokenRevoked(context.Context, string) (bool, error) { return false, nil }

type testAPI struct {
	router   *gin.Engine
	jwt      *auth.JWTManager
	products memProducts
	carts    memCarts
	orders   memOrders
}

func newTestAPI() *testAPI {
	api := &testAPI{
		products: memProducts{},
		carts:    memCarts{},
		orders:   memOrders{},
		jwt: auth.NewJWTManager(&config.Config{
			App: config.AppConfig{Name: "storefront-test"},
			JWT: config.JWTConfig{
				Secret:             "0123456789abcdef0123456789abcdef",
				AccessTokenExpiry:  time.Hour,
				RefreshTokenExpiry: 24 * time.Hour,
			},
		}),
	}

	log := logger.Discard()
	cartService := cart.NewService(api.carts, api.products)
	orderService := order.NewService(api.orders, cartService, order.NopAnomalyRecorder{}, log)
	cartHandler := NewCartHandler(cartService, log)
	orderHandler := NewOrderHandler(orderService, log)
	authn := middleware.NewAuthenticator(api.jwt, noRevocations{}, log)

	api.router = gin.New()
	v1 := api.router.Group("/api/v1", authn.RequireAuth())
	v1.GET("/cart", cartHandler.GetCart)
	v1.POST("/cart", cartHandler.AddToCart)
	v1.PATCH("/cart/:productId", cartHandler.UpdateCartItem)
	v1.DELETE("/cart/:productId", cartHandler.RemoveFromCart)
	v1.POST("/orders", orderHandler.CreateOrder)
	v1.GET("/orders", authn.RequireAdmin(), orderHandler.GetAllOrders)
	v1.GET("/orders/showAllMyOrders", orderHandler.GetMyOrders)
	v1.GET("/orders/:id", orderHandler.GetOrder)
	v1.PATCH("/orders/:id", authn.RequireAdmin(), orderHandler.UpdateOrder)
	return api
}

func (api *testAPI) token(t *testing.T, role string) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := api.jwt.GenerateAccessToken(auth.Subject{UserID: id, Name: "Sam", Email: "sam@example.com", Role: role})
	require.NoError(t, err)
	return token, id
}

func (api *testAPI) addProduct(name string, price string) *product.Product {
	p := &product.Product{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price)}
	api.products[p.ID] = p
	return p
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestCartToOrderFlow(t *testing.T) {
	api := newTestAPI()
	token, userID := api.token(t, auth.RoleUser)
	chair := api.addProduct("Chair", "250")
	lamp := api.addProduct("Lamp", "125")

	code, env := api.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Empty(t, api.carts, "reading a cart must not create one")

	code, _ = api.do(t, http.MethodPost, "/api/v1/cart", token, gin.H{"productId": chair.ID, "amount": 2})
	require.Equal(t, http.StatusOK, code)
	code, env = api.do(t, http.MethodPost, "/api/v1/cart", token, gin.H{"productId": lamp.ID, "amount": 2})
	require.Equal(t, http.StatusOK, code)

	var c struct {
		ItemCount int             `json:"itemCount"`
		Total     decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, 4, c.ItemCount)
	assert.Equal(t, "750", c.Total.String())

	code, env = api.do(t, http.MethodPost, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusCreated, code)

	var o struct {
		ID     uuid.UUID       `json:"id"`
		User   uuid.UUID       `json:"user"`
		Total  decimal.Decimal `json:"total"`
		Status string          `json:"status"`
		Items  []struct {
			Name string `json:"name"`
		} `json:"orderItems"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, userID, o.User)
	assert.Equal(t, "950.1", o.Total.String())
	assert.Equal(t, "pending", o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Chair", o.Items[0].Name)
	assert.Empty(t, api.carts[userID].Items)

	code, env = api.do(t, http.MethodGet, "/api/v1/orders/showAllMyOrders", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	code, env = api.do(t, http.MethodPost, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "No cart items found", env.Message)
}

func TestCartHandler_Errors(t *testing.T) {
	api := newTestAPI()
	token, _ := api.token(t, auth.RoleUser)

	code, env := api.do(t, http.MethodPost, "/api/v1/cart", token, gin.H{"productId": uuid.New(), "amount": 1})
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, env = api.do(t, http.MethodPost, "/api/v1/cart", token, gin.H{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request data", env.Message)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"amount": 1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, map[string]interface{}{"success": false, "message": "Invalid request data"}, raw)
	assert.NotContains(t, w.Body.String(), "ProductID")

	code, _ = api.do(t, http.MethodDelete, "/api/v1/cart/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(t, http.MethodPatch, "/api/v1/cart/"+uuid.NewString(), token, gin.H{"amount": 3})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Cart not found", env.Message)

	code, _ = api.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOrderHandler_Access(t *testing.T) {
	api := newTestAPI()
	ownerToken, _ := api.token(t, auth.RoleUser)
	otherToken, _ := api.token(t, auth.RoleUser)
	adminToken, _ := api.token(t, auth.RoleAdmin)
	desk := api.addProduct("Desk", "80")

	code, _ := api.do(t, http.MethodPost, "/api/v1/cart", ownerToken, gin.H{"productId": desk.ID, "amount": 1})
	require.Equal(t, http.StatusOK, code)
	code, env := api.do(t, http.MethodPost, "/api/v1/orders", ownerToken, nil)
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/orders/" + created.ID.String()

	code, _ = api.do(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodGet, "/api/v1/orders", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(t, http.MethodPatch, path, adminToken, gin.H{"status": "paid", "paymentIntentId": "pi_123"})
	require.Equal(t, http.StatusOK, code)
	var updated struct {
		IsPaid bool   `json:"isPaid"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.IsPaid)
	assert.Equal(t, "paid", updated.Status)
}

type stalledCarts struct{ memCarts }

func (stalledCarts) FindByUser(ctx context.Context, _ uuid.UUID) (*cart.Cart, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCartHandler_StoreDeadlineAnswers503(t *testing.T) {
	api := newTestAPI()
	token, _ := api.token(t, auth.RoleUser)
	log := logger.Discard()
	handler := NewCartHandler(cart.NewService(stalledCarts{memCarts{}}, api.products), log)
	authn := middleware.NewAuthenticator(api.jwt, noRevocations{}, log)

	r := gin.New()
	r.GET("/cart", middleware.Timeout(10*time.Millisecond), authn.RequireAuth(), handler.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Request timeout", env.Message)
}
