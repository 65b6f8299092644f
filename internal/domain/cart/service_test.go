package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

type mockCartRepo struct {
	carts   map[uuid.UUID]*Cart
	saves   int
	saveErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*Cart)}
}

func cloneCart(c *Cart) *Cart {
	clone := *c
	clone.Items = append([]CartItem{}, c.Items...)
	return &clone
}

func (m *mockCartRepo) FindByUser(_ context.Context, userID uuid.UUID) (*Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (m *mockCartRepo) Create(_ context.Context, c *Cart) error {
	c.ID = uuid.New()
	m.carts[c.UserID] = cloneCart(c)
	return nil
}

func (m *mockCartRepo) Save(_ context.Context, c *Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.carts[c.UserID] = cloneCart(c)
	return nil
}

type mockProducts map[uuid.UUID]*product.Product

func (m mockProducts) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	if p, ok := m[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (m mockProducts) add(name string, price int64, images ...string) *product.Product {
	p := &product.Product{ID: uuid.New(), Name: name, Price: decimal.NewFromInt(price), Images: pq.StringArray(images)}
	m[p.ID] = p
	return p
}

func newTestService() (*Service, *mockCartRepo, mockProducts) {
	carts := newMockCartRepo()
	products := mockProducts{}
	return NewService(carts, products), carts, products
}

func TestService_AddItem_CreatesCartWithSnapshot(t *testing.T) {
	svc, carts, products := newTestService()
	chair := products.add("Chair", 120, "/uploads/chair.jpeg", "/uploads/chair-2.jpeg")
	user := uuid.New()

	c, err := svc.AddItem(context.Background(), user, chair.ID, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "Chair", c.Items[0].Name)
	assert.Equal(t, "/uploads/chair.jpeg", c.Items[0].Image)
	assert.Equal(t, 2, c.ItemCount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(240)))
	assert.Contains(t, carts.carts, user)
}

func TestService_AddItem_Accumulates(t *testing.T) {
	svc, _, products := newTestService()
	p := products.add("Lamp", 30)
	user := uuid.New()

	_, err := svc.AddItem(context.Background(), user, p.ID, 3)
	require.NoError(t, err)

	products[p.ID].Price = decimal.NewFromInt(999)
	c, err := svc.AddItem(context.Background(), user, p.ID, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Amount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(150)), "existing line keeps its snapshot price")
	assert.Equal(t, "", c.Items[0].Image)
}

func TestService_AddItem_Errors(t *testing.T) {
	svc, carts, _ := newTestService()
	user := uuid.New()

	_, err := svc.AddItem(context.Background(), user, uuid.New(), 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Empty(t, carts.carts)

	_, err = svc.AddItem(context.Background(), user, uuid.New(), 0)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestService_UpdateItemAmount(t *testing.T) {
	svc, carts, products := newTestService()
	p := products.add("Desk", 300)
	user := uuid.New()
	_, err := svc.AddItem(context.Background(), user, p.ID, 1)
	require.NoError(t, err)

	c, err := svc.UpdateItemAmount(context.Background(), user, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.ItemCount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(1200)))

	c, err = svc.UpdateItemAmount(context.Background(), user, p.ID, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, carts.carts[user].ItemCount)
}

func TestService_MissingCartOrLine(t *testing.T) {
	svc, carts, products := newTestService()
	p := products.add("Desk", 300)
	user := uuid.New()

	_, err := svc.RemoveItem(context.Background(), user, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.UpdateItemAmount(context.Background(), user, p.ID, 2)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.AddItem(context.Background(), user, p.ID, 1)
	require.NoError(t, err)
	savesBefore := carts.saves

	_, err = svc.RemoveItem(context.Background(), user, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, savesBefore, carts.saves)
	assert.Equal(t, 1, carts.carts[user].ItemCount)
}

func TestService_GetCart_DoesNotCreate(t *testing.T) {
	svc, carts, _ := newTestService()
	user := uuid.New()

	c, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, user, c.UserID)
	assert.Empty(t, carts.carts)
}

func TestService_Clear(t *testing.T) {
	svc, carts, products := newTestService()
	p := products.add("Desk", 300)
	user := uuid.New()

	require.NoError(t, svc.Clear(context.Background(), user))
	assert.Empty(t, carts.carts)

	_, err := svc.AddItem(context.Background(), user, p.ID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), user))
	assert.True(t, carts.carts[user].IsEmpty())
	assert.True(t, carts.carts[user].Total.IsZero())

	carts.saveErr = errors.New("connection reset")
	_, err = svc.AddItem(context.Background(), user, p.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
