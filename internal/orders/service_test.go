package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/menu"
)

type fakeOrderRepo struct {
	orders map[int]domain.Order
	billed map[int]bool
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]domain.Order{}, billed: map[int]bool{}, nextID: 1}
}

func (f *fakeOrderRepo) CreateOrderTx(_ context.Context, o domain.Order) (domain.Order, error) {
	o.ID = f.nextID
	f.nextID++
	o.Status = domain.OrderPlaced
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].ID = i + 1
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if filter.WaiterID != 0 && o.WaiterID != filter.WaiterID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, id int, status domain.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return nil
}

func (f *fakeOrderRepo) AddItem(_ context.Context, item domain.OrderItem) (domain.OrderItem, error) {
	o := f.orders[item.OrderID]
	item.ID = len(o.Items) + 1
	o.Items = append(o.Items, item)
	f.orders[item.OrderID] = o
	return item, nil
}

func (f *fakeOrderRepo) UpdateItemQuantity(_ context.Context, orderID, itemID, quantity int) error {
	o, ok := f.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Quantity = quantity
			f.orders[orderID] = o
			return nil
		}
	}
	return ErrItemNotFound
}

func (f *fakeOrderRepo) HasBill(_ context.Context, orderID int) (bool, error) {
	return f.billed[orderID], nil
}

func (f *fakeOrderRepo) CountOpen(context.Context) (int, error) { return len(f.orders), nil }

type fakeMenuRepo struct {
	items map[int]domain.MenuItem
}

func (f *fakeMenuRepo) GetByID(_ context.Context, id int) (domain.MenuItem, error) {
	m, ok := f.items[id]
	if !ok {
		return domain.MenuItem{}, menu.ErrNotFound
	}
	return m, nil
}

func (f *fakeMenuRepo) Create(_ context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	return m, nil
}
func (f *fakeMenuRepo) List(context.Context, menu.ListFilter) ([]domain.MenuItem, error) {
	return nil, nil
}
func (f *fakeMenuRepo) Update(context.Context, domain.MenuItem) error       { return nil }
func (f *fakeMenuRepo) SetAvailability(context.Context, int, bool) error    { return nil }
func (f *fakeMenuRepo) Delete(context.Context, int) error                   { return nil }

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, _, subject, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(repo *fakeOrderRepo, notifier *fakeNotifier) OrderServiceInterface {
	menuRepo := &fakeMenuRepo{items: map[int]domain.MenuItem{
		1: {ID: 1, Name: "Pizza", Category: domain.CategoryMain, Price: price("12.99"), Available: true},
		2: {ID: 2, Name: "Coke", Category: domain.CategoryDrinks, Price: price("2.99"), Available: true},
		3: {ID: 3, Name: "Tiramisu", Category: domain.CategoryDessert, Price: price("6.50"), Available: false},
	}}
	return NewOrderService(repo, menuRepo, notifier, "kitchen@restaurant.local", logger.New("test"))
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	o, err := svc.Create(context.Background(), 5, CreateOrderRequest{
		TableID: 3,
		Items: []CreateOrderItem{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPlaced, o.Status)
	assert.Equal(t, 5, o.WaiterID)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].PriceAtOrder.Equal(price("12.99")))
	assert.Equal(t, "31.96", o.Total().StringFixed(2))
	assert.Len(t, notifier.sent, 1, "kitchen should be notified once")
}

func TestCreateOrderRejections(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), &fakeNotifier{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateOrderRequest
	}{
		{name: "missing table", req: CreateOrderRequest{Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 1}}}},
		{name: "zero quantity", req: CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 0}}}},
		{name: "unknown menu item", req: CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 99, Quantity: 1}}}},
		{name: "unavailable menu item", req: CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 3, Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 5, tc.req); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCreateOrderSurvivesNotifierFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestService(repo, &fakeNotifier{err: errors.New("smtp down")})

	_, err := svc.Create(context.Background(), 5, CreateOrderRequest{
		TableID: 1,
		Items:   []CreateOrderItem{{MenuItemID: 1, Quantity: 1}},
	})
	assert.NoError(t, err, "a failed notification must not abort order creation")
}

func TestAdvanceForwardOnly(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	o, err := svc.Create(ctx, 5, CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 1}}})
	require.NoError(t, err)

	o, err = svc.Advance(ctx, o.ID, "IN_KITCHEN")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderInKitchen, o.Status)

	o, err = svc.Advance(ctx, o.ID, "SERVED")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderServed, o.Status)

	_, err = svc.Advance(ctx, o.ID, "PLACED")
	assert.ErrorIs(t, err, domain.ErrOrderStatusBackwards)
}

func TestItemEditsLocked(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	o, err := svc.Create(ctx, 5, CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 1}}})
	require.NoError(t, err)

	// while placed, edits are fine
	o2, err := svc.AddItem(ctx, o.ID, CreateOrderItem{MenuItemID: 2, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, o2.Items, 2)
	_, err = svc.UpdateItemQuantity(ctx, o.ID, o2.Items[0].ID, 3)
	require.NoError(t, err)

	// once served, the item list is frozen
	_, err = svc.Advance(ctx, o.ID, "SERVED")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, o.ID, CreateOrderItem{MenuItemID: 2, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrOrderItemsLocked)
	_, err = svc.UpdateItemQuantity(ctx, o.ID, 1, 5)
	assert.ErrorIs(t, err, domain.ErrOrderItemsLocked)
}

func TestItemEditsLockedByBill(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	o, err := svc.Create(ctx, 5, CreateOrderRequest{TableID: 1, Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 1}}})
	require.NoError(t, err)
	repo.billed[o.ID] = true

	_, err = svc.AddItem(ctx, o.ID, CreateOrderItem{MenuItemID: 2, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrOrderItemsLocked)
}
