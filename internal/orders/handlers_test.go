package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
)

type stubOrderService struct {
	listed []domain.Order
}

func (s *stubOrderService) Create(context.Context, int, CreateOrderRequest) (domain.Order, error) {
	return domain.Order{}, nil
}
func (s *stubOrderService) Get(context.Context, int) (domain.Order, error) {
	return domain.Order{}, ErrNotFound
}
func (s *stubOrderService) List(context.Context, OrderFilter) ([]domain.Order, error) {
	return s.listed, nil
}
func (s *stubOrderService) Advance(context.Context, int, string) (domain.Order, error) {
	return domain.Order{}, nil
}
func (s *stubOrderService) AddItem(context.Context, int, CreateOrderItem) (domain.Order, error) {
	return domain.Order{}, nil
}
func (s *stubOrderService) UpdateItemQuantity(context.Context, int, int, int) (domain.Order, error) {
	return domain.Order{}, nil
}

// Listed orders must serialize the same total as a single-order read: the
// sum of their line items, never a placeholder zero.
func TestListSerializesItemTotals(t *testing.T) {
	svc := &stubOrderService{listed: []domain.Order{
		{
			ID: 7, TableID: 3, WaiterID: 2, Status: domain.OrderInKitchen,
			Items: []domain.OrderItem{
				{ID: 1, OrderID: 7, MenuItemID: 1, Name: "Margherita Pizza", Quantity: 2, PriceAtOrder: price("12.99")},
				{ID: 2, OrderID: 7, MenuItemID: 2, Name: "Coca Cola", Quantity: 2, PriceAtOrder: price("2.99")},
			},
		},
		{ID: 8, TableID: 6, WaiterID: 2, Status: domain.OrderPlaced},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewOrderHandler(svc).List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []struct {
			ID    int    `json:"id"`
			Total string `json:"total"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "31.96", resp.Orders[0].Total)
	assert.Equal(t, "0.00", resp.Orders[1].Total)
}
