package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderInKitchen OrderStatus = "IN_KITCHEN"
	OrderServed    OrderStatus = "SERVED"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPlaced:    0,
	OrderInKitchen: 1,
	OrderServed:    2,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := orderStatusRank[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

type OrderItem struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"order_id"`
	MenuItemID   int             `json:"menu_item_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

// Subtotal is derived on demand, never stored.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID        int         `json:"id"`
	TableID   int         `json:"table_id"`
	WaiterID  int         `json:"waiter_id"`
	Status    OrderStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

var (
	ErrOrderStatusBackwards = errors.New("order status can only move forward")
	ErrOrderItemsLocked     = errors.New("order items are locked once the order is served")
)

// Advance moves the order status forward. Skipping ahead is allowed,
// moving back or standing still is not.
func (o *Order) Advance(to OrderStatus) error {
	toRank, ok := orderStatusRank[to]
	if !ok {
		return fmt.Errorf("unknown order status %q", to)
	}
	if toRank <= orderStatusRank[o.Status] {
		return ErrOrderStatusBackwards
	}
	o.Status = to
	return nil
}

// ItemsLocked reports whether the item list may still change. Once an order
// is SERVED its items are frozen so the bill cannot drift from what was
// brought to the table.
func (o *Order) ItemsLocked() bool {
	return o.Status == OrderServed
}

// Total sums quantity x snapshot price over current items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
