package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func item(qty int, price string) OrderItem {
	return OrderItem{Quantity: qty, PriceAtOrder: decimal.RequireFromString(price)}
}

func TestOrderTotal(t *testing.T) {
	cases := []struct {
		name  string
		items []OrderItem
		want  string
	}{
		{name: "empty order", items: nil, want: "0"},
		{name: "single item", items: []OrderItem{item(1, "12.99")}, want: "12.99"},
		{name: "pizza and coke", items: []OrderItem{item(2, "12.99"), item(2, "2.99")}, want: "31.96"},
		{name: "quantity multiplies", items: []OrderItem{item(3, "4.50")}, want: "13.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Order{Items: tc.items}
			if got := o.Total(); !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("Total() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestOrderAdvance(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr error
	}{
		{name: "placed to kitchen", from: OrderPlaced, to: OrderInKitchen},
		{name: "kitchen to served", from: OrderInKitchen, to: OrderServed},
		{name: "placed straight to served", from: OrderPlaced, to: OrderServed},
		{name: "served back to kitchen", from: OrderServed, to: OrderInKitchen, wantErr: ErrOrderStatusBackwards},
		{name: "same status", from: OrderInKitchen, to: OrderInKitchen, wantErr: ErrOrderStatusBackwards},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Order{Status: tc.from}
			err := o.Advance(tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Advance() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && o.Status != tc.to {
				t.Errorf("status = %s, want %s", o.Status, tc.to)
			}
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		o := Order{Status: OrderPlaced}
		if err := o.Advance("CANCELLED"); err == nil {
			t.Error("expected error for unknown status")
		}
	})
}

func TestItemsLocked(t *testing.T) {
	for _, status := range []OrderStatus{OrderPlaced, OrderInKitchen} {
		if (&Order{Status: status}).ItemsLocked() {
			t.Errorf("ItemsLocked() true for %s", status)
		}
	}
	if !(&Order{Status: OrderServed}).ItemsLocked() {
		t.Error("ItemsLocked() false for SERVED")
	}
}
