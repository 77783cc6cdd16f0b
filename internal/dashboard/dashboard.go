// Package dashboard serves the front-of-house summary view: table states at
// a glance plus the open order and pending bill counts.
package dashboard

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
	"tableside/internal/domain"
)

type TableCounter interface {
	CountByStatus(ctx context.Context) (map[domain.TableStatus]int, error)
}

type OrderCounter interface {
	CountOpen(ctx context.Context) (int, error)
}

type BillCounter interface {
	CountPending(ctx context.Context) (int, error)
}

type Summary struct {
	Tables       map[string]int `json:"tables"`
	OpenOrders   int            `json:"open_orders"`
	PendingBills int            `json:"pending_bills"`
}

type Handler struct {
	tables TableCounter
	orders OrderCounter
	bills  BillCounter
}

func NewHandler(tables TableCounter, orders OrderCounter, bills BillCounter) *Handler {
	return &Handler{tables: tables, orders: orders, bills: bills}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/summary", h.Summary, auth.Require(auth.ActionDashboardView))
}

func (h *Handler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	byStatus, err := h.tables.CountByStatus(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "summary unavailable")
	}
	openOrders, err := h.orders.CountOpen(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "summary unavailable")
	}
	pendingBills, err := h.bills.CountPending(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "summary unavailable")
	}

	tables := make(map[string]int, 4)
	for _, st := range []domain.TableStatus{
		domain.TableAvailable, domain.TableOccupied, domain.TableBillRequested, domain.TableClosed,
	} {
		tables[string(st)] = byStatus[st]
	}
	return c.JSON(http.StatusOK, Summary{
		Tables:       tables,
		OpenOrders:   openOrders,
		PendingBills: pendingBills,
	})
}
