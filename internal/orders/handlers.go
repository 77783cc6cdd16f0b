package orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
	"tableside/internal/domain"
)

type orderResponse struct {
	domain.Order
	Total string `json:"total"`
}

func toResponse(o domain.Order) orderResponse {
	return orderResponse{Order: o, Total: o.Total().StringFixed(2)}
}

type OrderHandler struct {
	service OrderServiceInterface
}

func NewOrderHandler(s OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) Register(g *echo.Group) {
	g.GET("", h.List, auth.Require(auth.ActionOrderView))
	g.GET("/:id", h.Get, auth.Require(auth.ActionOrderView))
	g.POST("", h.Create, auth.Require(auth.ActionOrderCreate))
	g.POST("/:id/status", h.Advance, auth.Require(auth.ActionOrderUpdate))
	g.POST("/:id/items", h.AddItem, auth.Require(auth.ActionOrderUpdate))
	g.PUT("/:id/items/:item_id", h.UpdateItem, auth.Require(auth.ActionOrderUpdate))
}

// isWaiter reports whether the caller only sees their own orders.
func isWaiter(c echo.Context) (int, bool) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return 0, false
	}
	return claims.StaffID(), claims.Role == string(domain.RoleWaiter)
}

func (h *OrderHandler) List(c echo.Context) error {
	f := OrderFilter{Status: c.QueryParam("status")}
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	f.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if staffID, waiter := isWaiter(c); waiter {
		f.WaiterID = staffID
	}
	out, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp := make([]orderResponse, 0, len(out))
	for _, o := range out {
		resp = append(resp, toResponse(o))
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": resp, "total": len(resp)})
}

func (h *OrderHandler) Get(c echo.Context) error {
	o, err := h.service.Get(c.Request().Context(), pathID(c, "id"))
	if err != nil {
		return mapOrderError(err)
	}
	if staffID, waiter := isWaiter(c); waiter && o.WaiterID != staffID {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, toResponse(o))
}

func (h *OrderHandler) Create(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.service.Create(c.Request().Context(), claims.StaffID(), req)
	if err != nil {
		return mapOrderError(err)
	}
	return c.JSON(http.StatusCreated, toResponse(o))
}

func (h *OrderHandler) Advance(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.service.Advance(c.Request().Context(), pathID(c, "id"), req.Status)
	if err != nil {
		return mapOrderError(err)
	}
	return c.JSON(http.StatusOK, toResponse(o))
}

func (h *OrderHandler) AddItem(c echo.Context) error {
	var req CreateOrderItem
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.service.AddItem(c.Request().Context(), pathID(c, "id"), req)
	if err != nil {
		return mapOrderError(err)
	}
	return c.JSON(http.StatusOK, toResponse(o))
}

func (h *OrderHandler) UpdateItem(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.service.UpdateItemQuantity(c.Request().Context(), pathID(c, "id"), pathID(c, "item_id"), req.Quantity)
	if err != nil {
		return mapOrderError(err)
	}
	return c.JSON(http.StatusOK, toResponse(o))
}

func mapOrderError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound), errors.Is(err, ErrTableNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTableHasOpenOrder),
		errors.Is(err, domain.ErrOrderStatusBackwards),
		errors.Is(err, domain.ErrOrderItemsLocked):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func pathID(c echo.Context, name string) int {
	id, _ := strconv.Atoi(c.Param(name))
	return id
}
