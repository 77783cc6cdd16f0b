package billing

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
)

type BillHandler struct {
	service BillServiceInterface
}

func NewBillHandler(s BillServiceInterface) *BillHandler {
	return &BillHandler{service: s}
}

func (h *BillHandler) Register(g *echo.Group) {
	g.GET("", h.List, auth.Require(auth.ActionBillView))
	g.GET("/:id", h.Get, auth.Require(auth.ActionBillView))
	g.GET("/:id/pdf", h.ExportPDF, auth.Require(auth.ActionBillView))
	g.POST("/generate", h.Generate, auth.Require(auth.ActionBillGenerate))
	g.POST("/:id/pay", h.Pay, auth.Require(auth.ActionBillPay))
	g.POST("/:id/recalculate", h.Recalculate, auth.Require(auth.ActionBillRecalc))
}

func (h *BillHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	out, err := h.service.List(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"bills": out, "total": len(out)})
}

func (h *BillHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return mapBillError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BillHandler) Generate(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var req struct {
		OrderID int `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	b, err := h.service.Generate(c.Request().Context(), req.OrderID, claims.StaffID())
	if err != nil {
		return mapBillError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BillHandler) Pay(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	res, err := h.service.Pay(c.Request().Context(), pathID(c), claims.StaffID())
	if err != nil {
		return mapBillError(err)
	}
	if res.AlreadyPaid {
		return c.JSON(http.StatusOK, map[string]any{"message": "bill already paid", "bill": res.Bill})
	}
	return c.JSON(http.StatusOK, res.Bill)
}

func (h *BillHandler) Recalculate(c echo.Context) error {
	b, err := h.service.Recalculate(c.Request().Context(), pathID(c))
	if err != nil {
		return mapBillError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BillHandler) ExportPDF(c echo.Context) error {
	doc, filename, err := h.service.ExportPDF(c.Request().Context(), pathID(c))
	if err != nil {
		return mapBillError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

func mapBillError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOrderNotBillable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func pathID(c echo.Context) int {
	id, _ := strconv.Atoi(c.Param("id"))
	return id
}
