package tables

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
	"tableside/internal/domain"
)

type TableHandler struct {
	service TableServiceInterface
}

func NewTableHandler(s TableServiceInterface) *TableHandler {
	return &TableHandler{service: s}
}

func (h *TableHandler) Register(g *echo.Group) {
	g.GET("", h.List, auth.Require(auth.ActionTableView))
	g.GET("/:id", h.Get, auth.Require(auth.ActionTableView))
	g.POST("", h.Create, auth.Require(auth.ActionTableManage))
	g.PUT("/:id", h.Update, auth.Require(auth.ActionTableManage))
	g.POST("/:id/close", h.Close, auth.Require(auth.ActionTableManage))
	g.POST("/:id/reopen", h.Reopen, auth.Require(auth.ActionTableManage))
	g.DELETE("/:id", h.Delete, auth.Require(auth.ActionTableManage))
}

func (h *TableHandler) List(c echo.Context) error {
	out, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"tables": out, "total": len(out)})
}

func (h *TableHandler) Get(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHandler) Create(c echo.Context) error {
	var req CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	t, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TableHandler) Update(c echo.Context) error {
	var req CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	t, err := h.service.Update(c.Request().Context(), pathID(c), req)
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHandler) Close(c echo.Context) error {
	t, err := h.service.Close(c.Request().Context(), pathID(c))
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHandler) Reopen(c echo.Context) error {
	t, err := h.service.Reopen(c.Request().Context(), pathID(c))
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), pathID(c)); err != nil {
		return mapTableError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapTableError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	case errors.Is(err, domain.ErrTableInUse), errors.Is(err, domain.ErrTableNotClosed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func pathID(c echo.Context) int {
	id, _ := strconv.Atoi(c.Param("id"))
	return id
}
