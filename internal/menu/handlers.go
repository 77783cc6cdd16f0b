package menu

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
)

type MenuHandler struct {
	service MenuServiceInterface
}

func NewMenuHandler(s MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: s}
}

func (h *MenuHandler) Register(g *echo.Group) {
	g.GET("", h.List, auth.Require(auth.ActionMenuView))
	g.GET("/:id", h.Get, auth.Require(auth.ActionMenuView))
	g.POST("", h.Create, auth.Require(auth.ActionMenuManage))
	g.PUT("/:id", h.Update, auth.Require(auth.ActionMenuManage))
	g.POST("/:id/toggle", h.Toggle, auth.Require(auth.ActionMenuManage))
	g.DELETE("/:id", h.Delete, auth.Require(auth.ActionMenuManage))
}

func (h *MenuHandler) List(c echo.Context) error {
	f := ListFilter{
		Category:      c.QueryParam("category"),
		OnlyAvailable: c.QueryParam("available") == "true",
	}
	items, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *MenuHandler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return mapMenuError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MenuHandler) Create(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	m, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return mapMenuError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MenuHandler) Update(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	m, err := h.service.Update(c.Request().Context(), pathID(c), req)
	if err != nil {
		return mapMenuError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MenuHandler) Toggle(c echo.Context) error {
	m, err := h.service.ToggleAvailability(c.Request().Context(), pathID(c))
	if err != nil {
		return mapMenuError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MenuHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), pathID(c)); err != nil {
		return mapMenuError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapMenuError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func pathID(c echo.Context) int {
	id, _ := strconv.Atoi(c.Param("id"))
	return id
}
