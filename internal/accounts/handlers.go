package accounts

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tableside/internal/auth"
	"tableside/internal/domain"
)

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(s AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: s}
}

// Register mounts the auth routes. Login stays outside the token
// middleware; profile and staff registration sit behind it.
func (h *AccountHandler) Register(public, protected *echo.Group) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
	protected.POST("/staff", h.CreateStaff, auth.Require(auth.ActionStaffManage))
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	res, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AccountHandler) Me(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	st, err := h.service.Profile(c.Request().Context(), claims.StaffID())
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "staff member not found")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AccountHandler) CreateStaff(c echo.Context) error {
	var req struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		FullName   string `json:"full_name"`
		Role       string `json:"role"`
		EmployeeID string `json:"employee_id"`
		Phone      string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	st, err := h.service.Register(c.Request().Context(), domain.Staff{
		Username:   req.Username,
		FullName:   req.FullName,
		Role:       domain.Role(req.Role),
		EmployeeID: req.EmployeeID,
		Phone:      req.Phone,
	}, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, st)
}
