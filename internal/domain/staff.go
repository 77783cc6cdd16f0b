package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleWaiter  Role = "WAITER"
	RoleCashier Role = "CASHIER"
	RoleManager Role = "MANAGER"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleWaiter:
		return RoleWaiter, nil
	case RoleCashier:
		return RoleCashier, nil
	case RoleManager:
		return RoleManager, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type Staff struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	EmployeeID   string    `json:"employee_id"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
