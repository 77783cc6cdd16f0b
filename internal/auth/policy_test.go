package auth

import (
	"testing"

	"tableside/internal/domain"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name   string
		role   domain.Role
		action Action
		want   bool
	}{
		{name: "waiter creates order", role: domain.RoleWaiter, action: ActionOrderCreate, want: true},
		{name: "waiter cannot generate bill", role: domain.RoleWaiter, action: ActionBillGenerate, want: false},
		{name: "cashier pays bill", role: domain.RoleCashier, action: ActionBillPay, want: true},
		{name: "cashier cannot create order", role: domain.RoleCashier, action: ActionOrderCreate, want: false},
		{name: "cashier cannot recalculate", role: domain.RoleCashier, action: ActionBillRecalc, want: false},
		{name: "manager recalculates", role: domain.RoleManager, action: ActionBillRecalc, want: true},
		{name: "manager manages menu", role: domain.RoleManager, action: ActionMenuManage, want: true},
		{name: "everyone sees dashboard", role: domain.RoleWaiter, action: ActionDashboardView, want: true},
		{name: "unknown action denied", role: domain.RoleManager, action: Action("bogus"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.role, tc.action); got != tc.want {
				t.Errorf("Allowed(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
			}
		})
	}
}
