package auth

import "tableside/internal/domain"

// Action names a mutating or privileged operation. The single policy table
// below replaces scattered per-handler role checks: every gated route
// consults it through Require.
type Action string

const (
	ActionTableView      Action = "table:view"
	ActionTableManage    Action = "table:manage"
	ActionMenuView       Action = "menu:view"
	ActionMenuManage     Action = "menu:manage"
	ActionOrderView      Action = "order:view"
	ActionOrderCreate    Action = "order:create"
	ActionOrderUpdate    Action = "order:update"
	ActionBillView       Action = "bill:view"
	ActionBillGenerate   Action = "bill:generate"
	ActionBillPay        Action = "bill:pay"
	ActionBillRecalc     Action = "bill:recalculate"
	ActionDashboardView  Action = "dashboard:view"
	ActionStaffManage    Action = "staff:manage"
)

var anyStaff = []domain.Role{domain.RoleWaiter, domain.RoleCashier, domain.RoleManager}

var policy = map[Action][]domain.Role{
	ActionTableView:     anyStaff,
	ActionTableManage:   {domain.RoleManager},
	ActionMenuView:      anyStaff,
	ActionMenuManage:    {domain.RoleManager},
	ActionOrderView:     anyStaff,
	ActionOrderCreate:   {domain.RoleWaiter, domain.RoleManager},
	ActionOrderUpdate:   {domain.RoleWaiter, domain.RoleManager},
	ActionBillView:      {domain.RoleCashier, domain.RoleManager},
	ActionBillGenerate:  {domain.RoleCashier, domain.RoleManager},
	ActionBillPay:       {domain.RoleCashier, domain.RoleManager},
	ActionBillRecalc:    {domain.RoleManager},
	ActionDashboardView: anyStaff,
	ActionStaffManage:   {domain.RoleManager},
}

// Allowed reports whether role may perform action. Unknown actions are
// denied.
func Allowed(role domain.Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}
