// Package seed loads demo data: staff accounts, the floor plan, the menu
// and a couple of in-flight orders. Safe to run repeatedly.
package seed

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tableside/internal/accounts"
	"tableside/internal/auth"
	"tableside/internal/common/config"
	"tableside/internal/common/db"
	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/menu"
	"tableside/internal/orders"
	"tableside/internal/tables"
)

type staffSeed struct {
	username   string
	password   string
	fullName   string
	role       domain.Role
	employeeID string
	phone      string
}

var staffSeeds = []staffSeed{
	{"manager", "manager123", "John Manager", domain.RoleManager, "M001", "+1234567890"},
	{"waiter1", "waiter123", "Alice Johnson", domain.RoleWaiter, "W001", "+1234567891"},
	{"waiter2", "waiter123", "Bob Smith", domain.RoleWaiter, "W002", "+1234567892"},
	{"cashier", "cashier123", "Carol Davis", domain.RoleCashier, "C001", "+1234567893"},
}

var tableSeeds = []struct {
	number   string
	capacity int
}{
	{"T1", 2}, {"T2", 2}, {"T3", 4}, {"T4", 4}, {"T5", 4},
	{"T6", 6}, {"T7", 6}, {"T8", 8}, {"T9", 8}, {"T10", 10},
}

var menuSeeds = []struct {
	name        string
	category    domain.Category
	price       string
	description string
}{
	{"Garlic Bread", domain.CategoryStarter, "4.99", "Crispy bread with garlic butter"},
	{"Spring Rolls", domain.CategoryStarter, "5.99", "Crispy vegetable spring rolls"},
	{"Caesar Salad", domain.CategoryStarter, "6.99", "Fresh romaine with caesar dressing"},
	{"Soup of the Day", domain.CategoryStarter, "4.49", "Chef's special soup"},
	{"Margherita Pizza", domain.CategoryMain, "12.99", "Classic tomato and mozzarella"},
	{"Pepperoni Pizza", domain.CategoryMain, "14.99", "Loaded with pepperoni"},
	{"Pasta Carbonara", domain.CategoryMain, "13.99", "Creamy bacon pasta"},
	{"Grilled Chicken", domain.CategoryMain, "15.99", "Herb-marinated grilled chicken"},
	{"Fish and Chips", domain.CategoryMain, "14.49", "Crispy battered fish"},
	{"Beef Burger", domain.CategoryMain, "11.99", "Juicy beef patty with cheese"},
	{"Vegetable Stir Fry", domain.CategoryMain, "10.99", "Mixed veggies in sauce"},
	{"Steak", domain.CategoryMain, "24.99", "Premium ribeye steak"},
	{"Coca Cola", domain.CategoryDrinks, "2.99", "Chilled soft drink"},
	{"Fresh Orange Juice", domain.CategoryDrinks, "3.99", "Freshly squeezed"},
	{"Iced Tea", domain.CategoryDrinks, "2.49", "Lemon iced tea"},
	{"Coffee", domain.CategoryDrinks, "2.99", "Freshly brewed"},
	{"Mineral Water", domain.CategoryDrinks, "1.99", "Still or sparkling"},
	{"Chocolate Cake", domain.CategoryDessert, "5.99", "Rich chocolate layer cake"},
	{"Ice Cream Sundae", domain.CategoryDessert, "4.99", "Three scoops with toppings"},
	{"Tiramisu", domain.CategoryDessert, "6.49", "Italian coffee dessert"},
	{"Apple Pie", domain.CategoryDessert, "5.49", "Warm apple pie with ice cream"},
}

func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("seed")

	conn, err := db.Connect(ctx, cfg.DatabaseURL(), lg)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(ctx, "migrations", lg); err != nil {
		return err
	}

	staffRepo := accounts.NewStaffRepository(conn)
	tableRepo := tables.NewTableRepository(conn)
	menuRepo := menu.NewMenuRepository(conn)
	orderRepo := orders.NewOrderRepository(conn)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	accountService := accounts.NewAccountService(staffRepo, tokens, lg)

	staffByUsername := map[string]domain.Staff{}
	for _, s := range staffSeeds {
		st, err := accountService.Register(ctx, domain.Staff{
			Username:   s.username,
			FullName:   s.fullName,
			Role:       s.role,
			EmployeeID: s.employeeID,
			Phone:      s.phone,
		}, s.password)
		if err != nil {
			return err
		}
		staffByUsername[s.username] = st
	}
	lg.Info("staff_seeded", map[string]any{"count": len(staffSeeds)})

	tableByNumber := map[string]domain.Table{}
	existing, err := tableRepo.List(ctx, "")
	if err != nil {
		return err
	}
	for _, t := range existing {
		tableByNumber[t.Number] = t
	}
	for _, seed := range tableSeeds {
		if _, ok := tableByNumber[seed.number]; ok {
			continue
		}
		t, err := tableRepo.Create(ctx, domain.Table{Number: seed.number, Capacity: seed.capacity})
		if err != nil {
			return err
		}
		tableByNumber[seed.number] = t
	}
	lg.Info("tables_seeded", map[string]any{"count": len(tableByNumber)})

	menuByName := map[string]domain.MenuItem{}
	items, err := menuRepo.List(ctx, menu.ListFilter{})
	if err != nil {
		return err
	}
	for _, m := range items {
		menuByName[m.Name] = m
	}
	for _, seed := range menuSeeds {
		if _, ok := menuByName[seed.name]; ok {
			continue
		}
		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			return err
		}
		m, err := menuRepo.Create(ctx, domain.MenuItem{
			Name:        seed.name,
			Category:    seed.category,
			Price:       price,
			Description: seed.description,
			Available:   true,
		})
		if err != nil {
			return err
		}
		menuByName[seed.name] = m
	}
	lg.Info("menu_seeded", map[string]any{"count": len(menuByName)})

	if err := seedOrders(ctx, orderRepo, staffByUsername, tableByNumber, menuByName, lg); err != nil {
		return err
	}

	lg.Info("seed_complete", map[string]any{
		"credentials": "manager/manager123 waiter1/waiter123 waiter2/waiter123 cashier/cashier123",
	})
	return nil
}

func seedOrders(ctx context.Context, orderRepo orders.OrderRepositoryInterface,
	staff map[string]domain.Staff, tbl map[string]domain.Table,
	items map[string]domain.MenuItem, lg *logger.Logger) error {

	line := func(name string, qty int) domain.OrderItem {
		m := items[name]
		return domain.OrderItem{MenuItemID: m.ID, Quantity: qty, PriceAtOrder: m.Price}
	}

	samples := []struct {
		order   domain.Order
		advance domain.OrderStatus
	}{
		{advance: domain.OrderInKitchen, order: domain.Order{
			TableID:  tbl["T3"].ID,
			WaiterID: staff["waiter1"].ID,
			Notes:    "Customer allergic to nuts",
			Items: []domain.OrderItem{
				line("Margherita Pizza", 2),
				line("Caesar Salad", 1),
				line("Coca Cola", 2),
			},
		}},
		{order: domain.Order{
			TableID:  tbl["T6"].ID,
			WaiterID: staff["waiter2"].ID,
			Items: []domain.OrderItem{
				line("Steak", 1),
				line("Beef Burger", 2),
				line("Fresh Orange Juice", 3),
			},
		}},
	}

	for _, s := range samples {
		created, err := orderRepo.CreateOrderTx(ctx, s.order)
		if err != nil {
			// the table is already seated on a rerun
			if errors.Is(err, orders.ErrTableHasOpenOrder) {
				continue
			}
			return err
		}
		if s.advance != "" {
			if err := orderRepo.SetStatus(ctx, created.ID, s.advance); err != nil {
				return err
			}
		}
		lg.Info("sample_order_seeded", map[string]any{"order_id": created.ID, "table_id": created.TableID})
	}
	return nil
}
