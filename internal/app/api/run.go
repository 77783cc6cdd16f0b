// Package api assembles the HTTP service: router, repositories, services
// and the notification publisher, run until shutdown.
package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"tableside/internal/accounts"
	"tableside/internal/auth"
	"tableside/internal/billing"
	"tableside/internal/common/config"
	"tableside/internal/common/db"
	"tableside/internal/common/httpx"
	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/dashboard"
	"tableside/internal/menu"
	"tableside/internal/notify"
	"tableside/internal/orders"
	"tableside/internal/tables"
)

func Run(ctx context.Context, cfg config.App, port int) error {
	lg := logger.New("api")

	conn, err := db.Connect(ctx, cfg.DatabaseURL(), lg)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(ctx, "migrations", lg); err != nil {
		return err
	}

	rmq, err := mq.Dial(cfg.RabbitURL())
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	taxPct, err := decimal.NewFromString(cfg.Billing.TaxPercentage)
	if err != nil {
		return fmt.Errorf("parse billing.tax_percentage: %w", err)
	}

	staffRepo := accounts.NewStaffRepository(conn)
	tableRepo := tables.NewTableRepository(conn)
	menuRepo := menu.NewMenuRepository(conn)
	orderRepo := orders.NewOrderRepository(conn)
	billRepo := billing.NewBillRepository(conn)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	kitchenNotifier := notify.NewPublisher(rmq, "kitchen_order")

	accountService := accounts.NewAccountService(staffRepo, tokens, lg)
	tableService := tables.NewTableService(tableRepo, lg)
	menuService := menu.NewMenuService(menuRepo, lg)
	orderService := orders.NewOrderService(orderRepo, menuRepo, kitchenNotifier, cfg.Notifications.KitchenEmail, lg)
	billService := billing.NewBillService(billRepo, orderRepo, staffRepo, taxPct, lg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	public := e.Group("/auth")
	protected := e.Group("", auth.Middleware(tokens))

	accounts.NewAccountHandler(accountService).Register(public, protected.Group("/auth"))
	tables.NewTableHandler(tableService).Register(protected.Group("/tables"))
	menu.NewMenuHandler(menuService).Register(protected.Group("/menu"))
	orders.NewOrderHandler(orderService).Register(protected.Group("/orders"))
	billing.NewBillHandler(billService).Register(protected.Group("/bills"))
	dashboard.NewHandler(tableRepo, orderRepo, billRepo).Register(protected.Group("/dashboard"))

	srv := httpx.New(fmt.Sprintf(":%d", port), e)
	lg.Info("http_listening", map[string]any{"port": port})
	return srv.Run(ctx)
}
