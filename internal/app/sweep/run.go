// Package sweep runs the scheduled housekeeping process.
package sweep

import (
	"context"

	"tableside/internal/billing"
	"tableside/internal/common/config"
	"tableside/internal/common/db"
	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/notify"
	"tableside/internal/sweeper"
	"tableside/internal/tables"
)

func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("sweeper")

	conn, err := db.Connect(ctx, cfg.DatabaseURL(), lg)
	if err != nil {
		return err
	}
	defer conn.Close()

	rmq, err := mq.Dial(cfg.RabbitURL())
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	s := sweeper.New(
		tables.NewTableRepository(conn),
		billing.NewBillRepository(conn),
		notify.NewPublisher(rmq, "pending_bill_alert"),
		cfg, lg,
	)
	return s.Run(ctx)
}
