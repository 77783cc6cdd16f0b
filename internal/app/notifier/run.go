// Package notifier runs the email delivery worker: it drains the
// notification queue and hands each event to SMTP.
package notifier

import (
	"context"

	"tableside/internal/common/config"
	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/notify"
)

func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("notifier")

	rmq, err := mq.Dial(cfg.RabbitURL())
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	sub := notify.NewSubscriber(rmq, notify.NewMailer(cfg.Notifications), lg)
	return sub.Run(ctx)
}
