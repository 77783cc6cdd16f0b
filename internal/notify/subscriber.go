package notify

import (
	"context"
	"encoding/json"

	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
)

// Subscriber consumes notification events and hands them to the mailer.
// Malformed messages are dead-lettered; send failures are logged and the
// message acknowledged, since every operation here is attempt-once.
type Subscriber struct {
	client *mq.Client
	mailer Notifier
	lg     *logger.Logger
}

func NewSubscriber(client *mq.Client, mailer Notifier, lg *logger.Logger) *Subscriber {
	return &Subscriber{client: client, mailer: mailer, lg: lg}
}

func (s *Subscriber) Run(ctx context.Context) error {
	deliveries, err := s.client.Consume(mq.NotificationsQueue, "notifier", 1)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal(d.Body, &event); err != nil {
				s.lg.Error("notification_malformed", err, map[string]any{"message_id": d.MessageId})
				_ = d.Nack(false, false)
				continue
			}
			if err := s.mailer.Notify(ctx, event.Recipient, event.Subject, event.Body); err != nil {
				s.lg.Error("notification_send_failed", err, map[string]any{"kind": event.Kind, "recipient": event.Recipient})
			} else {
				s.lg.Info("notification_sent", map[string]any{"kind": event.Kind, "recipient": event.Recipient})
			}
			_ = d.Ack(false)
		}
	}
}
