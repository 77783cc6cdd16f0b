package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tableside/internal/common/mq"
)

// Publisher fans notification events out over RabbitMQ.
type Publisher struct {
	client *mq.Client
	kind   string
}

func NewPublisher(client *mq.Client, kind string) *Publisher {
	return &Publisher{client: client, kind: kind}
}

func (p *Publisher) Notify(ctx context.Context, recipient, subject, body string) error {
	event := Event{
		Kind:       p.kind,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.client.PublishPersistent(pubCtx, mq.NotificationsExchange, "", b); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
