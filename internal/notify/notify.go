package notify

import (
	"context"
	"time"
)

// Event is the wire form of a notification. The API server and the sweeper
// publish these; the notifier mode turns them into email.
type Event struct {
	Kind       string    `json:"kind"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier is the fire-and-forget notification collaborator. Callers catch
// the returned error and fold it into a status string; a failed
// notification never aborts the business operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}
