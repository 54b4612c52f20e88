// Package notify delivers user-facing email. Delivery is fire-and-forget:
// callers enqueue on a Dispatcher and never see send failures.
package notify

import (
	"context"

	"github.com/learnhub/elearning-api/internal/logging"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Notifier sends one message synchronously.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer accepts a message for background delivery. It must not block.
type Enqueuer interface {
	Enqueue(msg Message) bool
}

// LogNotifier stands in for SMTP when no relay is configured. Bodies are not
// logged since they may carry reset links.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.Info(ctx, "email not sent, no smtp relay configured",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
