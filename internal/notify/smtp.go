package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/wneessen/go-mail"

	"github.com/learnhub/elearning-api/internal/config"
)

const senderName = "E-Learning Platform"

type SMTPNotifier struct {
	mu     sync.Mutex
	client *mail.Client
	from   string
}

func NewSMTPNotifier(cfg config.EmailConfig) (*SMTPNotifier, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPNotifier{client: client, from: from}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, n.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}
