package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/learnhub/elearning-api/internal/logging"
)

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher fans queued messages out to a fixed set of workers. A full
// queue drops the message; there are no retries.
type Dispatcher struct {
	cfg      DispatcherConfig
	notifier Notifier
	logger   logging.Logger
	queue    chan Message
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	closed   bool
}

func NewDispatcher(cfg DispatcherConfig, notifier Notifier, logger logging.Logger) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	return &Dispatcher{
		cfg:      cfg,
		notifier: notifier,
		logger:   logger.With("component", "notify"),
		queue:    make(chan Message, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("dispatcher is stopped")
	}
	if d.running {
		return fmt.Errorf("dispatcher is already running")
	}
	d.running = true

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.work(id)
		}(i + 1)
	}
	d.logger.Info(ctx, "dispatcher started", "workers", d.cfg.Workers, "queue_size", d.cfg.QueueSize)
	return nil
}

// Enqueue hands msg to the workers and reports whether it was accepted.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn(context.Background(), "dispatcher stopped, dropping email", "to", msg.To, "subject", msg.Subject)
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn(context.Background(), "email queue full, dropping email", "to", msg.To, "subject", msg.Subject)
		return false
	}
}

// Stop refuses new messages, lets the workers drain the queue and waits for
// them until ctx expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info(ctx, "dispatcher drained")
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "timed out draining email queue", "pending", len(d.queue))
		return ctx.Err()
	}
}

func (d *Dispatcher) work(id int) {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
		if err := d.notifier.Send(ctx, msg); err != nil {
			d.logger.Error(ctx, "email delivery failed",
				"worker", id,
				"to", msg.To,
				"subject", msg.Subject,
				"error", err,
			)
		}
		cancel()
	}
}
