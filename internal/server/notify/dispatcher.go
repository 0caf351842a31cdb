package notify

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

// Dispatcher is a Notifier backed by a bounded queue drained by a single
// goroutine. When the queue is full, or after Close, messages are dropped
// with a warning.
type Dispatcher struct {
	sender Sender
	logger logging.Logger
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(sender Sender, size int, logger logging.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		sender: sender,
		logger: logger.With("module", "notify"),
		queue:  make(chan Message, size),
	}
}

// Start launches the delivery goroutine. Delivery uses ctx, so cancelling it
// aborts in-flight sends; queued messages are still drained until Close.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for msg := range d.queue {
			if err := d.sender.Send(ctx, msg); err != nil {
				d.logger.Error(ctx, "notification failed", "kind", msg.Kind, "error", err)
			}
		}
	}()
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn(ctx, "notification dropped, dispatcher closed", "kind", msg.Kind)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn(ctx, "notification dropped, queue full", "kind", msg.Kind)
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
