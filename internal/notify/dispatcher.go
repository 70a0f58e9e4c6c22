// Package notify delivers emails and push notifications off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

const sendTimeout = 15 * time.Second

type task struct {
	email *model.EmailMessage
	push  *model.PushMessage
}

var _ model.NotificationQueue = (*Dispatcher)(nil)

// Dispatcher decouples notification delivery from request handling. Enqueued
// messages are delivered by a background worker; a full queue drops the
// message with an error log rather than blocking the caller.
type Dispatcher struct {
	email  model.EmailSender
	push   model.PushSender
	logger *logger.Logger
	tasks  chan task
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a Dispatcher with the given queue capacity and starts
// its worker.
func NewDispatcher(email model.EmailSender, push model.PushSender, logger *logger.Logger, capacity int) *Dispatcher {
	d := &Dispatcher{
		email:  email,
		push:   push,
		logger: logger,
		tasks:  make(chan task, capacity),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// EnqueueEmail submits an email for background delivery. Never blocks.
func (d *Dispatcher) EnqueueEmail(msg model.EmailMessage) {
	d.enqueue(task{email: &msg})
}

// EnqueuePush submits a push notification for background delivery. Never blocks.
func (d *Dispatcher) EnqueuePush(msg model.PushMessage) {
	d.enqueue(task{push: &msg})
}

func (d *Dispatcher) enqueue(t task) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Error("notify: dispatcher closed, dropping notification")
		return
	}

	select {
	case d.tasks <- t:
	default:
		d.logger.Error("notify: queue full, dropping notification")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for t := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		d.deliver(ctx, t)
		cancel()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, t task) {
	switch {
	case t.email != nil:
		if err := d.email.SendEmail(ctx, *t.email); err != nil {
			d.logger.Error("notify: failed to send email",
				"to", t.email.To,
				"subject", t.email.Subject,
				"error", err.Error())
			return
		}
		d.logger.Debug("notify: email sent", "to", t.email.To)
	case t.push != nil:
		if err := d.push.SendPush(ctx, *t.push); err != nil {
			d.logger.Error("notify: failed to send push notification",
				"error", err.Error())
			return
		}
		d.logger.Debug("notify: push notification sent")
	}
}

// Close stops accepting new messages and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
