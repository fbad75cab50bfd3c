// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/amqp"
)

// ErrInvalidInput wraps every validation failure returned by a service.
var ErrInvalidInput = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// EventPublisher announces store mutations. *amqp.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.ChangeEvent) error
}

// Clock returns the current instant in the configured reference location.
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// notifier publishes change events without failing the caller: the store
// write has already succeeded by the time an event goes out.
type notifier struct {
	events EventPublisher
	after  []func(*amqp.ChangeEvent)
}

func (n *notifier) notify(ctx context.Context, entity amqp.Entity, action amqp.Action, id string) {
	ev := amqp.NewChangeEvent(entity, action, id)
	for _, fn := range n.after {
		fn(ev)
	}
	if n.events == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping change event", "event", ev.String())
		return
	}
	if err := n.events.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event", "event", ev.String(), "error", err)
	}
}

// OnChange registers fn to run synchronously for every change event, even
// when no publisher is configured.
func (n *notifier) OnChange(fn func(*amqp.ChangeEvent)) {
	n.after = append(n.after, fn)
}
