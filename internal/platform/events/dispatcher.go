// Package events is the in-process domain event dispatcher shared by the
// modules. Publishing is synchronous: handlers run on the publisher's
// goroutine in subscription order.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/R3E-Network/modulith/internal/app/metrics"
	"github.com/R3E-Network/modulith/pkg/domain"
	"github.com/R3E-Network/modulith/pkg/logger"
)

// Handler processes one published event.
type Handler func(ctx context.Context, event domain.Event)

type handlerEntry struct {
	id      int64
	name    string
	handler Handler
}

// Dispatcher fans published events out to subscribers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []handlerEntry
	nextID   int64
	log      *logger.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewDefault("events")
	}
	return &Dispatcher{log: log}
}

// Subscribe registers handler for events named name, or for every event when
// name is empty. The returned function removes the subscription.
func (d *Dispatcher) Subscribe(name string, handler Handler) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.handlers = append(d.handlers, handlerEntry{id: id, name: name, handler: handler})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, h := range d.handlers {
			if h.id == id {
				d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers events in order. A panicking handler is logged and does
// not stop delivery to the others.
func (d *Dispatcher) Publish(ctx context.Context, events domain.Events) {
	if len(events) == 0 {
		return
	}

	d.mu.RLock()
	handlers := make([]handlerEntry, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for _, ev := range events {
		name := ev.EventName()
		metrics.RecordEvent(name)
		d.log.WithContext(ctx).WithField("event", name).Debug("domain event")

		for _, h := range handlers {
			if h.name == "" || h.name == name {
				d.deliver(ctx, h, ev)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, h handlerEntry, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithContext(ctx).WithField("event", ev.EventName()).
				WithError(fmt.Errorf("%v", r)).Error("event handler panicked")
		}
	}()
	h.handler(ctx, ev)
}

// Subscribers returns the number of active subscriptions.
func (d *Dispatcher) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}
