package events

import (
	"context"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Kind identifies a mutation event.
type Kind string

const (
	ProductSaved    Kind = "product.saved"
	ProductDeleted  Kind = "product.deleted"
	CategorySaved   Kind = "category.saved"
	CategoryDeleted Kind = "category.deleted"
	ReviewSaved     Kind = "review.saved"
	ReviewDeleted   Kind = "review.deleted"
	UserCreated     Kind = "user.created"
	UserDeleted     Kind = "user.deleted"
)

// Event carries the identifiers the handlers need. Delete events must be
// populated from the row's relations BEFORE the delete runs, since the
// related rows are gone afterwards.
type Event struct {
	Kind Kind

	ProductID  uuid.UUID
	CategoryID uuid.UUID
	ParentID   *uuid.UUID
	TagIDs     []uuid.UUID
	ReviewID   uuid.UUID
	UserID     uuid.UUID
}

// Handler reacts to a dispatched event. Handler errors are logged by the
// dispatcher and never propagated to the mutation that raised the event.
type Handler func(ctx context.Context, e Event) error

// Dispatcher fans mutation events out to registered handlers, synchronously
// and in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	logger   *gecho.Logger
}

func NewDispatcher(logger *gecho.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Register subscribes a handler to an event kind. Registration normally
// happens once at startup; it is safe under concurrent Dispatch calls.
func (d *Dispatcher) Register(kind Kind, handler Handler) {
	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], handler)
	d.mu.Unlock()
}

// Dispatch runs every handler registered for the event's kind. A failing
// handler does not stop the remaining handlers and never fails the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	d.mu.RLock()
	handlers := d.handlers[e.Kind]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			d.logger.Error("Event handler failed",
				gecho.Field("event", string(e.Kind)),
				gecho.Field("error", err),
			)
		}
	}
}
