// Package events provides event handling functionality
package events

import (
	"context"
	"sync"
	"time"

	"github.com/motorepair/admin/internal/db/models"
	"github.com/motorepair/admin/internal/logger"
)

// EventType represents the type of repair job event
type EventType string

const (
	// EventRepairJobCreated is emitted when a job is opened
	EventRepairJobCreated EventType = "repair_job_created"
	// EventRepairJobStatusChanged is emitted when a job moves to another status, cancellation included
	EventRepairJobStatusChanged EventType = "repair_job_status_changed"
	// EventRepairJobDeleted is emitted when a job is removed
	EventRepairJobDeleted EventType = "repair_job_deleted"
	// EventChannelSize is the default buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a repair job event
type Event struct {
	Type         EventType              // The type of event
	JobID        string                 // The repair job ID
	MotorcycleID string                 // The motorcycle being repaired
	From         models.RepairJobStatus // Status before the change, empty on creation
	To           models.RepairJobStatus // Status after the change, empty on deletion
	At           time.Time              // When the change happened
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

// Bus dispatches published events to the handlers subscribed to their type.
// A nil *Bus drops every event.
type Bus struct {
	handlers   map[EventType][]Handler
	handlersMu sync.RWMutex
	eventChan  chan Event

	// stateMu guards started and stopped; Publish holds it shared while sending
	stateMu  sync.RWMutex
	started  bool
	stopped  bool
	loopDone chan struct{}
	inFlight sync.WaitGroup
}

// NewBus creates a bus buffering up to size undelivered events
func NewBus(size int) *Bus {
	if size <= 0 {
		size = EventChannelSize
	}
	return &Bus{
		handlers:  make(map[EventType][]Handler),
		eventChan: make(chan Event, size),
		loopDone:  make(chan struct{}),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish queues an event for processing. Publishing never blocks: when the buffer
// is full or the bus is stopped the event is dropped and a warning is logged.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	if b.stopped {
		logger.WarnWithFields("event bus stopped, dropping event", map[string]interface{}{
			"type":   event.Type,
			"job_id": event.JobID,
		})
		return
	}
	select {
	case b.eventChan <- event:
		logger.Debugf("Published event: %s (Job: %s)", event.Type, event.JobID)
	default:
		logger.WarnWithFields("event buffer full, dropping event", map[string]interface{}{
			"type":   event.Type,
			"job_id": event.JobID,
		})
	}
}

// Start starts the event processing loop; it stops when ctx is done or the bus
// is stopped. Only the first call has an effect.
func (b *Bus) Start(ctx context.Context) {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	if b.started || b.stopped {
		return
	}
	b.started = true
	go b.processEvents(ctx)
	logger.Debug("Started event processing loop")
}

// Stop refuses new events, delivers the ones already buffered and waits for every
// running handler to return. It is safe to call more than once.
func (b *Bus) Stop() {
	if b == nil {
		return
	}
	b.stateMu.Lock()
	alreadyStopped := b.stopped
	started := b.started
	if !alreadyStopped {
		b.stopped = true
		close(b.eventChan)
	}
	b.stateMu.Unlock()

	if started {
		<-b.loopDone
	}
	// The loop exits early when its context is cancelled; whatever it left
	// behind is delivered here.
	for event := range b.eventChan {
		b.dispatch(context.Background(), event)
	}
	b.inFlight.Wait()
	if !alreadyStopped {
		logger.Debug("Stopped event bus")
	}
}

// processEvents handles events in the background
func (b *Bus) processEvents(ctx context.Context) {
	defer close(b.loopDone)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Stopping event processing loop")
			return
		case event, ok := <-b.eventChan:
			if !ok {
				logger.Debug("Event channel closed, stopping event processing loop")
				return
			}
			b.dispatch(ctx, event)
		}
	}
}

// dispatch runs every handler of the event type in its own goroutine
func (b *Bus) dispatch(ctx context.Context, event Event) {
	b.handlersMu.RLock()
	eventHandlers := b.handlers[event.Type]
	b.handlersMu.RUnlock()

	for _, handler := range eventHandlers {
		b.inFlight.Add(1)
		go func(h Handler, e Event) {
			defer b.inFlight.Done()
			if err := h(ctx, e); err != nil {
				logger.Errorf("Failed to handle event %s for job %s: %v", e.Type, e.JobID, err)
			}
		}(handler, event)
	}
}

// LogHandler writes every event to the application log, giving an audit trail of
// job changes
func LogHandler(_ context.Context, event Event) error {
	logger.InfoWithFields("repair job event", map[string]interface{}{
		"type":          event.Type,
		"job_id":        event.JobID,
		"motorcycle_id": event.MotorcycleID,
		"from":          event.From,
		"to":            event.To,
		"at":            event.At,
	})
	return nil
}
