package events

import (
	"sync"

	"propmgmt/domain/events"
	"propmgmt/logging"
)

// OpportunityEventBus provides type-safe event publishing and subscription for opportunity events
type OpportunityEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	createdHandlers      []func(events.OpportunityCreatedEvent)
	stateChangedHandlers []func(events.OpportunityStateChangedEvent)
	deletedHandlers      []func(events.OpportunityDeletedEvent)
}

// NewOpportunityEventBus creates a new typed opportunity event bus
func NewOpportunityEventBus() *OpportunityEventBus {
	return &OpportunityEventBus{
		logger:               logging.Default().WithComponent("opportunity_event_bus"),
		createdHandlers:      make([]func(events.OpportunityCreatedEvent), 0),
		stateChangedHandlers: make([]func(events.OpportunityStateChangedEvent), 0),
		deletedHandlers:      make([]func(events.OpportunityDeletedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *OpportunityEventBus) OnOpportunityCreated(handler func(events.OpportunityCreatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.createdHandlers = append(bus.createdHandlers, handler)
}

func (bus *OpportunityEventBus) OnStateChanged(handler func(events.OpportunityStateChangedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.stateChangedHandlers = append(bus.stateChangedHandlers, handler)
}

func (bus *OpportunityEventBus) OnOpportunityDeleted(handler func(events.OpportunityDeletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.deletedHandlers = append(bus.deletedHandlers, handler)
}

// Publish methods for each event type

func (bus *OpportunityEventBus) PublishOpportunityCreated(event events.OpportunityCreatedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OpportunityCreatedEvent), len(bus.createdHandlers))
	copy(handlers, bus.createdHandlers)
	bus.mu.RUnlock()

	// Execute handlers asynchronously to avoid blocking the workflow
	for _, handler := range handlers {
		go func(h func(events.OpportunityCreatedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in OpportunityCreated",
						"opportunity_id", opportunityID(event.Opportunity),
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *OpportunityEventBus) PublishStateChanged(event events.OpportunityStateChangedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OpportunityStateChangedEvent), len(bus.stateChangedHandlers))
	copy(handlers, bus.stateChangedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.OpportunityStateChangedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in StateChanged",
						"opportunity_id", opportunityID(event.Opportunity),
						"from", event.From,
						"to", event.To,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *OpportunityEventBus) PublishOpportunityDeleted(event events.OpportunityDeletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OpportunityDeletedEvent), len(bus.deletedHandlers))
	copy(handlers, bus.deletedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.OpportunityDeletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in OpportunityDeleted",
						"opportunity_id", event.OpportunityID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
