package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/events"
	"propmgmt/domain/opportunity"
)

func createTestOpportunity(id string, state opportunity.State) *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:          id,
		DisplayName: "Opportunity " + id,
		Metadata:    opportunity.Metadata{OpportunityState: state},
		Content: opportunity.Content{TeamMembers: []opportunity.TeamMember{
			{DisplayName: "Lee", Fields: opportunity.TeamMemberFields{UserPrincipalName: "lee@contoso.com"}},
			{DisplayName: "Sam", Fields: opportunity.TeamMemberFields{UserPrincipalName: "sam@contoso.com"}},
		}},
	}
}

func TestOpportunityEventBus_PublishStateChanged_Success(t *testing.T) {
	// Arrange
	eventBus := NewOpportunityEventBus()
	opp := createTestOpportunity("1", opportunity.StateArchived)

	done := make(chan events.OpportunityStateChangedEvent, 1)
	eventBus.OnStateChanged(func(event events.OpportunityStateChangedEvent) {
		done <- event
	})

	// Act
	eventBus.PublishStateChanged(events.OpportunityStateChangedEvent{
		Opportunity: opp,
		From:        opportunity.StateInProgress,
		To:          opportunity.StateArchived,
		Timestamp:   time.Now(),
	})

	// Assert
	select {
	case received := <-done:
		assert.Equal(t, "1", received.Opportunity.ID)
		assert.Equal(t, opportunity.StateInProgress, received.From)
		assert.Equal(t, opportunity.StateArchived, received.To)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestOpportunityEventBus_PublishCreatedAndDeleted_Success(t *testing.T) {
	eventBus := NewOpportunityEventBus()

	created := make(chan string, 1)
	deleted := make(chan string, 1)
	eventBus.OnOpportunityCreated(func(e events.OpportunityCreatedEvent) { created <- e.Opportunity.ID })
	eventBus.OnOpportunityDeleted(func(e events.OpportunityDeletedEvent) { deleted <- e.OpportunityID })

	eventBus.PublishOpportunityCreated(events.OpportunityCreatedEvent{Opportunity: createTestOpportunity("2", opportunity.StateCreating)})
	eventBus.PublishOpportunityDeleted(events.OpportunityDeletedEvent{OpportunityID: "3"})

	for _, tc := range []struct {
		ch   chan string
		want string
	}{{created, "2"}, {deleted, "3"}} {
		select {
		case got := <-tc.ch:
			assert.Equal(t, tc.want, got)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("Handler was not called within timeout")
		}
	}
}

func TestOpportunityEventBus_NoHandlers_DoesNotPanic(t *testing.T) {
	eventBus := NewOpportunityEventBus()

	require.NotPanics(t, func() {
		eventBus.PublishStateChanged(events.OpportunityStateChangedEvent{Timestamp: time.Now()})
	})
}

func TestOpportunityEventBus_HandlerPanic_OtherHandlersStillRun(t *testing.T) {
	// Arrange
	eventBus := NewOpportunityEventBus()
	done := make(chan struct{}, 1)

	eventBus.OnStateChanged(func(events.OpportunityStateChangedEvent) { panic("boom") })
	eventBus.OnStateChanged(func(events.OpportunityStateChangedEvent) { done <- struct{}{} })

	// Act
	eventBus.PublishStateChanged(events.OpportunityStateChangedEvent{Opportunity: createTestOpportunity("4", opportunity.StateInProgress)})

	// Assert
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Second handler was not called after first panicked")
	}
}

func TestOpportunityEventBus_ConcurrentPublishing_ThreadSafe(t *testing.T) {
	eventBus := NewOpportunityEventBus()

	var mu sync.Mutex
	received := 0
	var handled sync.WaitGroup

	const total = 50
	handled.Add(total)
	eventBus.OnOpportunityDeleted(func(events.OpportunityDeletedEvent) {
		mu.Lock()
		received++
		mu.Unlock()
		handled.Done()
	})

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eventBus.PublishOpportunityDeleted(events.OpportunityDeletedEvent{OpportunityID: "x"})
		}()
	}
	wg.Wait()

	finished := make(chan struct{})
	go func() {
		handled.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		mu.Lock()
		assert.Equal(t, total, received)
		mu.Unlock()
	case <-time.After(time.Second):
		t.Fatal("Not all events were handled")
	}
}
