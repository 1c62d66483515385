package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"propmgmt/domain/contracts"
	"propmgmt/domain/events"
	"propmgmt/domain/opportunity"
)

// MockNotificationWriter for testing NotificationEventHandlers
type MockNotificationWriter struct {
	mock.Mock
}

func (m *MockNotificationWriter) Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Notification), args.Error(1)
}

func TestNotificationEventHandlers_HandleStateChanged_NotifiesEachMember(t *testing.T) {
	// Arrange
	writer := &MockNotificationWriter{}
	handlers := NewNotificationEventHandlers(writer)
	opp := createTestOpportunity("7", opportunity.StateAccepted)

	writer.On("Create", mock.Anything, mock.MatchedBy(func(n *contracts.Notification) bool {
		return n.OpportunityID == "7" && n.SentFrom == "admin@contoso.com"
	})).Return(&contracts.Notification{ID: "n"}, nil)

	// Act
	handlers.handleStateChanged(events.OpportunityStateChangedEvent{
		Opportunity: opp,
		From:        opportunity.StateInProgress,
		To:          opportunity.StateAccepted,
		ChangedBy:   "admin@contoso.com",
		Timestamp:   time.Now(),
	})

	// Assert
	writer.AssertNumberOfCalls(t, "Create", 2)
	writer.AssertExpectations(t)
}

func TestNotificationEventHandlers_WriteFailure_ContinuesWithRemainingMembers(t *testing.T) {
	writer := &MockNotificationWriter{}
	handlers := NewNotificationEventHandlers(writer)
	opp := createTestOpportunity("8", opportunity.StateCreating)

	writer.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("list unavailable"))

	assert.NotPanics(t, func() {
		handlers.handleOpportunityCreated(events.OpportunityCreatedEvent{Opportunity: opp, CreatedBy: "lee@contoso.com"})
	})
	writer.AssertNumberOfCalls(t, "Create", 2)
}

func TestNotificationEventHandlers_EndToEndThroughBus(t *testing.T) {
	writer := &MockNotificationWriter{}
	bus := NewOpportunityEventBus()
	NewNotificationEventHandlers(writer).RegisterHandlers(bus)

	done := make(chan struct{}, 2)
	writer.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { done <- struct{}{} }).
		Return(&contracts.Notification{}, nil)

	bus.PublishStateChanged(events.OpportunityStateChangedEvent{
		Opportunity: createTestOpportunity("9", opportunity.StateArchived),
		From:        opportunity.StateInProgress,
		To:          opportunity.StateArchived,
	})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
			t.Fatal("notification was not written")
		}
	}
}

func TestNotificationEventHandlers_NilOpportunity_Ignored(t *testing.T) {
	writer := &MockNotificationWriter{}
	handlers := NewNotificationEventHandlers(writer)

	handlers.handleStateChanged(events.OpportunityStateChangedEvent{})
	writer.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
