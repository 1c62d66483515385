package mocks

import (
	"github.com/stretchr/testify/mock"

	"propmgmt/domain/events"
)

// MockOpportunityEventPublisher is a mock implementation of OpportunityEventPublisher for testing
type MockOpportunityEventPublisher struct {
	mock.Mock
}

func (m *MockOpportunityEventPublisher) PublishOpportunityCreated(event events.OpportunityCreatedEvent) {
	m.Called(event)
}

func (m *MockOpportunityEventPublisher) PublishStateChanged(event events.OpportunityStateChangedEvent) {
	m.Called(event)
}

func (m *MockOpportunityEventPublisher) PublishOpportunityDeleted(event events.OpportunityDeletedEvent) {
	m.Called(event)
}
