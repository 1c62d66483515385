package events

import (
	"time"

	"propmgmt/domain/opportunity"
)

// OpportunityCreatedEvent represents a newly persisted opportunity
type OpportunityCreatedEvent struct {
	Opportunity *opportunity.Opportunity
	CreatedBy   string
	Timestamp   time.Time
}

// OpportunityStateChangedEvent represents a change of workflow state during an update
type OpportunityStateChangedEvent struct {
	Opportunity *opportunity.Opportunity
	From        opportunity.State
	To          opportunity.State
	ChangedBy   string
	Timestamp   time.Time
}

// OpportunityDeletedEvent represents a removed opportunity
type OpportunityDeletedEvent struct {
	OpportunityID string
	DeletedBy     string
	Timestamp     time.Time
}
