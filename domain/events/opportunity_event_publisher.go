package events

// OpportunityEventPublisher defines the interface for publishing opportunity events.
type OpportunityEventPublisher interface {
	PublishOpportunityCreated(event OpportunityCreatedEvent)
	PublishStateChanged(event OpportunityStateChangedEvent)
	PublishOpportunityDeleted(event OpportunityDeletedEvent)
}
