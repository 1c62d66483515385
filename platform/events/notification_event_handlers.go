package events

import (
	"context"
	"fmt"
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/domain/events"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
)

const notificationTimeout = 30 * time.Second

// NotificationWriter stores user notifications
type NotificationWriter interface {
	Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error)
}

// NotificationEventHandlers turns opportunity events into team notifications
type NotificationEventHandlers struct {
	writer NotificationWriter
	logger *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications
func NewNotificationEventHandlers(writer NotificationWriter) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		writer: writer,
		logger: logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *OpportunityEventBus) {
	eventBus.OnOpportunityCreated(h.handleOpportunityCreated)
	eventBus.OnStateChanged(h.handleStateChanged)
	eventBus.OnOpportunityDeleted(h.handleOpportunityDeleted)
}

func (h *NotificationEventHandlers) handleOpportunityCreated(event events.OpportunityCreatedEvent) {
	if event.Opportunity == nil {
		return
	}
	h.logger.Workflow("Handling opportunity created event", event.Opportunity.ID)
	h.notifyTeam(event.Opportunity, event.CreatedBy,
		"New opportunity",
		fmt.Sprintf("You have been added to opportunity %s", event.Opportunity.DisplayName))
}

func (h *NotificationEventHandlers) handleStateChanged(event events.OpportunityStateChangedEvent) {
	if event.Opportunity == nil {
		return
	}
	h.logger.Workflow("Handling state changed event", event.Opportunity.ID, "from", event.From, "to", event.To)
	h.notifyTeam(event.Opportunity, event.ChangedBy,
		"Opportunity state changed",
		fmt.Sprintf("Opportunity %s moved from %s to %s", event.Opportunity.DisplayName, event.From, event.To))
}

func (h *NotificationEventHandlers) handleOpportunityDeleted(event events.OpportunityDeletedEvent) {
	h.logger.Workflow("Handling opportunity deleted event", event.OpportunityID, "deleted_by", event.DeletedBy)
}

// notifyTeam writes one notification per team member. Failures are logged only.
func (h *NotificationEventHandlers) notifyTeam(opp *opportunity.Opportunity, from, title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	for _, m := range opp.Content.TeamMembers {
		upn := m.Fields.UserPrincipalName
		if upn == "" {
			continue
		}
		_, err := h.writer.Create(ctx, &contracts.Notification{
			Title:         title,
			Message:       message,
			OpportunityID: opp.ID,
			SentTo:        upn,
			SentFrom:      from,
		})
		if err != nil {
			h.logger.WorkflowError("Failed to write notification", err, opp.ID, "sent_to", upn)
		}
	}
}

func opportunityID(opp *opportunity.Opportunity) string {
	if opp == nil {
		return "unknown"
	}
	return opp.ID
}
