package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
)

// ListNotificationRepository stores user notifications
type ListNotificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates a notification repository on the given list
func NewNotificationRepository(store contracts.ListStore, list string) *ListNotificationRepository {
	return &ListNotificationRepository{BaseRepository: NewBaseRepository(store, list, "notification_repository")}
}

// Create persists a new notification
func (r *ListNotificationRepository) Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error) {
	if n == nil || n.SentTo == "" {
		return nil, fmt.Errorf("notification recipient: %w", contracts.ErrInvalidArgument)
	}
	rec := NotificationRecord{
		Title:         n.Title,
		Message:       n.Message,
		OpportunityID: n.OpportunityID,
		SentTo:        n.SentTo,
		SentFrom:      n.SentFrom,
		IsRead:        n.IsRead,
	}
	item, err := r.store.CreateListItem(ctx, r.list, rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create notification for %s: %w", n.SentTo, err)
	}
	created := *n
	created.ID = item.ID
	return &created, nil
}

// GetForUser loads the notifications sent to a user
func (r *ListNotificationRepository) GetForUser(ctx context.Context, userPrincipalName string) ([]contracts.Notification, error) {
	if userPrincipalName == "" {
		return nil, fmt.Errorf("notification recipient: %w", contracts.ErrInvalidArgument)
	}
	items, err := r.store.GetListItems(ctx, r.list, &contracts.Filter{Field: "SentTo", Value: userPrincipalName})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", userPrincipalName, err)
	}
	out := make([]contracts.Notification, 0, len(items))
	for _, item := range items {
		out = append(out, contracts.Notification{
			ID:            item.ID,
			Title:         item.String("Title"),
			Message:       item.String("Message"),
			OpportunityID: item.String("OpportunityId"),
			SentTo:        item.String("SentTo"),
			SentFrom:      item.String("SentFrom"),
			IsRead:        item.Bool("IsRead"),
		})
	}
	return out, nil
}
