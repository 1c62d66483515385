package application

import (
	"context"
	"fmt"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
)

// NotificationService reads notifications addressed to a caller.
type NotificationService struct {
	repo contracts.NotificationRepository
}

// NewNotificationService creates a notification service.
func NewNotificationService(repo contracts.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ForCaller returns the notifications sent to the caller.
func (s *NotificationService) ForCaller(ctx context.Context, caller access.Caller) ([]contracts.Notification, error) {
	if caller.UserPrincipalName == "" {
		return nil, fmt.Errorf("caller principal: %w", contracts.ErrInvalidArgument)
	}
	notifications, err := s.repo.GetForUser(ctx, caller.UserPrincipalName)
	if err != nil {
		return nil, contracts.WrapResponse("list notifications", err)
	}
	return notifications, nil
}
