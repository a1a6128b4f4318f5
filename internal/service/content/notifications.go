package content

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/google/uuid"
)

type NotificationInput struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *ContentService) ListNotifications(ctx context.Context, principal *identity.Principal) ([]domain.Notification, error) {
	return s.repos.Notifications.ListByUser(ctx, principal.UID)
}

func (s *ContentService) CreateNotification(ctx context.Context, input NotificationInput) (*domain.Notification, error) {
	if err := required("userId", input.UserID); err != nil {
		return nil, err
	}
	if err := required("title", input.Title); err != nil {
		return nil, err
	}
	n := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  input.UserID,
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
		Type:    input.Type,
	}
	if n.Type == "" {
		n.Type = "info"
	}
	if err := s.repos.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *ContentService) MarkNotificationRead(ctx context.Context, principal *identity.Principal, id string) error {
	return s.repos.Notifications.MarkRead(ctx, id, principal.UID)
}

func (s *ContentService) MarkAllNotificationsRead(ctx context.Context, principal *identity.Principal) (int64, error) {
	return s.repos.Notifications.MarkAllRead(ctx, principal.UID)
}
