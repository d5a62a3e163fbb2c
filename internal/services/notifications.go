package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// Notifier tells users they were attached to a key result.
type Notifier interface {
	NotifyAssigned(ctx context.Context, userIDs []uuid.UUID, kr *models.KeyResult)
}

type nopNotifier struct{}

func (nopNotifier) NotifyAssigned(context.Context, []uuid.UUID, *models.KeyResult) {}

type pushSender interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string)
}

// NotificationService keeps the in-app inbox and mirrors new entries as
// push messages.
type NotificationService struct {
	store  store.NotificationStore
	push   pushSender
	logger *zap.Logger
}

var _ Notifier = (*NotificationService)(nil)

func NewNotificationService(st store.NotificationStore, push pushSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: st, push: push, logger: logger.Named("notifications")}
}

// Create stores an inbox entry and sends the push in the background.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, notifType, title, body string, metadata map[string]string) error {
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	var pushData map[string]string
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			m := string(raw)
			n.Metadata = &m
		}
		pushData = make(map[string]string, len(metadata)+1)
		for k, v := range metadata {
			pushData[k] = v
		}
		pushData["type"] = notifType
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if s.push != nil {
		go s.push.SendToUser(context.Background(), userID, title, body, pushData)
	}
	return nil
}

// NotifyAssigned never fails the assignment that triggered it; errors are
// logged.
func (s *NotificationService) NotifyAssigned(ctx context.Context, userIDs []uuid.UUID, kr *models.KeyResult) {
	if kr == nil {
		return
	}
	metadata := map[string]string{
		"keyResultId": kr.ID.String(),
		"objectiveId": kr.ObjectiveID.String(),
	}
	for _, userID := range userIDs {
		err := s.Create(ctx, userID, models.NotificationKeyResultAssigned,
			"New key result", fmt.Sprintf("You were assigned to %q", kr.Title), metadata)
		if err != nil {
			s.logger.Warn("Failed to notify assignee",
				zap.String("user_id", userID.String()),
				zap.String("key_result_id", kr.ID.String()),
				zap.Error(err))
		}
	}
}

// List returns a page of the user's inbox. Out of range paging falls back
// to the first page of 20.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}
	notifications, total, unread, err := s.store.ListNotifications(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &models.NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.MarkNotificationRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
