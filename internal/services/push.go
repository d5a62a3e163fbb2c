package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/arnold/okrs-api/internal/store"
)

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService sends push notifications via Firebase Cloud Messaging.
type PushService struct {
	client   messageSender
	profiles store.DeviceTokenStore
	logger   *zap.Logger
}

// NewPushService initializes Firebase messaging. With no service account,
// or when Firebase cannot be initialized, it returns a service that only
// records device tokens.
func NewPushService(ctx context.Context, serviceAccountPath string, profiles store.DeviceTokenStore, logger *zap.Logger) *PushService {
	p := &PushService{profiles: profiles, logger: logger.Named("push")}

	if serviceAccountPath == "" {
		p.logger.Info("No FCM service account configured, push notifications disabled")
		return p
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		p.logger.Warn("Failed to initialize Firebase app", zap.Error(err))
		return p
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		p.logger.Warn("Failed to get messaging client", zap.Error(err))
		return p
	}

	p.client = client
	p.logger.Info("Push notifications enabled")
	return p
}

// Enabled is false when no messaging client is configured.
func (p *PushService) Enabled() bool {
	return p.client != nil
}

// RegisterDeviceToken saves the FCM token for a user.
func (p *PushService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return p.profiles.SetFCMToken(ctx, userID, token)
}

// SendToUser is a no-op if push is not configured or the user has no token.
func (p *PushService) SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if p.client == nil {
		return
	}

	token, err := p.profiles.GetFCMToken(ctx, userID)
	if err != nil || token == "" {
		return
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		p.logger.Warn("Failed to send push notification",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
