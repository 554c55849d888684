package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/constants"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// Pusher delivers an event to a user's live connections, if any
type Pusher interface {
	PushToUser(userID uuid.UUID, event string, data interface{})
}

// UseCase records notifications and manages read state
type UseCase interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, kind string, data interface{}) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationUC struct {
	repo   Repository
	pusher Pusher
}

// NewUseCase creates the notification use case
func NewUseCase(repo Repository, pusher Pusher) UseCase {
	return &notificationUC{repo: repo, pusher: pusher}
}

// Notify persists a notification, then pushes it to the owner's live
// connections. Persistence is the source of truth: a failed push only logs,
// a failed insert fails the whole call and nothing is pushed.
func (uc *notificationUC) Notify(ctx context.Context, userID uuid.UUID, title, message, kind string, data interface{}) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		n.Data = raw
	}

	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	uc.pusher.PushToUser(userID, pushEvent(kind), n)

	logger.Debug("Notification dispatched",
		logger.String("user_id", userID.String()),
		logger.String("kind", kind))
	return n, nil
}

// pushEvent picks the wire event type: price changes get their own event so
// clients can render them differently from general notifications
func pushEvent(kind string) string {
	switch kind {
	case models.NotificationPriceDrop, models.NotificationPriceIncrease:
		return constants.EventPriceAlert
	default:
		return constants.EventNotification
	}
}

func (uc *notificationUC) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	return uc.repo.List(ctx, userID, unreadOnly)
}

func (uc *notificationUC) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return uc.repo.UnreadCount(ctx, userID)
}

func (uc *notificationUC) MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	return uc.repo.MarkRead(ctx, id, userID)
}

func (uc *notificationUC) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}
