package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/constants"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

type fakeNotificationRepo struct {
	created   []*models.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) List(_ context.Context, _ uuid.UUID, _ bool) ([]models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, _ uuid.UUID) (int, error) {
	return len(r.created), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(r.created)), nil
}

type fakePusher struct {
	pushes []struct {
		UserID uuid.UUID
		Event  string
	}
}

func (p *fakePusher) PushToUser(userID uuid.UUID, event string, _ interface{}) {
	p.pushes = append(p.pushes, struct {
		UserID uuid.UUID
		Event  string
	}{userID, event})
}

func TestNotifyPersistsThenPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{}
	uc := NewUseCase(repo, pusher)
	userID := uuid.New()

	n, err := uc.Notify(context.Background(), userID, "Price Dropped!", "down 20%",
		models.NotificationPriceDrop, map[string]interface{}{"old_price": 5000})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, n.ID, repo.created[0].ID)
	assert.False(t, n.IsRead)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, float64(5000), data["old_price"])

	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, userID, pusher.pushes[0].UserID)
	assert.Equal(t, constants.EventPriceAlert, pusher.pushes[0].Event)
}

func TestNotifyUsesNotificationEventForGeneralKinds(t *testing.T) {
	pusher := &fakePusher{}
	uc := NewUseCase(&fakeNotificationRepo{}, pusher)

	_, err := uc.Notify(context.Background(), uuid.New(), "Trip Reminder", "starts tomorrow",
		models.NotificationTripReminder, nil)
	require.NoError(t, err)
	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, constants.EventNotification, pusher.pushes[0].Event)
}

func TestNotifyDoesNotPushWhenPersistFails(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("db down")}
	pusher := &fakePusher{}
	uc := NewUseCase(repo, pusher)

	_, err := uc.Notify(context.Background(), uuid.New(), "t", "m", models.NotificationInfo, nil)
	require.Error(t, err)
	assert.Empty(t, pusher.pushes)
}

func TestNotifyRejectsUnmarshalableData(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewUseCase(repo, &fakePusher{})

	_, err := uc.Notify(context.Background(), uuid.New(), "t", "m", models.NotificationInfo, make(chan int))
	require.Error(t, err)
	assert.Empty(t, repo.created)
}
