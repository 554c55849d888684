package alerts

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

func TestCreateAlertValidation(t *testing.T) {
	uc := NewUseCase(newFakeRepo(), &fakeNotifier{})
	userID := uuid.New()

	tests := []struct {
		name string
		req  models.CreateAlertRequest
	}{
		{
			name: "unsupported kind",
			req: models.CreateAlertRequest{
				Kind:         "cruise",
				SearchParams: json.RawMessage(`{}`),
				InitialPrice: 100,
			},
		},
		{
			name: "non-positive price",
			req: models.CreateAlertRequest{
				Kind:         models.AlertKindFlight,
				SearchParams: json.RawMessage(`{}`),
				InitialPrice: 0,
			},
		},
		{
			name: "missing search params",
			req: models.CreateAlertRequest{
				Kind:         models.AlertKindFlight,
				InitialPrice: 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateAlert(context.Background(), userID, &tt.req)
			assert.Error(t, err)
		})
	}
}

func TestCreateAlertConfirms(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	uc := NewUseCase(repo, notifier)
	userID := uuid.New()

	alert, err := uc.CreateAlert(context.Background(), userID, &models.CreateAlertRequest{
		Kind:         models.AlertKindHotel,
		SearchParams: json.RawMessage(`{"city":"Bali"}`),
		InitialPrice: 750,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, alert.ID)

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotificationInfo, sent[0].Kind)
	assert.Equal(t, "Price Alert Created", sent[0].Title)
}

func TestCancelAlert(t *testing.T) {
	alert := testAlert(models.AlertKindFlight, 1000)
	repo := newFakeRepo(alert)
	uc := NewUseCase(repo, &fakeNotifier{})

	require.NoError(t, uc.CancelAlert(context.Background(), alert.UserID, alert.ID))

	// A cancelled alert no longer lists and cannot be cancelled twice.
	alerts, err := uc.GetAlerts(context.Background(), alert.UserID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.ErrorIs(t, uc.CancelAlert(context.Background(), alert.UserID, alert.ID), ErrAlertNotFound)
}
