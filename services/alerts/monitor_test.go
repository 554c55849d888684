package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

type fakeRepo struct {
	mu      sync.Mutex
	alerts  []models.PriceAlert
	listErr error
	updates map[uuid.UUID]float64
}

func newFakeRepo(alerts ...models.PriceAlert) *fakeRepo {
	return &fakeRepo{alerts: alerts, updates: make(map[uuid.UUID]float64)}
}

func (r *fakeRepo) CreateAlert(_ context.Context, alert *models.PriceAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.IsActive = true
	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *fakeRepo) GetAlert(_ context.Context, id uuid.UUID) (*models.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			a := r.alerts[i]
			return &a, nil
		}
	}
	return nil, ErrAlertNotFound
}

func (r *fakeRepo) ListActive(_ context.Context, userID uuid.UUID) ([]models.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.PriceAlert
	for _, a := range r.alerts {
		if !a.IsActive {
			continue
		}
		if userID != uuid.Nil && a.UserID != userID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeRepo) UpdatePrice(_ context.Context, id uuid.UUID, newPrice float64) (*models.PriceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID != id {
			continue
		}
		old := r.alerts[i].CurrentPrice
		r.alerts[i].CurrentPrice = newPrice
		r.updates[id] = newPrice
		change := &models.PriceChange{
			AlertID:      id,
			UserID:       r.alerts[i].UserID,
			Kind:         r.alerts[i].Kind,
			SearchParams: r.alerts[i].SearchParams,
			OldPrice:     old,
			NewPrice:     newPrice,
			Delta:        newPrice - old,
		}
		if old != 0 {
			change.PercentChange = math.Round(change.Delta/old*10000) / 100
		}
		return change, nil
	}
	return nil, ErrAlertNotFound
}

func (r *fakeRepo) Deactivate(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].UserID == userID && r.alerts[i].IsActive {
			r.alerts[i].IsActive = false
			return true, nil
		}
	}
	return false, nil
}

type sentNotification struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Kind    string
	Data    interface{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, title, message, kind string, data interface{}) (*models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.sent = append(n.sent, sentNotification{UserID: userID, Title: title, Message: message, Kind: kind, Data: data})
	return &models.Notification{ID: uuid.New(), UserID: userID, Kind: kind}, nil
}

func (n *fakeNotifier) notifications() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

type fakeFetcher struct {
	price float64
	err   error
	calls int
}

func (f *fakeFetcher) Snapshot(_ context.Context, _ json.RawMessage) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func testConfig() models.AlertsConfig {
	return models.AlertsConfig{IntervalSeconds: 300, BackoffSeconds: 60, ChangeThreshold: 5}
}

func testAlert(kind models.AlertKind, price float64) models.PriceAlert {
	return models.PriceAlert{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Kind:         kind,
		SearchParams: json.RawMessage(`{"origin":"DEL","destination":"BOM"}`),
		InitialPrice: price,
		CurrentPrice: price,
		IsActive:     true,
	}
}

func TestTickNotifiesOnDropAtThreshold(t *testing.T) {
	repo := newFakeRepo(testAlert(models.AlertKindFlight, 5000))
	notifier := &fakeNotifier{}
	fetchers := map[models.AlertKind]Fetcher{
		models.AlertKindFlight: &fakeFetcher{price: 4000},
	}
	m := NewMonitor(repo, notifier, fetchers, testConfig())

	require.NoError(t, m.tick(context.Background()))

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotificationPriceDrop, sent[0].Kind)
	assert.Equal(t, repo.alerts[0].UserID, sent[0].UserID)
	assert.Contains(t, sent[0].Message, "20.0%")

	data, ok := sent[0].Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5000), data["old_price"])
	assert.Equal(t, float64(4000), data["new_price"])
	assert.Equal(t, float64(-20), data["change_percent"])
}

func TestTickNotifiesOnIncrease(t *testing.T) {
	repo := newFakeRepo(testAlert(models.AlertKindHotel, 1000))
	notifier := &fakeNotifier{}
	fetchers := map[models.AlertKind]Fetcher{
		models.AlertKindHotel: &fakeFetcher{price: 1050},
	}
	m := NewMonitor(repo, notifier, fetchers, testConfig())

	require.NoError(t, m.tick(context.Background()))

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotificationPriceIncrease, sent[0].Kind)
}

func TestTickIgnoresChangeBelowThreshold(t *testing.T) {
	alert := testAlert(models.AlertKindFlight, 1000)
	repo := newFakeRepo(alert)
	notifier := &fakeNotifier{}
	fetchers := map[models.AlertKind]Fetcher{
		models.AlertKindFlight: &fakeFetcher{price: 1049},
	}
	m := NewMonitor(repo, notifier, fetchers, testConfig())

	require.NoError(t, m.tick(context.Background()))

	// Price is recorded even when the change is not worth a notification.
	assert.Empty(t, notifier.notifications())
	assert.Equal(t, float64(1049), repo.updates[alert.ID])
}

func TestTickSkipsInactiveAlerts(t *testing.T) {
	alert := testAlert(models.AlertKindFlight, 1000)
	alert.IsActive = false
	repo := newFakeRepo(alert)
	notifier := &fakeNotifier{}
	fetcher := &fakeFetcher{price: 500}
	m := NewMonitor(repo, notifier, map[models.AlertKind]Fetcher{models.AlertKindFlight: fetcher}, testConfig())

	require.NoError(t, m.tick(context.Background()))

	assert.Zero(t, fetcher.calls)
	assert.Empty(t, notifier.notifications())
}

func TestTickIsolatesFetchFailures(t *testing.T) {
	broken := testAlert(models.AlertKindFlight, 1000)
	healthy := testAlert(models.AlertKindHotel, 2000)
	repo := newFakeRepo(broken, healthy)
	notifier := &fakeNotifier{}
	fetchers := map[models.AlertKind]Fetcher{
		models.AlertKindFlight: &fakeFetcher{err: errors.New("provider down")},
		models.AlertKindHotel:  &fakeFetcher{price: 1000},
	}
	m := NewMonitor(repo, notifier, fetchers, testConfig())

	require.NoError(t, m.tick(context.Background()))

	// The broken alert keeps its old price; the healthy one is still checked.
	_, updated := repo.updates[broken.ID]
	assert.False(t, updated)
	assert.Equal(t, float64(1000), repo.updates[healthy.ID])
	require.Len(t, notifier.notifications(), 1)
}

func TestTickSkipsUnknownKind(t *testing.T) {
	alert := testAlert(models.AlertKind("cruise"), 1000)
	repo := newFakeRepo(alert)
	notifier := &fakeNotifier{}
	m := NewMonitor(repo, notifier, map[models.AlertKind]Fetcher{}, testConfig())

	require.NoError(t, m.tick(context.Background()))

	_, updated := repo.updates[alert.ID]
	assert.False(t, updated)
	assert.Empty(t, notifier.notifications())
}

func TestTickReportsListFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("db down")
	m := NewMonitor(repo, &fakeNotifier{}, nil, testConfig())

	err := m.tick(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestStartStopIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	m := NewMonitor(repo, &fakeNotifier{}, nil, testConfig())

	assert.Equal(t, StatusStarted, m.Start())
	assert.True(t, m.Running())
	assert.Equal(t, StatusAlreadyRunning, m.Start())

	assert.Equal(t, StatusStopped, m.Stop())
	assert.False(t, m.Running())
	assert.Equal(t, StatusStopped, m.Stop())

	// A stopped monitor can be started again.
	assert.Equal(t, StatusStarted, m.Start())
	assert.Equal(t, StatusStopped, m.Stop())
}
