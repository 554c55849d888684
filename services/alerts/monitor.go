package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// Monitor start/stop outcomes reported to the control endpoints.
const (
	StatusStarted        = "started"
	StatusStopped        = "stopped"
	StatusAlreadyRunning = "already_running"
)

// Fetcher fetches the current best price for a saved search
type Fetcher interface {
	Snapshot(ctx context.Context, params json.RawMessage) (float64, error)
}

// Notifier records a notification and pushes it to the owner when reachable
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, kind string, data interface{}) (*models.Notification, error)
}

// Monitor periodically re-prices every active alert and notifies owners of
// significant changes. One goroutine per monitor; Start and Stop are
// idempotent and safe from any goroutine.
type Monitor struct {
	repo      Repository
	notifier  Notifier
	fetchers  map[models.AlertKind]Fetcher
	interval  time.Duration
	backoff   time.Duration
	threshold float64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a price monitor from the alert configuration
func NewMonitor(repo Repository, notifier Notifier, fetchers map[models.AlertKind]Fetcher, cfg models.AlertsConfig) *Monitor {
	return &Monitor{
		repo:      repo,
		notifier:  notifier,
		fetchers:  fetchers,
		interval:  time.Duration(cfg.IntervalSeconds) * time.Second,
		backoff:   time.Duration(cfg.BackoffSeconds) * time.Second,
		threshold: cfg.ChangeThreshold,
	}
}

// Running reports whether the monitor loop is active
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Start launches the monitor loop. Calling Start on a running monitor is a
// no-op that reports already_running.
func (m *Monitor) Start() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return StatusAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx, m.done)

	logger.Info("Price monitor started",
		logger.Duration("interval", m.interval),
		logger.Float64("threshold_percent", m.threshold))
	return StatusStarted
}

// Stop cancels the monitor loop and waits for it to exit. Stopping an idle
// monitor is a no-op.
func (m *Monitor) Stop() string {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	if cancel == nil {
		return StatusStopped
	}
	cancel()
	<-done

	logger.Info("Price monitor stopped")
	return StatusStopped
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		wait := m.interval
		if err := m.tick(ctx); err != nil {
			// Jitter spreads retries so restarted replicas do not hammer
			// providers in lockstep.
			wait = m.backoff + time.Duration(rand.Int63n(int64(m.backoff/2)+1))
			logger.Error("Price monitor tick failed",
				logger.Err(err),
				logger.Duration("retry_in", wait))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// tick re-prices every active alert once. Per-alert failures are logged and
// skipped; only a failure to enumerate alerts aborts the pass.
func (m *Monitor) tick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in monitor tick: %v", r)
		}
	}()

	alerts, err := m.repo.ListActive(ctx, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to list active alerts: %w", err)
	}

	for i := range alerts {
		if ctx.Err() != nil {
			return nil
		}
		m.checkAlert(ctx, &alerts[i])
	}
	return nil
}

func (m *Monitor) checkAlert(ctx context.Context, alert *models.PriceAlert) {
	fetcher, ok := m.fetchers[alert.Kind]
	if !ok {
		logger.Warn("No fetcher for alert kind, skipping",
			logger.String("alert_id", alert.ID.String()),
			logger.String("kind", string(alert.Kind)))
		return
	}

	price, err := fetcher.Snapshot(ctx, alert.SearchParams)
	if err != nil {
		logger.Warn("Price snapshot failed",
			logger.String("alert_id", alert.ID.String()),
			logger.String("kind", string(alert.Kind)),
			logger.Err(err))
		return
	}

	change, err := m.repo.UpdatePrice(ctx, alert.ID, price)
	if err != nil {
		// A concurrent cancel between listing and updating is benign.
		if err != ErrAlertNotFound {
			logger.Error("Failed to record alert price",
				logger.String("alert_id", alert.ID.String()),
				logger.Err(err))
		}
		return
	}

	if math.Abs(change.PercentChange) < m.threshold {
		return
	}

	kind := models.NotificationPriceDrop
	title := "Price Dropped!"
	verb := "dropped"
	if change.Delta > 0 {
		kind = models.NotificationPriceIncrease
		title = "Price Increased!"
		verb = "increased"
	}
	message := fmt.Sprintf("%s price %s by %.1f%% (%.2f → %.2f)",
		kindLabel(change.Kind), verb, math.Abs(change.PercentChange),
		change.OldPrice, change.NewPrice)

	payload := map[string]interface{}{
		"alert_id":       change.AlertID,
		"old_price":      change.OldPrice,
		"new_price":      change.NewPrice,
		"change_percent": change.PercentChange,
		"search_params":  change.SearchParams,
	}
	if _, err := m.notifier.Notify(ctx, change.UserID, title, message, kind, payload); err != nil {
		logger.Error("Failed to notify price change",
			logger.String("alert_id", change.AlertID.String()),
			logger.Err(err))
	}
}

func kindLabel(kind models.AlertKind) string {
	switch kind {
	case models.AlertKindFlight:
		return "Flight"
	case models.AlertKindHotel:
		return "Hotel"
	default:
		return string(kind)
	}
}
