package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// ErrAlertNotFound is returned when an alert id resolves to no row. Callers
// racing a concurrent cancel treat it as a no-op.
var ErrAlertNotFound = errors.New("price alert not found")

// Repository persists price alerts
type Repository interface {
	CreateAlert(ctx context.Context, alert *models.PriceAlert) error
	GetAlert(ctx context.Context, id uuid.UUID) (*models.PriceAlert, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]models.PriceAlert, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, newPrice float64) (*models.PriceChange, error)
	Deactivate(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type alertRepo struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed alert repository
func NewRepository(db *sqlx.DB) Repository {
	return &alertRepo{db: db}
}

// CreateAlert persists a new active alert with current price set to the
// initial price
func (r *alertRepo) CreateAlert(ctx context.Context, alert *models.PriceAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.CurrentPrice = alert.InitialPrice
	alert.IsActive = true
	alert.CreatedAt = time.Now()

	query := `
		INSERT INTO price_alerts (id, user_id, kind, search_params, initial_price,
			current_price, target_price, is_active, created_at)
		VALUES (:id, :user_id, :kind, :search_params, :initial_price,
			:current_price, :target_price, :is_active, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, alert); err != nil {
		return fmt.Errorf("failed to insert price alert: %w", err)
	}
	return nil
}

// GetAlert retrieves a single alert by id
func (r *alertRepo) GetAlert(ctx context.Context, id uuid.UUID) (*models.PriceAlert, error) {
	query := `
		SELECT id, user_id, kind, search_params, initial_price, current_price,
			target_price, is_active, created_at, last_checked
		FROM price_alerts
		WHERE id = $1
	`

	var alert models.PriceAlert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get price alert: %w", err)
	}
	return &alert, nil
}

// ListActive returns all alerts with active=true, optionally filtered to one
// user (uuid.Nil selects all users)
func (r *alertRepo) ListActive(ctx context.Context, userID uuid.UUID) ([]models.PriceAlert, error) {
	alerts := []models.PriceAlert{}

	if userID == uuid.Nil {
		query := `
			SELECT id, user_id, kind, search_params, initial_price, current_price,
				target_price, is_active, created_at, last_checked
			FROM price_alerts
			WHERE is_active = true
			ORDER BY created_at
		`
		if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
			return nil, fmt.Errorf("failed to list active alerts: %w", err)
		}
		return alerts, nil
	}

	query := `
		SELECT id, user_id, kind, search_params, initial_price, current_price,
			target_price, is_active, created_at, last_checked
		FROM price_alerts
		WHERE is_active = true AND user_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &alerts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	return alerts, nil
}

// UpdatePrice atomically replaces the current price and returns a change
// descriptor computed against the previous value
func (r *alertRepo) UpdatePrice(ctx context.Context, id uuid.UUID, newPrice float64) (*models.PriceChange, error) {
	query := `
		UPDATE price_alerts p
		SET current_price = $2, last_checked = now()
		FROM (SELECT id, current_price AS old_price FROM price_alerts WHERE id = $1 FOR UPDATE) prev
		WHERE p.id = prev.id
		RETURNING prev.old_price, p.user_id, p.kind, p.search_params
	`

	change := &models.PriceChange{AlertID: id, NewPrice: newPrice}
	row := r.db.QueryRowContext(ctx, query, id, newPrice)
	if err := row.Scan(&change.OldPrice, &change.UserID, &change.Kind, &change.SearchParams); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to update alert price: %w", err)
	}

	change.Delta = newPrice - change.OldPrice
	if change.OldPrice != 0 {
		change.PercentChange = math.Round(change.Delta/change.OldPrice*10000) / 100
	}
	return change, nil
}

// Deactivate soft-deletes an alert scoped to its owner; returns false when
// nothing matched so callers cannot distinguish missing from not-owned
func (r *alertRepo) Deactivate(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `UPDATE price_alerts SET is_active = false WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate alert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}
