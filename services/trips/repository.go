package trips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// Lookup errors surfaced as 404s.
var (
	ErrTripNotFound   = errors.New("trip not found")
	ErrBudgetNotFound = errors.New("budget not found")
)

// Repository persists trips, budgets and budget transactions
type Repository interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, id, userID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, status models.TripStatus) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, id, userID uuid.UUID) (bool, error)

	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, id, userID uuid.UUID) (bool, error)
	AddTransaction(ctx context.Context, budgetID uuid.UUID, txn *models.BudgetTransaction) error
	ListTransactions(ctx context.Context, budgetID uuid.UUID) ([]models.BudgetTransaction, error)
}

type tripRepo struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed trip repository
func NewRepository(db *sqlx.DB) Repository {
	return &tripRepo{db: db}
}

func (r *tripRepo) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusPlanned
	}
	if trip.Travelers <= 0 {
		trip.Travelers = 1
	}
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	query := `
		INSERT INTO trips (id, user_id, destination, source, start_date, end_date,
			travelers, status, trip_plan, user_request, rating, created_at, updated_at)
		VALUES (:id, :user_id, :destination, :source, :start_date, :end_date,
			:travelers, :status, :trip_plan, :user_request, :rating, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, trip); err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

func (r *tripRepo) GetTrip(ctx context.Context, id, userID uuid.UUID) (*models.Trip, error) {
	query := `
		SELECT id, user_id, destination, source, start_date, end_date, travelers,
			status, trip_plan, user_request, rating, created_at, updated_at
		FROM trips
		WHERE id = $1 AND user_id = $2
	`

	var trip models.Trip
	if err := r.db.GetContext(ctx, &trip, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// ListTrips returns the user's trips, newest first, optionally filtered by
// status (empty selects all)
func (r *tripRepo) ListTrips(ctx context.Context, userID uuid.UUID, status models.TripStatus) ([]models.Trip, error) {
	trips := []models.Trip{}

	if status != "" {
		query := `
			SELECT id, user_id, destination, source, start_date, end_date, travelers,
				status, trip_plan, user_request, rating, created_at, updated_at
			FROM trips
			WHERE user_id = $1 AND status = $2
			ORDER BY created_at DESC
		`
		if err := r.db.SelectContext(ctx, &trips, query, userID, status); err != nil {
			return nil, fmt.Errorf("failed to list trips: %w", err)
		}
		return trips, nil
	}

	query := `
		SELECT id, user_id, destination, source, start_date, end_date, travelers,
			status, trip_plan, user_request, rating, created_at, updated_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &trips, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

func (r *tripRepo) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now()

	query := `
		UPDATE trips
		SET destination = :destination, source = :source, start_date = :start_date,
			end_date = :end_date, travelers = :travelers, status = :status,
			trip_plan = :trip_plan, rating = :rating, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`
	if _, err := r.db.NamedExecContext(ctx, query, trip); err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (r *tripRepo) DeleteTrip(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete trip: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *tripRepo) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	if budget.Currency == "" {
		budget.Currency = "USD"
	}
	now := time.Now()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	query := `
		INSERT INTO budgets (id, user_id, trip_id, category, planned_amount,
			spent_amount, currency, notes, created_at, updated_at)
		VALUES (:id, :user_id, :trip_id, :category, :planned_amount,
			:spent_amount, :currency, :notes, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, budget); err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

func (r *tripRepo) GetBudget(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error) {
	query := `
		SELECT id, user_id, trip_id, category, planned_amount, spent_amount,
			currency, notes, created_at, updated_at
		FROM budgets
		WHERE id = $1 AND user_id = $2
	`

	var budget models.Budget
	if err := r.db.GetContext(ctx, &budget, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

func (r *tripRepo) ListBudgets(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) ([]models.Budget, error) {
	budgets := []models.Budget{}

	if tripID != nil {
		query := `
			SELECT id, user_id, trip_id, category, planned_amount, spent_amount,
				currency, notes, created_at, updated_at
			FROM budgets
			WHERE user_id = $1 AND trip_id = $2
			ORDER BY category
		`
		if err := r.db.SelectContext(ctx, &budgets, query, userID, *tripID); err != nil {
			return nil, fmt.Errorf("failed to list budgets: %w", err)
		}
		return budgets, nil
	}

	query := `
		SELECT id, user_id, trip_id, category, planned_amount, spent_amount,
			currency, notes, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY category
	`
	if err := r.db.SelectContext(ctx, &budgets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (r *tripRepo) DeleteBudget(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete budget: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

// AddTransaction records an expense or refund and adjusts the budget's spent
// amount in the same transaction. Refunds subtract.
func (r *tripRepo) AddTransaction(ctx context.Context, budgetID uuid.UUID, txn *models.BudgetTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.BudgetID = budgetID
	txn.CreatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO budget_transactions (id, budget_id, amount, description, type, created_at)
		VALUES (:id, :budget_id, :amount, :description, :type, :created_at)
	`
	if _, err := tx.NamedExecContext(ctx, insert, txn); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	delta := txn.Amount
	if txn.Type == "refund" {
		delta = -delta
	}
	update := `UPDATE budgets SET spent_amount = spent_amount + $2, updated_at = now() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, budgetID, delta); err != nil {
		return fmt.Errorf("failed to adjust budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *tripRepo) ListTransactions(ctx context.Context, budgetID uuid.UUID) ([]models.BudgetTransaction, error) {
	txns := []models.BudgetTransaction{}
	query := `
		SELECT id, budget_id, amount, description, type, created_at
		FROM budget_transactions
		WHERE budget_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &txns, query, budgetID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}
