package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// Notifier records a notification for a user (budget overrun warnings)
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, kind string, data interface{}) (*models.Notification, error)
}

// UseCase exposes trip and budget operations
type UseCase interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req *models.CreateTripRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, status models.TripStatus) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req *models.UpdateTripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	BuildItineraryPDF(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error)

	CreateBudget(ctx context.Context, userID uuid.UUID, req *models.CreateBudgetRequest) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	AddExpense(ctx context.Context, userID, budgetID uuid.UUID, req *models.AddTransactionRequest) (*models.Budget, error)
	ListTransactions(ctx context.Context, userID, budgetID uuid.UUID) ([]models.BudgetTransaction, error)
	BudgetSummary(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) (*models.BudgetSummary, error)
}

type tripUC struct {
	repo     Repository
	notifier Notifier
}

// NewUseCase creates the trip use case
func NewUseCase(repo Repository, notifier Notifier) UseCase {
	return &tripUC{repo: repo, notifier: notifier}
}

func (uc *tripUC) CreateTrip(ctx context.Context, userID uuid.UUID, req *models.CreateTripRequest) (*models.Trip, error) {
	if req.Destination == "" {
		return nil, errors.New("destination is required")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, errors.New("end date must not precede start date")
	}

	trip := &models.Trip{
		UserID:      userID,
		Destination: req.Destination,
		Source:      req.Source,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		TripPlan:    req.TripPlan,
		UserRequest: req.UserRequest,
	}
	if err := uc.repo.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}

	logger.Info("Trip created",
		logger.String("trip_id", trip.ID.String()),
		logger.String("destination", trip.Destination))
	return trip, nil
}

func (uc *tripUC) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	return uc.repo.GetTrip(ctx, tripID, userID)
}

func (uc *tripUC) ListTrips(ctx context.Context, userID uuid.UUID, status models.TripStatus) ([]models.Trip, error) {
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("invalid trip status: %s", status)
	}
	return uc.repo.ListTrips(ctx, userID, status)
}

// UpdateTrip applies the non-nil fields of the request
func (uc *tripUC) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req *models.UpdateTripRequest) (*models.Trip, error) {
	trip, err := uc.repo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.Source != nil {
		trip.Source = *req.Source
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if req.Travelers != nil {
		trip.Travelers = *req.Travelers
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, fmt.Errorf("invalid trip status: %s", *req.Status)
		}
		trip.Status = *req.Status
	}
	if req.TripPlan != nil {
		trip.TripPlan = *req.TripPlan
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, errors.New("rating must be between 1 and 5")
		}
		trip.Rating = req.Rating
	}

	if err := uc.repo.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (uc *tripUC) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ok, err := uc.repo.DeleteTrip(ctx, tripID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTripNotFound
	}
	return nil
}

// BuildItineraryPDF renders the trip as a downloadable PDF document
func (uc *tripUC) BuildItineraryPDF(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error) {
	trip, err := uc.repo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := uc.repo.ListBudgets(ctx, userID, &tripID)
	if err != nil {
		return nil, err
	}
	return renderItinerary(trip, budgets)
}

func (uc *tripUC) CreateBudget(ctx context.Context, userID uuid.UUID, req *models.CreateBudgetRequest) (*models.Budget, error) {
	if req.Category == "" {
		return nil, errors.New("category is required")
	}
	if req.PlannedAmount < 0 {
		return nil, errors.New("planned amount must not be negative")
	}
	if req.TripID != nil {
		if _, err := uc.repo.GetTrip(ctx, *req.TripID, userID); err != nil {
			return nil, err
		}
	}

	budget := &models.Budget{
		UserID:        userID,
		TripID:        req.TripID,
		Category:      req.Category,
		PlannedAmount: req.PlannedAmount,
		Currency:      req.Currency,
		Notes:         req.Notes,
	}
	if err := uc.repo.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (uc *tripUC) ListBudgets(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) ([]models.Budget, error) {
	return uc.repo.ListBudgets(ctx, userID, tripID)
}

func (uc *tripUC) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	ok, err := uc.repo.DeleteBudget(ctx, budgetID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBudgetNotFound
	}
	return nil
}

// AddExpense records a transaction and warns the owner when the budget goes
// over its planned amount
func (uc *tripUC) AddExpense(ctx context.Context, userID, budgetID uuid.UUID, req *models.AddTransactionRequest) (*models.Budget, error) {
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	txnType := req.Type
	if txnType == "" {
		txnType = "expense"
	}
	if txnType != "expense" && txnType != "refund" {
		return nil, fmt.Errorf("invalid transaction type: %s", txnType)
	}

	budget, err := uc.repo.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	txn := &models.BudgetTransaction{
		Amount:      req.Amount,
		Description: req.Description,
		Type:        txnType,
	}
	if err := uc.repo.AddTransaction(ctx, budgetID, txn); err != nil {
		return nil, err
	}

	wasOver := budget.SpentAmount > budget.PlannedAmount
	updated, err := uc.repo.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	if !wasOver && updated.SpentAmount > updated.PlannedAmount && updated.PlannedAmount > 0 {
		message := fmt.Sprintf("%s budget exceeded: spent %.2f of %.2f %s",
			updated.Category, updated.SpentAmount, updated.PlannedAmount, updated.Currency)
		if _, err := uc.notifier.Notify(ctx, userID, "Budget Exceeded", message,
			models.NotificationBudgetAlert, map[string]interface{}{"budget_id": budgetID}); err != nil {
			logger.Warn("Failed to send budget alert",
				logger.String("budget_id", budgetID.String()),
				logger.Err(err))
		}
	}
	return updated, nil
}

func (uc *tripUC) ListTransactions(ctx context.Context, userID, budgetID uuid.UUID) ([]models.BudgetTransaction, error) {
	if _, err := uc.repo.GetBudget(ctx, budgetID, userID); err != nil {
		return nil, err
	}
	return uc.repo.ListTransactions(ctx, budgetID)
}

// BudgetSummary aggregates the user's budgets, optionally scoped to one trip
func (uc *tripUC) BudgetSummary(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID) (*models.BudgetSummary, error) {
	budgets, err := uc.repo.ListBudgets(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	summary := &models.BudgetSummary{BudgetCount: len(budgets)}
	byCategory := map[string]*models.BudgetCategorySummary{}
	var order []string
	for _, b := range budgets {
		summary.TotalPlanned += b.PlannedAmount
		summary.TotalSpent += b.SpentAmount
		cat, ok := byCategory[b.Category]
		if !ok {
			cat = &models.BudgetCategorySummary{Category: b.Category}
			byCategory[b.Category] = cat
			order = append(order, b.Category)
		}
		cat.Planned += b.PlannedAmount
		cat.Spent += b.SpentAmount
	}
	summary.Remaining = summary.TotalPlanned - summary.TotalSpent
	for _, cat := range order {
		summary.ByCategory = append(summary.ByCategory, *byCategory[cat])
	}
	return summary, nil
}

func validStatus(s models.TripStatus) bool {
	switch s {
	case models.TripStatusPlanned, models.TripStatusBooked, models.TripStatusOngoing,
		models.TripStatusCompleted, models.TripStatusCancelled:
		return true
	}
	return false
}
