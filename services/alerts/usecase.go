package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// UseCase exposes alert management operations
type UseCase interface {
	CreateAlert(ctx context.Context, userID uuid.UUID, req *models.CreateAlertRequest) (*models.PriceAlert, error)
	GetAlerts(ctx context.Context, userID uuid.UUID) ([]models.PriceAlert, error)
	CancelAlert(ctx context.Context, userID, alertID uuid.UUID) error
}

type alertUC struct {
	repo     Repository
	notifier Notifier
}

// NewUseCase creates the alert use case
func NewUseCase(repo Repository, notifier Notifier) UseCase {
	return &alertUC{repo: repo, notifier: notifier}
}

// CreateAlert validates and persists a new alert, then confirms to the owner
func (uc *alertUC) CreateAlert(ctx context.Context, userID uuid.UUID, req *models.CreateAlertRequest) (*models.PriceAlert, error) {
	if req.Kind != models.AlertKindFlight && req.Kind != models.AlertKindHotel {
		return nil, fmt.Errorf("unsupported alert kind: %s", req.Kind)
	}
	if req.InitialPrice <= 0 {
		return nil, errors.New("initial price must be positive")
	}
	if len(req.SearchParams) == 0 {
		return nil, errors.New("search params are required")
	}

	alert := &models.PriceAlert{
		UserID:       userID,
		Kind:         req.Kind,
		SearchParams: req.SearchParams,
		InitialPrice: req.InitialPrice,
		TargetPrice:  req.TargetPrice,
	}
	if err := uc.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Watching %s prices from %.2f", req.Kind, req.InitialPrice)
	if _, err := uc.notifier.Notify(ctx, userID, "Price Alert Created", message,
		models.NotificationInfo, map[string]interface{}{"alert_id": alert.ID}); err != nil {
		logger.Warn("Failed to send alert confirmation",
			logger.String("alert_id", alert.ID.String()),
			logger.Err(err))
	}
	return alert, nil
}

// GetAlerts returns the caller's active alerts
func (uc *alertUC) GetAlerts(ctx context.Context, userID uuid.UUID) ([]models.PriceAlert, error) {
	return uc.repo.ListActive(ctx, userID)
}

// CancelAlert deactivates an alert owned by the caller
func (uc *alertUC) CancelAlert(ctx context.Context, userID, alertID uuid.UUID) error {
	ok, err := uc.repo.Deactivate(ctx, alertID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlertNotFound
	}
	return nil
}
