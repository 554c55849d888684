package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget represents a spending plan for a trip category
type Budget struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TripID        *uuid.UUID `json:"trip_id,omitempty" db:"trip_id"`
	Category      string     `json:"category" db:"category"`
	PlannedAmount float64    `json:"planned_amount" db:"planned_amount"`
	SpentAmount   float64    `json:"spent_amount" db:"spent_amount"`
	Currency      string     `json:"currency" db:"currency"`
	Notes         string     `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BudgetTransaction represents a single expense or refund against a budget
type BudgetTransaction struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BudgetID    uuid.UUID `json:"budget_id" db:"budget_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description,omitempty" db:"description"`
	Type        string    `json:"type" db:"type"` // expense or refund
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateBudgetRequest is the payload for budget creation
type CreateBudgetRequest struct {
	TripID        *uuid.UUID `json:"trip_id,omitempty"`
	Category      string     `json:"category"`
	PlannedAmount float64    `json:"planned_amount"`
	Currency      string     `json:"currency,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// AddTransactionRequest is the payload for recording an expense
type AddTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// BudgetCategorySummary aggregates planned and spent amounts per category
type BudgetCategorySummary struct {
	Category string  `json:"category" db:"category"`
	Planned  float64 `json:"planned" db:"planned"`
	Spent    float64 `json:"spent" db:"spent"`
}

// BudgetSummary aggregates a user's budgets
type BudgetSummary struct {
	TotalPlanned float64                 `json:"total_planned"`
	TotalSpent   float64                 `json:"total_spent"`
	Remaining    float64                 `json:"remaining"`
	BudgetCount  int                     `json:"budget_count"`
	ByCategory   []BudgetCategorySummary `json:"by_category"`
}
