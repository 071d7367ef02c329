package domain

import (
	"encoding/json"
	"time"
)

type AdSet struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`

	ExternalID       string `json:"external_id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	BillingEvent     string `json:"billing_event"`
	OptimizationGoal string `json:"optimization_goal"`

	DailyBudget       *float64 `json:"daily_budget"`
	LifetimeBudget    *float64 `json:"lifetime_budget"`
	BudgetUnconverted bool     `json:"budget_unconverted,omitempty"`

	// Especificação de segmentação repassada como veio da plataforma (JSONB no banco)
	Targeting json.RawMessage `json:"targeting,omitempty"`

	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Active       bool      `json:"active"`
	MissingSyncs int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AdSetResponse struct {
	ID               string          `json:"id"`
	ExternalID       string          `json:"external_id"`
	Name             string          `json:"name"`
	Status           string          `json:"status"`
	BillingEvent     string          `json:"billing_event"`
	OptimizationGoal string          `json:"optimization_goal"`
	DailyBudget      *float64        `json:"daily_budget"`
	LifetimeBudget   *float64        `json:"lifetime_budget"`
	Targeting        json.RawMessage `json:"targeting,omitempty"`
	StartTime        *time.Time      `json:"start_time"`
	EndTime          *time.Time      `json:"end_time"`
}
