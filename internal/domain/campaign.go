package domain

import "time"

type Campaign struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`

	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Objective  string `json:"objective"`
	BuyingType string `json:"buying_type"`

	// Orçamentos em unidade maior da moeda da conta. Nil significa "sem orçamento
	// definido", que é diferente de orçamento zero.
	DailyBudget    *float64 `json:"daily_budget"`
	LifetimeBudget *float64 `json:"lifetime_budget"`

	// Indica que os valores de orçamento não puderam ser convertidos por falta
	// da moeda da conta e foram repassados como vieram da plataforma.
	BudgetUnconverted bool `json:"budget_unconverted,omitempty"`

	StartTime *time.Time `json:"start_time"`
	StopTime  *time.Time `json:"stop_time"`

	Active       bool      `json:"active"`
	MissingSyncs int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CampaignResponse struct {
	ID             string     `json:"id"`
	ExternalID     string     `json:"external_id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	Objective      string     `json:"objective"`
	DailyBudget    *float64   `json:"daily_budget"`
	LifetimeBudget *float64   `json:"lifetime_budget"`
	StartTime      *time.Time `json:"start_time"`
	StopTime       *time.Time `json:"stop_time"`
}
