package domain

import "time"

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

// AdAccount é a forma normalizada de uma conta de anúncios do Meta.
// ExternalID é o identificador imutável da plataforma e a chave de idempotência do upsert.
type AdAccount struct {
	ID           string          `json:"id"`
	UserID       int             `json:"user_id"`
	ExternalID   string          `json:"external_id"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	Timezone     string          `json:"timezone"`
	Status       AdAccountStatus `json:"status"`
	MissingSyncs int             `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type AdAccountResponse struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	Name       string          `json:"name"`
	Currency   string          `json:"currency"`
	Timezone   string          `json:"timezone"`
	Status     AdAccountStatus `json:"status"`
}
