package domain

import "time"

// SyncStatus é o estado terminal de uma passagem de sincronização
type SyncStatus string

const (
	SyncStatusCompleted       SyncStatus = "completed"
	SyncStatusPartiallyFailed SyncStatus = "partial"
	SyncStatusFailed          SyncStatus = "error"
)

// EntityKind identifica o tipo de entidade em erros por entidade
type EntityKind string

const (
	EntityKindAccount  EntityKind = "account"
	EntityKindCampaign EntityKind = "campaign"
	EntityKindAdSet    EntityKind = "ad_set"
	EntityKindAd       EntityKind = "ad"
	EntityKindCreative EntityKind = "creative"
	EntityKindMetrics  EntityKind = "metrics"
)

// SyncErrorKind classifica a falha registrada para uma entidade
type SyncErrorKind string

const (
	SyncErrorUpstreamUnavailable SyncErrorKind = "upstream_unavailable"
	SyncErrorUpstreamRejected    SyncErrorKind = "upstream_rejected"
	SyncErrorUpstreamProtocol    SyncErrorKind = "upstream_protocol_error"
	SyncErrorMapping             SyncErrorKind = "mapping_error"
	SyncErrorStorage             SyncErrorKind = "storage_error"
	SyncErrorTimedOut            SyncErrorKind = "timed_out"
)

// EntityError registra a falha de uma entidade durante a passagem, sem abortá-la
type EntityError struct {
	Kind       EntityKind    `json:"entity_kind"`
	ExternalID string        `json:"external_id"`
	ErrorKind  SyncErrorKind `json:"error_kind"`
	Message    string        `json:"message"`
}

// SyncResult é o resultado estruturado de uma passagem do orquestrador.
// Sucesso parcial é um desfecho esperado, não uma exceção: o resultado sempre
// lista o que foi persistido e o que falhou.
type SyncResult struct {
	Status            SyncStatus    `json:"status"`
	CompletedEntities int           `json:"completed_entities"`
	FailedEntities    []EntityError `json:"failed_entities"`
	AccountsSynced    int           `json:"accounts_synced"`
	Message           string        `json:"message,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        time.Time     `json:"finished_at"`
}
