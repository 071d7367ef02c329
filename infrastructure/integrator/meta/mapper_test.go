package meta

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

func TestMapAdAccount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		validate func(t *testing.T, account *domain.AdAccount, mapErr *MappingError)
	}{
		{
			name: "Deve remover o prefixo act_ do identificador",
			raw:  `{"id": "act_123456", "name": "Loja A", "currency": "BRL", "timezone_name": "America/Sao_Paulo", "account_status": 1}`,
			validate: func(t *testing.T, account *domain.AdAccount, mapErr *MappingError) {
				require.Nil(t, mapErr)
				assert.Equal(t, "123456", account.ExternalID)
				assert.Equal(t, "Loja A", account.Name)
				assert.Equal(t, "BRL", account.Currency)
				assert.Equal(t, domain.AdAccountStatusActive, account.Status)
			},
		},
		{
			name: "Status diferente de 1 deve mapear para conta inativa",
			raw:  `{"account_id": "789", "name": "Loja B", "currency": "BRL", "account_status": 2}`,
			validate: func(t *testing.T, account *domain.AdAccount, mapErr *MappingError) {
				require.Nil(t, mapErr)
				assert.Equal(t, "789", account.ExternalID)
				assert.Equal(t, domain.AdAccountStatusInactive, account.Status)
			},
		},
		{
			name: "Registro sem identificador deve falhar o mapeamento",
			raw:  `{"name": "Loja C"}`,
			validate: func(t *testing.T, account *domain.AdAccount, mapErr *MappingError) {
				require.NotNil(t, mapErr)
				assert.Nil(t, account)
				assert.Equal(t, domain.EntityKindAccount, mapErr.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, mapErr := MapAdAccount(json.RawMessage(tt.raw))
			tt.validate(t, account, mapErr)
		})
	}
}

func TestMapCampaign_ConversaoDeOrcamento(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		currency string
		validate func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError)
	}{
		{
			name:     "Orçamento em subunidade deve ser convertido para a unidade maior",
			raw:      `{"id": "c1", "name": "Campanha", "status": "ACTIVE", "daily_budget": "1500"}`,
			currency: "BRL",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.Nil(t, mapErr)
				require.NotNil(t, campaign.DailyBudget)
				assert.InDelta(t, 15.00, *campaign.DailyBudget, 0.0001)
				assert.False(t, campaign.BudgetUnconverted)
			},
		},
		{
			name:     "Moeda sem subunidade não deve dividir por cem",
			raw:      `{"id": "c2", "daily_budget": "1500"}`,
			currency: "JPY",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.Nil(t, mapErr)
				require.NotNil(t, campaign.DailyBudget)
				assert.InDelta(t, 1500.0, *campaign.DailyBudget, 0.0001)
			},
		},
		{
			name:     "Orçamento ausente deve virar nil, distinto de zero",
			raw:      `{"id": "c3", "lifetime_budget": "0"}`,
			currency: "BRL",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.Nil(t, mapErr)
				assert.Nil(t, campaign.DailyBudget)
				require.NotNil(t, campaign.LifetimeBudget)
				assert.Zero(t, *campaign.LifetimeBudget)
			},
		},
		{
			name:     "Sem moeda conhecida o valor é repassado e o registro sinalizado",
			raw:      `{"id": "c4", "daily_budget": "1500"}`,
			currency: "",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.Nil(t, mapErr)
				require.NotNil(t, campaign.DailyBudget)
				assert.InDelta(t, 1500.0, *campaign.DailyBudget, 0.0001)
				assert.True(t, campaign.BudgetUnconverted)
			},
		},
		{
			name:     "Orçamento não numérico deve falhar o registro",
			raw:      `{"id": "c5", "daily_budget": "quinze"}`,
			currency: "BRL",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.NotNil(t, mapErr)
				assert.Equal(t, "daily_budget", mapErr.Field)
				assert.Equal(t, "c5", mapErr.ExternalID)
			},
		},
		{
			name:     "Timestamp fora do formato da plataforma deve falhar o registro",
			raw:      `{"id": "c6", "start_time": "15/01/2024"}`,
			currency: "BRL",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.NotNil(t, mapErr)
				assert.Equal(t, "start_time", mapErr.Field)
			},
		},
		{
			name:     "Timestamp no formato da plataforma deve ser aceito",
			raw:      `{"id": "c7", "start_time": "2024-01-15T10:30:00-0300"}`,
			currency: "BRL",
			validate: func(t *testing.T, campaign *domain.Campaign, mapErr *MappingError) {
				require.Nil(t, mapErr)
				require.NotNil(t, campaign.StartTime)
				assert.Equal(t, 15, campaign.StartTime.Day())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign, mapErr := MapCampaign(json.RawMessage(tt.raw), tt.currency)
			tt.validate(t, campaign, mapErr)
		})
	}
}

func TestMapAd(t *testing.T) {
	raw := `{
		"id": "ad1",
		"name": "Anúncio",
		"status": "ACTIVE",
		"creative": {"id": "cr1", "title": "Título", "body": "Texto", "call_to_action_type": "SHOP_NOW"}
	}`

	ad, mapErr := MapAd(json.RawMessage(raw))

	require.Nil(t, mapErr)
	assert.Equal(t, "ad1", ad.ExternalID)
	require.NotNil(t, ad.Creative)
	assert.Equal(t, "cr1", ad.Creative.ExternalID)
	assert.Equal(t, "Título", ad.Creative.Title)
	assert.Equal(t, "SHOP_NOW", ad.Creative.CallToAction)
}

func TestMapAd_SemCriativo(t *testing.T) {
	ad, mapErr := MapAd(json.RawMessage(`{"id": "ad2", "status": "PAUSED"}`))

	require.Nil(t, mapErr)
	assert.Nil(t, ad.Creative)
}

func TestMapInsight(t *testing.T) {
	raw := `{
		"date_start": "2024-01-15",
		"date_stop": "2024-01-15",
		"impressions": "1000",
		"clicks": "50",
		"spend": "25.75",
		"reach": "800",
		"conversions": "4",
		"action_values": [
			{"action_type": "purchase", "value": "100.00"},
			{"action_type": "link_click", "value": "999.99"},
			{"action_type": "omni_purchase", "value": "50.00"}
		]
	}`

	record, mapErr := MapInsight(json.RawMessage(raw))

	require.Nil(t, mapErr)
	assert.Equal(t, int64(1000), record.Impressions)
	assert.Equal(t, int64(50), record.Clicks)
	assert.InDelta(t, 25.75, record.Spend, 0.0001)
	assert.Equal(t, int64(4), record.Conversions)

	// Só ações de compra entram no valor de conversão
	assert.InDelta(t, 150.00, record.PurchaseValue, 0.0001)
}

func TestMapInsight_DataObrigatoria(t *testing.T) {
	record, mapErr := MapInsight(json.RawMessage(`{"impressions": "10"}`))

	require.NotNil(t, mapErr)
	assert.Nil(t, record)
	assert.Equal(t, "date_start", mapErr.Field)
}

func TestMapInsight_ContadoresAusentesValemZero(t *testing.T) {
	record, mapErr := MapInsight(json.RawMessage(`{"date_start": "2024-01-15"}`))

	require.Nil(t, mapErr)
	assert.Zero(t, record.Impressions)
	assert.Zero(t, record.Clicks)
	assert.Zero(t, record.Spend)
}
