package domain

import "time"

// MetricsSnapshot é o registro agregado de métricas de uma campanha ou de um
// conjunto de anúncios para um intervalo de datas. Exatamente um dos campos
// CampaignID e AdSetID fica preenchido, conforme a tabela de destino. A
// unicidade é por (dono, date_start): reprocessar o mesmo período substitui o
// registro, nunca duplica.
type MetricsSnapshot struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id,omitempty"`
	AdSetID    string    `json:"ad_set_id,omitempty"`
	DateStart  time.Time `json:"date_start"`
	DateStop   time.Time `json:"date_stop"`

	// Contadores somáveis, como vieram da plataforma
	Impressions   int64   `json:"impressions"`
	Clicks        int64   `json:"clicks"`
	Spend         float64 `json:"spend"`
	Conversions   int64   `json:"conversions"`
	PurchaseValue float64 `json:"purchase_value"`
	Reach         int64   `json:"reach"`
	Frequency     float64 `json:"frequency"`

	// Razões derivadas, sempre recalculadas a partir dos contadores na escrita
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	CPM            float64 `json:"cpm"`
	ConversionRate float64 `json:"conversion_rate"`
	ROAS           float64 `json:"roas"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MetricsResponse struct {
	Date           string  `json:"date"`
	DateStop       string  `json:"date_stop"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Spend          float64 `json:"spend"`
	Conversions    int64   `json:"conversions"`
	PurchaseValue  float64 `json:"purchase_value"`
	Reach          int64   `json:"reach"`
	Frequency      float64 `json:"frequency"`
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	CPM            float64 `json:"cpm"`
	ConversionRate float64 `json:"conversion_rate"`
	ROAS           float64 `json:"roas"`
}

type InsightFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// InsightRecord é um registro bruto de insight já normalizado (contadores de um
// dia para uma campanha), pronto para entrar na agregação
type InsightRecord struct {
	DateStart     time.Time `json:"date_start"`
	DateStop      time.Time `json:"date_stop"`
	Impressions   int64     `json:"impressions"`
	Clicks        int64     `json:"clicks"`
	Spend         float64   `json:"spend"`
	Conversions   int64     `json:"conversions"`
	PurchaseValue float64   `json:"purchase_value"`
	Reach         int64     `json:"reach"`
	Frequency     float64   `json:"frequency"`
}

// CampaignMetricsResponse é a resposta de leitura de métricas: a série diária
// persistida e o total do período com as razões derivadas dos contadores somados
type CampaignMetricsResponse struct {
	CampaignID string             `json:"campaign_id"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Totals     *MetricsResponse   `json:"totals"`
	Daily      []*MetricsResponse `json:"daily"`
}

// AdSetMetricsResponse é o equivalente de leitura no nível de conjunto de
// anúncios
type AdSetMetricsResponse struct {
	AdSetID   string             `json:"ad_set_id"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Totals    *MetricsResponse   `json:"totals"`
	Daily     []*MetricsResponse `json:"daily"`
}
