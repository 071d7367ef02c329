package metadomain

import "encoding/json"

// Tipos brutos dos registros da Graph API, como chegam na resposta.
// Valores numéricos chegam como string e são convertidos no mapeamento.

type RawAdAccount struct {
	ID            string `json:"id"` // vem como "act_<account_id>"
	AccountID     string `json:"account_id"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	TimezoneName  string `json:"timezone_name"`
	AccountStatus int    `json:"account_status"`
}

type RawCampaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Objective      string `json:"objective"`
	BuyingType     string `json:"buying_type"`
	DailyBudget    string `json:"daily_budget"`
	LifetimeBudget string `json:"lifetime_budget"`
	StartTime      string `json:"start_time"`
	StopTime       string `json:"stop_time"`
	CreatedTime    string `json:"created_time"`
	UpdatedTime    string `json:"updated_time"`
}

type RawAdSet struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Status           string          `json:"status"`
	BillingEvent     string          `json:"billing_event"`
	OptimizationGoal string          `json:"optimization_goal"`
	DailyBudget      string          `json:"daily_budget"`
	LifetimeBudget   string          `json:"lifetime_budget"`
	Targeting        json.RawMessage `json:"targeting"`
	StartTime        string          `json:"start_time"`
	EndTime          string          `json:"end_time"`
}

type RawAd struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Status        string          `json:"status"`
	TrackingSpecs json.RawMessage `json:"tracking_specs"`
	Creative      *RawCreative    `json:"creative"`
}

type RawCreative struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Body             string `json:"body"`
	ImageURL         string `json:"image_url"`
	VideoURL         string `json:"video_url"`
	ThumbnailURL     string `json:"thumbnail_url"`
	CallToActionType string `json:"call_to_action_type"`
	LinkURL          string `json:"link_url"`
}

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type RawInsight struct {
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
	Impressions  string   `json:"impressions"`
	Clicks       string   `json:"clicks"`
	Spend        string   `json:"spend"`
	Reach        string   `json:"reach"`
	Frequency    string   `json:"frequency"`
	Conversions  string   `json:"conversions"`
	ActionValues []Action `json:"action_values"`
}

// PurchaseValue soma os valores de conversão de compra reportados no registro
func (r *RawInsight) PurchaseActions() []Action {
	purchases := make([]Action, 0, len(r.ActionValues))
	for _, action := range r.ActionValues {
		switch action.ActionType {
		case "purchase", "omni_purchase", "offsite_conversion.fb_pixel_purchase":
			purchases = append(purchases, action)
		}
	}
	return purchases
}
