package domain

import (
	"encoding/json"
	"time"
)

type Ad struct {
	ID      string `json:"id"`
	AdSetID string `json:"ad_set_id"`

	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`

	TrackingSpecs json.RawMessage `json:"tracking_specs,omitempty"`

	Active       bool      `json:"active"`
	MissingSyncs int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Criativo vinculado, quando a plataforma o expande junto ao anúncio
	Creative *Creative `json:"creative,omitempty"`
}

type AdResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Creative   *Creative `json:"creative,omitempty"`
}

type Creative struct {
	ID   string `json:"id"`
	AdID string `json:"ad_id"`

	ExternalID   string `json:"external_id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ImageURL     string `json:"image_url"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	CallToAction string `json:"call_to_action"`
	LinkURL      string `json:"link_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
