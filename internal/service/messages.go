package service

import "github.com/mmynk/halfsies/internal/models"

// SettleRequest carries either a fragment or an explicit state. Fragment
// wins when both are set.
type SettleRequest struct {
	Fragment string           `json:"fragment,omitempty"`
	People   []string         `json:"people,omitempty"`
	Expenses []models.Expense `json:"expenses,omitempty"`
}

type SettleResponse struct {
	People    []string               `json:"people"`
	Expenses  []models.Expense       `json:"expenses"`
	Balances  []float64              `json:"balances"`
	Members   []models.MemberBalance `json:"members"`
	Transfers []models.Transfer      `json:"transfers"`
	Fragment  string                 `json:"fragment"`
	URL       string                 `json:"url"`
}

type ResolveRequest struct {
	URL string `json:"url"`
}

type ResolveResponse struct {
	People   []string         `json:"people"`
	Expenses []models.Expense `json:"expenses"`
	// URL is the canonical link; it differs from the request for legacy links.
	URL      string `json:"url"`
	Migrated bool   `json:"migrated"`
}

type EncodeRequest struct {
	People   []string         `json:"people"`
	Expenses []models.Expense `json:"expenses"`
	// BaseURL defaults to the server's public URL.
	BaseURL string `json:"base_url,omitempty"`
}

type EncodeResponse struct {
	Fragment string `json:"fragment"`
	URL      string `json:"url"`
}
