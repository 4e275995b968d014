// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query        string `json:"query"`
	ThreadID     string `json:"thread_id"`
	UseRetrieval bool   `json:"use_retrieval"`
	TopK         int    `json:"top_k"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response         string   `json:"response"`
	ThreadID         string   `json:"thread_id"`
	RetrievedContext []string `json:"retrieved_context,omitempty"`
}

// errorEnvelope is the backend's failure body.
type errorEnvelope struct {
	Detail string `json:"detail"`
}

// ShopTotal is one shop's spending line in the sidebar summary.
type ShopTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Summary is the sidebar/statistics payload from GET /chat.
type Summary struct {
	GroceryList []string    `json:"grocery_list"`
	Shops       []ShopTotal `json:"shops"`
	TotalSpent  float64     `json:"total_spent"`
}

// DefaultSummary is the typed fallback rendered when the summary fetch
// fails or returns an empty body.
var DefaultSummary = Summary{
	GroceryList: []string{},
	Shops:       []ShopTotal{},
	TotalSpent:  0,
}

// Favorite is one frequently bought item on the dashboard.
type Favorite struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Recipe is one suggested recipe on the dashboard.
type Recipe struct {
	Title string `json:"title"`
}

// Dashboard is the payload of GET /dashboard.
type Dashboard struct {
	Favorites      []Favorite `json:"favorites"`
	Recipes        []Recipe   `json:"recipes"`
	Recommendation string     `json:"recommendation"`
}

// HealthStatus is the payload of GET /health-status.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// LocationReport is the body of POST /session/location, fire-and-forget.
type LocationReport struct {
	ThreadID string  `json:"thread_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusM  int     `json:"radius_m,omitempty"`
}
