// Package ingest holds types shared by history import providers.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsInserted int `json:"sessions_inserted"`
	SessionsSkipped  int `json:"sessions_skipped"`
	SetsReceived     int `json:"sets_received"`

	Message string `json:"message,omitempty"`
}
