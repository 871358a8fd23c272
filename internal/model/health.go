package model

// Health is the body of GET /healthz.
type Health struct {
	Status     string `json:"status"`
	Categories int    `json:"categories"`
	Workers    int    `json:"workers"`
}
