package dto

import "time"

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	API       string    `json:"api" example:"http://127.0.0.1:8000"`
	Timestamp time.Time `json:"timestamp"`
}
