package dto

import "github.com/ahmetcoskunkizilkaya/twitter-api/internal/validate"

type ErrorResponse struct {
	Error   bool                  `json:"error"`
	Message string                `json:"message"`
	Details []validate.FieldError `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Driver    string            `json:"driver"`
	Stores    map[string]string `json:"stores"`
}
