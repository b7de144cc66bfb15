package dto

import "github.com/spec-kit/servicedesk/internal/domain"

// CreateAssetRequest payload.
type CreateAssetRequest struct {
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	SerialNumber string             `json:"serial_number"`
	AssignedTo   string             `json:"assigned_to"`
	Status       domain.AssetStatus `json:"status"`
}

// AssetResponse response.
type AssetResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	SerialNumber string             `json:"serial_number"`
	AssignedTo   string             `json:"assigned_to"`
	Status       domain.AssetStatus `json:"status"`
	Label        string             `json:"label"`
}
