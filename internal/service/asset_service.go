package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// AssetService manages the IT inventory registry.
type AssetService struct {
	assets repository.AssetRepository
}

// AssetCreateInput describes a new inventory record.
type AssetCreateInput struct {
	Name         string
	Category     string
	SerialNumber string
	AssignedTo   string
	Status       domain.AssetStatus
}

// NewAssetService constructs the service.
func NewAssetService(assets repository.AssetRepository) *AssetService {
	return &AssetService{assets: assets}
}

// Add validates and stores an asset. A duplicate serial number is reported
// as a conflict and writes nothing.
func (s *AssetService) Add(ctx context.Context, input AssetCreateInput) (*domain.Asset, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)

	if input.Name == "" || input.SerialNumber == "" {
		return nil, apperrors.NewValidationError("name and serial_number are required", nil)
	}
	if input.Status == "" {
		input.Status = domain.AssetStatusActive
	}
	if !input.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}

	asset := &domain.Asset{
		Name:         input.Name,
		Category:     input.Category,
		SerialNumber: input.SerialNumber,
		AssignedTo:   input.AssignedTo,
		Status:       input.Status,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("serial number already registered", map[string]any{"serial_number": input.SerialNumber})
		}
		return nil, err
	}
	return asset, nil
}

// List returns all inventory records.
func (s *AssetService) List(ctx context.Context) ([]domain.Asset, error) {
	return s.assets.List(ctx)
}

// Delete removes an asset by ID. Tickets referencing the asset keep their
// denormalized display string.
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	if err := s.assets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("asset", map[string]any{"id": id})
		}
		return err
	}
	return nil
}
