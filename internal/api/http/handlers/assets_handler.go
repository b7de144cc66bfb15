package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// AssetsHandler manages the inventory registry endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// CreateAsset POST /admin/assets.
func (h *AssetsHandler) CreateAsset(c *fiber.Ctx) error {
	var req dto.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	asset, err := h.service.Add(c.Context(), service.AssetCreateInput{
		Name:         req.Name,
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		AssignedTo:   req.AssignedTo,
		Status:       req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": assetResponse(*asset)})
}

// ListAssets GET /admin/assets.
func (h *AssetsHandler) ListAssets(c *fiber.Ctx) error {
	assets, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		items = append(items, assetResponse(asset))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteAsset DELETE /admin/assets/:id.
func (h *AssetsHandler) DeleteAsset(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid asset id", map[string]any{"id": c.Params("id")})
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func assetResponse(asset domain.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:           asset.ID,
		Name:         asset.Name,
		Category:     asset.Category,
		SerialNumber: asset.SerialNumber,
		AssignedTo:   asset.AssignedTo,
		Status:       asset.Status,
		Label:        asset.DisplayLabel(),
	}
}
