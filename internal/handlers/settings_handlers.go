package handlers

import (
	"net/http"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsService services.SettingsService
}

func NewSettingsHandlers(settingsService services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsService: settingsService}
}

type SettingsRequest struct {
	Currency string `json:"currency"`
}

// SettingsResponse adds the selectable currencies to the stored settings.
type SettingsResponse struct {
	*models.Settings
	SupportedCurrencies []string `json:"supported_currencies"`
}

func settingsResponse(s *models.Settings) SettingsResponse {
	return SettingsResponse{Settings: s, SupportedCurrencies: models.SupportedCurrencies}
}

// GetSettings
// @Summary Get store settings
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandlers) GetSettings(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	settings, err := h.settingsService.Get(c.Request().Context(), actor.TenantID())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResponse(settings))
}

// UpdateSettings
// @Summary Change the display currency
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body SettingsRequest true "Settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandlers) UpdateSettings(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	var req SettingsRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}
	settings, err := h.settingsService.UpdateCurrency(c.Request().Context(), actor.TenantID(), req.Currency)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResponse(settings))
}

// ResetProfits starts profit accounting afresh from now
// @Summary Reset profits
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsResponse
// @Security BearerAuth
// @Router /settings/reset-profits [post]
func (h *SettingsHandlers) ResetProfits(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	settings, err := h.settingsService.ResetProfits(c.Request().Context(), actor.TenantID())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResponse(settings))
}

// ResetAll wipes products, sales, employees and settings of the store
// @Summary Reset store data
// @Tags Settings
// @Success 204
// @Security BearerAuth
// @Router /settings/reset-all [delete]
func (h *SettingsHandlers) ResetAll(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.settingsService.ResetAll(c.Request().Context(), actor.TenantID()); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
