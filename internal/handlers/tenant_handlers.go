package handlers

import (
	"net/http"

	"storepos/internal/common"
	"storepos/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers serves the manager account directory.
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

type ActivateRequest struct {
	Code        string `json:"code"`
	ManagerCode string `json:"manager_code"`
}

// CreateManager opens a new store account
// @Summary Create manager
// @Description Create a store account and return its manager code
// @Tags Managers
// @Produce json
// @Success 201 {object} models.Tenant
// @Failure 409 {object} common.ErrorResponse
// @Router /managers [post]
func (h *TenantHandlers) CreateManager(c echo.Context) error {
	tenant, err := h.tenantService.Create(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, tenant)
}

// GetManager looks a store up by its manager code
// @Summary Get manager
// @Tags Managers
// @Produce json
// @Param code path string true "Manager code"
// @Success 200 {object} models.Tenant
// @Failure 404 {object} common.ErrorResponse
// @Router /managers/{code} [get]
func (h *TenantHandlers) GetManager(c echo.Context) error {
	tenant, err := h.tenantService.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// RegenerateCode replaces the manager code. The old code stops working.
// @Summary Regenerate manager code
// @Tags Managers
// @Produce json
// @Param code path string true "Current manager code"
// @Success 200 {object} models.Tenant
// @Failure 404 {object} common.ErrorResponse
// @Router /managers/{code}/regenerate [put]
func (h *TenantHandlers) RegenerateCode(c echo.Context) error {
	tenant, err := h.tenantService.RegenerateCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// ActivatePro consumes an activation code
// @Summary Activate pro
// @Tags Managers
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Activation"
// @Success 200 {object} models.Tenant
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /managers/activate [post]
func (h *TenantHandlers) ActivatePro(c echo.Context) error {
	var req ActivateRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}
	tenant, err := h.tenantService.ActivatePro(c.Request().Context(), req.Code, req.ManagerCode)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}
