package handlers

import (
	"net/http"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/labstack/echo/v4"
)

// SaleHandlers handles the sale ledger
type SaleHandlers struct {
	saleService services.SaleService
	location    *time.Location
}

// NewSaleHandlers creates sale handlers. Plain dates in list filters are
// read in loc.
func NewSaleHandlers(saleService services.SaleService, loc *time.Location) *SaleHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleHandlers{saleService: saleService, location: loc}
}

// CreateSale records a sale and decrements stock atomically
// @Summary Record sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body models.SaleRequest true "Sale"
// @Success 201 {object} models.Sale
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandlers) CreateSale(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	var req models.SaleRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}
	// employees selling under a session are recorded by name
	if req.EmployeeName == nil {
		req.EmployeeName = actor.DisplayName()
	}

	sale, err := h.saleService.Create(c.Request().Context(), actor.TenantID(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// ListSales lists sales oldest first
// @Summary List sales
// @Tags Sales
// @Produce json
// @Param from query string false "RFC3339 or YYYY-MM-DD, inclusive"
// @Param to query string false "RFC3339 or YYYY-MM-DD, exclusive"
// @Success 200 {array} models.Sale
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandlers) ListSales(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var filter models.SaleFilter
	if raw := c.QueryParam("from"); raw != "" {
		from, err := common.ParseDateParam(raw, h.location)
		if err != nil {
			return common.SendError(c, common.ErrInvalidDateRange.WithDetail("from", err.Error()))
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := common.ParseDateParam(raw, h.location)
		if err != nil {
			return common.SendError(c, common.ErrInvalidDateRange.WithDetail("to", err.Error()))
		}
		filter.To = &to
	}

	sales, err := h.saleService.List(c.Request().Context(), actor.TenantID(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// GetSale retrieves one sale with its items
// @Summary Get sale
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} models.Sale
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *SaleHandlers) GetSale(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrSaleNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	sale, err := h.saleService.GetByID(c.Request().Context(), actor.TenantID(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// DeleteAllSales clears the ledger. Stock is not restored.
// @Summary Delete all sales
// @Tags Sales
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /sales [delete]
func (h *SaleHandlers) DeleteAllSales(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	deleted, err := h.saleService.DeleteAll(c.Request().Context(), actor.TenantID())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}
