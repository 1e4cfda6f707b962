package handlers

import (
	"net/http"

	"storepos/internal/common"
	"storepos/internal/services"

	"github.com/labstack/echo/v4"
)

type ExportHandlers struct {
	exportService services.ExportService
}

func NewExportHandlers(exportService services.ExportService) *ExportHandlers {
	return &ExportHandlers{exportService: exportService}
}

// Export returns a JSON snapshot of the store and, when object storage is
// configured, a temporary download link.
// @Summary Export store data
// @Tags Export
// @Produce json
// @Param data_type query string false "products, sales or all (default)"
// @Success 200 {object} models.ExportSnapshot
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /export [get]
func (h *ExportHandlers) Export(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	dataType, err := services.ParseExportDataType(c.QueryParam("data_type"))
	if err != nil {
		return common.SendError(c, err)
	}
	snapshot, err := h.exportService.Export(c.Request().Context(), actor.Tenant, dataType)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}
