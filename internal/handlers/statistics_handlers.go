package handlers

import (
	"context"
	"net/http"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StatisticsComputer is satisfied by *analytics.StatisticsService.
type StatisticsComputer interface {
	Compute(ctx context.Context, tenantID uuid.UUID, filter models.StatisticsFilter) (*models.Statistics, error)
	Location() *time.Location
}

type StatisticsHandlers struct {
	stats StatisticsComputer
}

func NewStatisticsHandlers(stats StatisticsComputer) *StatisticsHandlers {
	return &StatisticsHandlers{stats: stats}
}

// GetStatistics reports sales, profit and units for a calendar window
// @Summary Sales statistics
// @Tags Statistics
// @Produce json
// @Param filter_type query string false "daily (default), weekly, monthly or custom"
// @Param start_date query string false "custom window start, RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "custom window end (exclusive)"
// @Success 200 {object} models.Statistics
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /statistics [get]
func (h *StatisticsHandlers) GetStatistics(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	filter := models.StatisticsFilter{Type: models.StatisticsFilterType(c.QueryParam("filter_type"))}
	if filter.Type == models.FilterCustom {
		loc := h.stats.Location()
		start, err := common.ParseDateParam(c.QueryParam("start_date"), loc)
		if err != nil {
			return common.SendError(c, common.ErrInvalidDateRange.WithDetail("start_date", err.Error()))
		}
		end, err := common.ParseDateParam(c.QueryParam("end_date"), loc)
		if err != nil {
			return common.SendError(c, common.ErrInvalidDateRange.WithDetail("end_date", err.Error()))
		}
		filter.Start, filter.End = &start, &end
	}

	stats, err := h.stats.Compute(c.Request().Context(), actor.TenantID(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
