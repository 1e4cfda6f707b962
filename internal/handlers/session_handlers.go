package handlers

import (
	"net/http"
	"strings"

	"storepos/internal/common"
	"storepos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SessionHandlers struct {
	sessionService services.SessionService
}

func NewSessionHandlers(sessionService services.SessionService) *SessionHandlers {
	return &SessionHandlers{sessionService: sessionService}
}

type SessionRequest struct {
	ManagerCode string  `json:"manager_code"`
	EmployeeID  *string `json:"employee_id,omitempty"`
}

// CreateSession exchanges a manager code, and optionally an approved
// employee id, for a bearer token.
// @Summary Open session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body SessionRequest true "Credentials"
// @Success 201 {object} services.Session
// @Failure 401 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandlers) CreateSession(c echo.Context) error {
	var req SessionRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}

	var employeeID *uuid.UUID
	if req.EmployeeID != nil && strings.TrimSpace(*req.EmployeeID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*req.EmployeeID))
		if err != nil {
			return common.SendError(c, common.ErrEmployeeNotFound)
		}
		employeeID = &id
	}

	session, err := h.sessionService.Issue(c.Request().Context(), req.ManagerCode, employeeID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}
