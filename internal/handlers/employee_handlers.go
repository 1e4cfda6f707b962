package handlers

import (
	"net/http"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EmployeeHandlers handles join requests and staff management
type EmployeeHandlers struct {
	employeeService services.EmployeeService
}

func NewEmployeeHandlers(employeeService services.EmployeeService) *EmployeeHandlers {
	return &EmployeeHandlers{employeeService: employeeService}
}

type JoinRequest struct {
	Name        string `json:"name"`
	ManagerCode string `json:"manager_code"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type PermissionRequest struct {
	EmployeeID  uuid.UUID         `json:"employee_id"`
	Permissions models.Permission `json:"permissions"`
}

// RequestJoin files a pending join request against a store
// @Summary Request to join a store
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Join request"
// @Success 201 {object} models.Employee
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandlers) RequestJoin(c echo.Context) error {
	var req JoinRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}
	employee, err := h.employeeService.RequestJoin(c.Request().Context(), req.ManagerCode, req.Name)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, employee)
}

// ListEmployees lists staff, optionally filtered by status
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param status query string false "pending, approved or removed"
// @Success 200 {array} models.Employee
// @Security BearerAuth
// @Router /employees [get]
func (h *EmployeeHandlers) ListEmployees(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var status *models.EmployeeStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.EmployeeStatus(raw)
		if !s.Valid() {
			return common.SendError(c, common.ErrInvalidStatus)
		}
		status = &s
	}

	employees, err := h.employeeService.List(c.Request().Context(), actor.TenantID(), status)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

// UpdateStatus approves, rejects or removes an employee
// @Summary Change employee status
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body StatusRequest true "approved, rejected or removed"
// @Success 200 {object} map[string]any
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/status [put]
func (h *EmployeeHandlers) UpdateStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrEmployeeNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}

	ctx := c.Request().Context()
	switch req.Status {
	case string(models.EmployeeStatusApproved):
		employee, err := h.employeeService.Approve(ctx, actor.TenantID(), id)
		if err != nil {
			return common.SendError(c, err)
		}
		return c.JSON(http.StatusOK, employee)
	case "rejected", string(models.EmployeeStatusRemoved):
		removal, err := h.employeeService.Remove(ctx, actor.TenantID(), id)
		if err != nil {
			return common.SendError(c, err)
		}
		return c.JSON(http.StatusOK, removal)
	default:
		return common.SendError(c, common.ErrInvalidStatus)
	}
}

// RemoveEmployee rejects a pending request or removes an approved employee
// @Summary Remove employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.EmployeeRemoval
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [delete]
func (h *EmployeeHandlers) RemoveEmployee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := pathID(c, "id", common.ErrEmployeeNotFound)
	if err != nil {
		return common.SendError(c, err)
	}
	removal, err := h.employeeService.Remove(c.Request().Context(), actor.TenantID(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, removal)
}

// SetPermissions changes the permission level of an employee
// @Summary Set employee permissions
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body PermissionRequest true "Permission change"
// @Success 200 {object} models.Employee
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /employees/permissions [put]
func (h *EmployeeHandlers) SetPermissions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	var req PermissionRequest
	if err := bind(c, &req); err != nil {
		return common.SendError(c, err)
	}
	if req.EmployeeID == uuid.Nil {
		return common.SendError(c, common.ErrEmployeeNotFound)
	}
	employee, err := h.employeeService.SetPermission(c.Request().Context(), actor.TenantID(), req.EmployeeID, req.Permissions)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, employee)
}
