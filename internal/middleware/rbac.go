package middleware

import (
	"strings"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ManagerCodeHeader = "X-Manager-Code"
	EmployeeIDHeader  = "X-Employee-ID"
)

// RBACMiddleware resolves the calling actor and enforces role and tier gates.
type RBACMiddleware struct {
	sessions services.SessionService
}

func NewRBACMiddleware(sessions services.SessionService) *RBACMiddleware {
	return &RBACMiddleware{sessions: sessions}
}

// ResolveActor accepts a bearer session token, or a manager code (header or
// query) with an optional employee id.
func (m *RBACMiddleware) ResolveActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := m.resolve(c)
			if err != nil {
				return common.SendError(c, err)
			}
			ctx := common.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func (m *RBACMiddleware) resolve(c echo.Context) (*models.Actor, error) {
	ctx := c.Request().Context()

	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token == "" {
			return nil, common.ErrInvalidSession
		}
		return m.sessions.ResolveToken(ctx, token)
	}

	code := c.Request().Header.Get(ManagerCodeHeader)
	if code == "" {
		code = c.QueryParam("manager_code")
	}
	if strings.TrimSpace(code) == "" {
		return nil, common.ErrManagerCodeRequired
	}

	rawEmployee := c.Request().Header.Get(EmployeeIDHeader)
	if rawEmployee == "" {
		rawEmployee = c.QueryParam("employee_id")
	}
	var employeeID *uuid.UUID
	if rawEmployee != "" {
		id, err := uuid.Parse(rawEmployee)
		if err != nil {
			return nil, common.ErrEmployeeNotFound
		}
		employeeID = &id
	}
	return m.sessions.Resolve(ctx, code, employeeID)
}

// RequireRole rejects actors below min.
func (m *RBACMiddleware) RequireRole(min models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return common.SendError(c, common.ErrManagerCodeRequired)
			}
			if !actor.Allows(min) {
				return common.SendError(c, common.ErrInsufficientRole.WithDetail("required", min.String()))
			}
			return next(c)
		}
	}
}

// RequirePro rejects tenants on the free tier.
func (m *RBACMiddleware) RequirePro() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return common.SendError(c, common.ErrManagerCodeRequired)
			}
			if !actor.Tenant.IsPro {
				return common.SendError(c, common.ErrProRequired)
			}
			return next(c)
		}
	}
}
