package middleware

import (
	"net/http"

	"storepos/internal/common"
	"storepos/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditMiddleware records who changed store data. Reads are not audited.
type AuditMiddleware struct{}

func NewAuditMiddleware() *AuditMiddleware {
	return &AuditMiddleware{}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return err
			}

			fields := []zap.Field{
				zap.String("tenant_id", actor.TenantID().String()),
				zap.String("role", actor.Role.String()),
				zap.String("action", method+" "+c.Path()),
				zap.Int("status", c.Response().Status),
				zap.String("ip", c.RealIP()),
			}
			if actor.Employee != nil {
				fields = append(fields, zap.String("employee_id", actor.Employee.ID.String()))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			logger.FromContext(c.Request().Context()).Named("audit").Info("store data changed", fields...)
			return err
		}
	}
}
