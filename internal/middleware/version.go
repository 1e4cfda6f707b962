package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}

// VersionMiddleware stamps responses with the API version.
type VersionMiddleware struct {
	current APIVersion
}

func NewVersionMiddleware(version, message string) *VersionMiddleware {
	return &VersionMiddleware{current: APIVersion{Version: version, Message: message}}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", vm.current.Version)
			if vm.current.Message != "" {
				c.Response().Header().Set("X-API-Message", vm.current.Message)
			}
			return next(c)
		}
	}
}
