// @title StorePOS API
// @version 1.0.0
// @description Multi-tenant point of sale: catalog, staff, sales ledger and statistics.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey ManagerCode
// @in header
// @name X-Manager-Code

package handlers

import (
	"storepos/internal/middleware"
	"storepos/internal/models"

	"github.com/labstack/echo/v4"
)

// Router groups every handler set mounted under /api.
type Router struct {
	Tenants    *TenantHandlers
	Sessions   *SessionHandlers
	Employees  *EmployeeHandlers
	Products   *ProductHandlers
	Sales      *SaleHandlers
	Statistics *StatisticsHandlers
	Settings   *SettingsHandlers
	Export     *ExportHandlers
	Health     *HealthHandlers
}

// Register mounts the public and tenant-scoped routes on e. Extra
// middlewares apply to the whole /api group.
func (r *Router) Register(e *echo.Echo, rbac *middleware.RBACMiddleware, audit *middleware.AuditMiddleware, api ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/health/live", r.Health.LivenessCheck)

	g := e.Group("/api", api...)

	// public: the manager code is the capability
	g.POST("/managers", r.Tenants.CreateManager)
	g.POST("/managers/activate", r.Tenants.ActivatePro)
	g.GET("/managers/:code", r.Tenants.GetManager)
	g.PUT("/managers/:code/regenerate", r.Tenants.RegenerateCode)
	g.POST("/sessions", r.Sessions.CreateSession)
	g.POST("/employees", r.Employees.RequestJoin)

	store := g.Group("", rbac.ResolveActor(), audit.AuditRequest())

	sales := rbac.RequireRole(models.RoleSalesOnly)
	inventory := rbac.RequireRole(models.RoleInventoryManagement)
	deputy := rbac.RequireRole(models.RoleDeputyManager)
	manager := rbac.RequireRole(models.RoleManager)

	store.GET("/employees", r.Employees.ListEmployees, deputy)
	store.PUT("/employees/permissions", r.Employees.SetPermissions, deputy, rbac.RequirePro())
	store.PUT("/employees/:id/status", r.Employees.UpdateStatus, deputy)
	store.DELETE("/employees/:id", r.Employees.RemoveEmployee, deputy)

	store.GET("/products", r.Products.ListProducts, sales)
	store.GET("/products/barcode/:barcode", r.Products.GetProductByBarcode, sales)
	store.GET("/products/:id", r.Products.GetProduct, sales)
	store.POST("/products", r.Products.CreateProduct, inventory)
	store.PUT("/products/:id", r.Products.UpdateProduct, inventory)
	store.DELETE("/products/:id", r.Products.DeleteProduct, inventory)

	store.POST("/sales", r.Sales.CreateSale, sales)
	store.GET("/sales", r.Sales.ListSales, sales)
	store.GET("/sales/:id", r.Sales.GetSale, sales)
	store.DELETE("/sales", r.Sales.DeleteAllSales, manager)

	store.GET("/statistics", r.Statistics.GetStatistics, sales)

	store.GET("/settings", r.Settings.GetSettings, sales)
	store.PUT("/settings", r.Settings.UpdateSettings, manager)
	store.POST("/settings/reset-profits", r.Settings.ResetProfits, manager)
	store.DELETE("/settings/reset-all", r.Settings.ResetAll, manager)

	store.GET("/export", r.Export.Export, manager, rbac.RequirePro())
}
