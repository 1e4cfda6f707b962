package models

import "github.com/google/uuid"

// Role is the effective access level of a caller within one tenant.
// Higher values include the lower ones.
type Role int

const (
	RoleSalesOnly Role = iota + 1
	RoleInventoryManagement
	RoleDeputyManager
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleSalesOnly:
		return string(PermissionSalesOnly)
	case RoleInventoryManagement:
		return string(PermissionInventoryManagement)
	case RoleDeputyManager:
		return string(PermissionDeputyManager)
	case RoleManager:
		return "manager"
	}
	return "none"
}

// RoleFromPermission maps an employee permission onto a role.
func RoleFromPermission(p Permission) Role {
	switch p {
	case PermissionInventoryManagement:
		return RoleInventoryManagement
	case PermissionDeputyManager:
		return RoleDeputyManager
	default:
		return RoleSalesOnly
	}
}

// Actor is the resolved caller of a tenant-scoped request.
type Actor struct {
	Tenant   *Tenant
	Role     Role
	Employee *Employee
}

func (a *Actor) TenantID() uuid.UUID {
	return a.Tenant.ID
}

func (a *Actor) Allows(min Role) bool {
	return a.Role >= min
}

// DisplayName is the name recorded on sales made by this actor.
func (a *Actor) DisplayName() *string {
	if a.Employee == nil {
		return nil
	}
	name := a.Employee.Name
	return &name
}
