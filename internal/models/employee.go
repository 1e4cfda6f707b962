package models

import (
	"time"

	"github.com/google/uuid"
)

type EmployeeStatus string

const (
	EmployeeStatusPending  EmployeeStatus = "pending"
	EmployeeStatusApproved EmployeeStatus = "approved"
	EmployeeStatusRemoved  EmployeeStatus = "removed"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusPending, EmployeeStatusApproved, EmployeeStatusRemoved:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows s -> next.
// There is no way back to pending.
func (s EmployeeStatus) CanTransitionTo(next EmployeeStatus) bool {
	switch s {
	case EmployeeStatusPending:
		return next == EmployeeStatusApproved || next == EmployeeStatusRemoved
	case EmployeeStatusApproved:
		return next == EmployeeStatusRemoved
	}
	return false
}

// Permission is the level granted to an approved employee.
type Permission string

const (
	PermissionSalesOnly           Permission = "sales_only"
	PermissionInventoryManagement Permission = "inventory_management"
	PermissionDeputyManager       Permission = "deputy_manager"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionSalesOnly, PermissionInventoryManagement, PermissionDeputyManager:
		return true
	}
	return false
}

type Employee struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	TenantID    uuid.UUID      `json:"-" db:"tenant_id"`
	Name        string         `json:"name" db:"name"`
	Status      EmployeeStatus `json:"status" db:"status"`
	Permissions Permission     `json:"permissions" db:"permissions"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// EmployeeRemoval describes a completed reject or remove. PreviousStatus
// tells the two apart.
type EmployeeRemoval struct {
	Employee       *Employee      `json:"employee"`
	PreviousStatus EmployeeStatus `json:"removed_from"`
}
