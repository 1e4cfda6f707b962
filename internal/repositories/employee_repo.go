package repositories

import (
	"context"
	"fmt"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error)
	// UpdateStatus moves an employee from one status to another. It fails
	// with a conflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to models.EmployeeStatus) (*models.Employee, error)
	UpdatePermission(ctx context.Context, tenantID, id uuid.UUID, permission models.Permission) (*models.Employee, error)
	List(ctx context.Context, tenantID uuid.UUID, status *models.EmployeeStatus) ([]*models.Employee, error)
}

var errEmployeeStatusChanged = common.Conflict("employee_status_changed", "employee status changed concurrently")

type employeeRepo struct {
	db DBTX
}

func NewEmployeeRepo(db DBTX) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, tenant_id, name, status, permissions, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	e := &models.Employee{}
	var status, permissions string
	if err := row.Scan(&e.ID, &e.TenantID, &e.Name, &status, &permissions, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = models.EmployeeStatus(status)
	e.Permissions = models.Permission(permissions)
	return e, nil
}

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, tenant_id, name, status, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, employee.ID, employee.TenantID, employee.Name, string(employee.Status), string(employee.Permissions)).
		Scan(&employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND id = $2`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, tenantID, id))
	if isNoRows(err) {
		return nil, common.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return employee, nil
}

func (r *employeeRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to models.EmployeeStatus) (*models.Employee, error) {
	query := `
		UPDATE employees SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND status = $4
		RETURNING ` + employeeColumns
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, string(to), tenantID, id, string(from)))
	if isNoRows(err) {
		return nil, errEmployeeStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("update employee status: %w", err)
	}
	return employee, nil
}

func (r *employeeRepo) UpdatePermission(ctx context.Context, tenantID, id uuid.UUID, permission models.Permission) (*models.Employee, error) {
	query := `
		UPDATE employees SET permissions = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND status <> 'removed'
		RETURNING ` + employeeColumns
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, string(permission), tenantID, id))
	if isNoRows(err) {
		return nil, common.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update employee permission: %w", err)
	}
	return employee, nil
}

// List returns employees in creation order. A nil status lists everyone
// except removed employees.
func (r *employeeRepo) List(ctx context.Context, tenantID uuid.UUID, status *models.EmployeeStatus) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND status <> 'removed' ORDER BY created_at, id`
	args := []any{tenantID}
	if status != nil {
		query = `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND status = $2 ORDER BY created_at, id`
		args = append(args, string(*status))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}
