package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación del puerto EmployeeRepository sobre el store del
// tenant. El índice único parcial sobre (fingerprint) WHERE is_active hace
// cumplir el invariante "un Employee vivo por persona" a nivel de store.
type EmployeeRepo struct {
	db DB
}

// NewEmployeeRepository construye el adaptador de persistencia de empleados.
func NewEmployeeRepository(db DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

const employeeColumns = `id, employee_code, first_name, last_name, email, phone, fingerprint, role, salary_monthly, is_active, created_at, updated_at`

// Create persiste un nuevo empleado. Una violación del índice único de
// fingerprint vivo se traduce a ErrDuplicateIdentity: el caso de uso decide si
// la convierte en éxito idempotente.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone, e.Fingerprint,
		e.Role, e.SalaryMonthly, e.IsActive, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID, nil si no existe.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by id: %w", err)
	}
	return e, nil
}

// GetActiveByFingerprint obtiene el empleado vivo con esa huella, nil si no hay.
func (r *EmployeeRepo) GetActiveByFingerprint(ctx context.Context, fingerprint string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE fingerprint = $1 AND is_active`
	e, err := scanEmployee(r.db.QueryRow(ctx, query, fingerprint))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by fingerprint: %w", err)
	}
	return e, nil
}

// ListActive lista empleados vivos con paginación.
func (r *EmployeeRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE is_active ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

// ListAllActive lista todos los empleados vivos (pase de reconciliación).
func (r *EmployeeRepo) ListAllActive(ctx context.Context) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all active employees: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

// Update actualiza un empleado.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	query := `
		UPDATE employees SET employee_code = $2, first_name = $3, last_name = $4, email = $5,
			phone = $6, fingerprint = $7, role = $8, salary_monthly = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone, e.Fingerprint,
		e.Role, e.SalaryMonthly, e.IsActive, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Delete purga el registro vivo por ID.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Fingerprint,
		&e.Role, &e.SalaryMonthly, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEmployees(rows pgx.Rows) ([]*entity.Employee, error) {
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
