package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.OnboardingRepository = (*OnboardingRepo)(nil)

// OnboardingRepo implementación del puerto OnboardingRepository sobre el store
// del tenant.
type OnboardingRepo struct {
	db DB
}

// NewOnboardingRepository construye el adaptador de persistencia de onboardings.
func NewOnboardingRepository(db DB) *OnboardingRepo {
	return &OnboardingRepo{db: db}
}

const onboardingColumns = `id, candidate_id, job_id, status, employee_id, first_name, last_name, email, phone, start_date, created_at, updated_at`

// Create persiste un nuevo onboarding.
func (r *OnboardingRepo) Create(ctx context.Context, o *entity.OnboardingRecord) error {
	query := `
		INSERT INTO onboardings (` + onboardingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.CandidateID, o.JobID, o.Status, o.EmployeeID,
		o.FirstName, o.LastName, o.Email, o.Phone, o.StartDate, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert onboarding: %w", err)
	}
	return nil
}

// GetByID obtiene un onboarding por ID, nil si no existe.
func (r *OnboardingRepo) GetByID(ctx context.Context, id string) (*entity.OnboardingRecord, error) {
	query := `SELECT ` + onboardingColumns + ` FROM onboardings WHERE id = $1`
	o, err := scanOnboarding(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get onboarding by id: %w", err)
	}
	return o, nil
}

// SetStatus actualiza el estado del onboarding.
func (r *OnboardingRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE onboardings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update onboarding status: %w", err)
	}
	return nil
}

// LinkEmployee escribe la back-reference y marca completed en una sola sentencia.
func (r *OnboardingRepo) LinkEmployee(ctx context.Context, id, employeeID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE onboardings SET employee_id = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, employeeID, entity.OnboardingCompleted,
	)
	if err != nil {
		return fmt.Errorf("link employee to onboarding: %w", err)
	}
	return nil
}

// ListCompletedUnlinked registros completed sin employee_id.
func (r *OnboardingRepo) ListCompletedUnlinked(ctx context.Context) ([]*entity.OnboardingRecord, error) {
	query := `SELECT ` + onboardingColumns + ` FROM onboardings
		WHERE status = $1 AND employee_id IS NULL ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, entity.OnboardingCompleted)
	if err != nil {
		return nil, fmt.Errorf("list unlinked onboardings: %w", err)
	}
	defer rows.Close()
	return collectOnboardings(rows)
}

// ListLinked registros con employee_id poblado.
func (r *OnboardingRepo) ListLinked(ctx context.Context) ([]*entity.OnboardingRecord, error) {
	query := `SELECT ` + onboardingColumns + ` FROM onboardings
		WHERE employee_id IS NOT NULL ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list linked onboardings: %w", err)
	}
	defer rows.Close()
	return collectOnboardings(rows)
}

// ReassignEmployee reescribe las referencias hacia el sobreviviente de un merge.
func (r *OnboardingRepo) ReassignEmployee(ctx context.Context, fromEmployeeID, toEmployeeID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE onboardings SET employee_id = $2, updated_at = now() WHERE employee_id = $1`,
		fromEmployeeID, toEmployeeID,
	)
	if err != nil {
		return fmt.Errorf("reassign onboarding employee refs: %w", err)
	}
	return nil
}

func scanOnboarding(row pgx.Row) (*entity.OnboardingRecord, error) {
	var o entity.OnboardingRecord
	err := row.Scan(
		&o.ID, &o.CandidateID, &o.JobID, &o.Status, &o.EmployeeID,
		&o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.StartDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOnboardings(rows pgx.Rows) ([]*entity.OnboardingRecord, error) {
	var list []*entity.OnboardingRecord
	for rows.Next() {
		o, err := scanOnboarding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan onboarding: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
