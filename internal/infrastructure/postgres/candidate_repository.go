package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.CandidateRepository = (*CandidateRepo)(nil)

// CandidateRepo implementación del puerto CandidateRepository sobre el store
// del tenant.
type CandidateRepo struct {
	db DB
}

// NewCandidateRepository construye el adaptador de persistencia de candidatos.
func NewCandidateRepository(db DB) *CandidateRepo {
	return &CandidateRepo{db: db}
}

const candidateColumns = `id, first_name, last_name, email, phone, fingerprint, stage, master_candidate_id, created_at, updated_at`

// Create persiste un nuevo candidato.
func (r *CandidateRepo) Create(ctx context.Context, c *entity.Candidate) error {
	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Fingerprint, c.Stage,
		c.MasterCandidateID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// GetByID obtiene un candidato por ID, nil si no existe.
func (r *CandidateRepo) GetByID(ctx context.Context, id string) (*entity.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate by id: %w", err)
	}
	return c, nil
}

// ListByFingerprint devuelve el linaje ordenado por created_at ascendente:
// el primero es el master.
func (r *CandidateRepo) ListByFingerprint(ctx context.Context, fingerprint string) ([]*entity.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE fingerprint = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("list candidates by fingerprint: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// SetMaster escribe la referencia débil al master; masterID vacío la limpia
// (promueve el registro a master de su linaje).
func (r *CandidateRepo) SetMaster(ctx context.Context, id, masterID string) error {
	var master *string
	if masterID != "" {
		master = &masterID
	}
	_, err := r.db.Exec(ctx,
		`UPDATE candidates SET master_candidate_id = $2, updated_at = now() WHERE id = $1`,
		id, master,
	)
	if err != nil {
		return fmt.Errorf("set master candidate: %w", err)
	}
	return nil
}

// UpdateStage actualiza la etapa del candidato.
func (r *CandidateRepo) UpdateStage(ctx context.Context, id, stage string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE candidates SET stage = $2, updated_at = now() WHERE id = $1`,
		id, stage,
	)
	if err != nil {
		return fmt.Errorf("update candidate stage: %w", err)
	}
	return nil
}

// AppendApplication agrega una entrada al historial. Nunca toca las existentes.
func (r *CandidateRepo) AppendApplication(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO candidate_applications (id, candidate_id, job_id, applied_date, stage, status, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		app.ID, app.CandidateID, app.JobID, app.AppliedDate, app.Stage, app.Status, app.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// ListApplications historial ordenado por applied_date ascendente.
func (r *CandidateRepo) ListApplications(ctx context.Context, candidateID string) ([]*entity.Application, error) {
	query := `
		SELECT id, candidate_id, job_id, applied_date, stage, status, outcome
		FROM candidate_applications WHERE candidate_id = $1 ORDER BY applied_date, id`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Application
	for rows.Next() {
		var a entity.Application
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.JobID, &a.AppliedDate, &a.Stage, &a.Status, &a.Outcome); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ReassignApplications mueve el historial de un duplicado a su master.
func (r *CandidateRepo) ReassignApplications(ctx context.Context, fromCandidateID, toCandidateID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE candidate_applications SET candidate_id = $2 WHERE candidate_id = $1`,
		fromCandidateID, toCandidateID,
	)
	if err != nil {
		return fmt.Errorf("reassign applications: %w", err)
	}
	return nil
}

// ListAll devuelve todos los candidatos (pase de reconciliación).
func (r *CandidateRepo) ListAll(ctx context.Context) ([]*entity.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func scanCandidate(row pgx.Row) (*entity.Candidate, error) {
	var c entity.Candidate
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Fingerprint, &c.Stage,
		&c.MasterCandidateID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCandidates(rows pgx.Rows) ([]*entity.Candidate, error) {
	var list []*entity.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
