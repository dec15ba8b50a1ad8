package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.OffboardingRepository = (*OffboardingRepo)(nil)

// OffboardingRepo implementación del puerto OffboardingRepository sobre el
// store del tenant. El snapshot viaja como JSONB: el documento crudo queda
// confinado a esta columna.
type OffboardingRepo struct {
	db DB
}

// NewOffboardingRepository construye el adaptador de persistencia de offboardings.
func NewOffboardingRepository(db DB) *OffboardingRepo {
	return &OffboardingRepo{db: db}
}

const offboardingColumns = `id, employee_id, reason, status, employee_snapshot, last_working_day, closed_at, created_at, updated_at`

// Create persiste un nuevo offboarding.
func (r *OffboardingRepo) Create(ctx context.Context, o *entity.OffboardingRecord) error {
	snap, err := marshalSnapshot(o.Snapshot)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO offboardings (` + offboardingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.Exec(ctx, query,
		o.ID, o.EmployeeID, o.Reason, o.Status, snap, o.LastWorkingDay, o.ClosedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offboarding: %w", err)
	}
	return nil
}

// GetByID obtiene un offboarding por ID, nil si no existe.
func (r *OffboardingRepo) GetByID(ctx context.Context, id string) (*entity.OffboardingRecord, error) {
	query := `SELECT ` + offboardingColumns + ` FROM offboardings WHERE id = $1`
	o, err := scanOffboarding(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offboarding by id: %w", err)
	}
	return o, nil
}

// SetStatus actualiza la etapa del offboarding.
func (r *OffboardingRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE offboardings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update offboarding status: %w", err)
	}
	return nil
}

// WriteSnapshot persiste el snapshot con compare-and-set sobre NULL: si otro
// cierre ya lo escribió, esta escritura no toca nada y la operación sigue
// siendo un éxito (el snapshot existente es el válido).
func (r *OffboardingRepo) WriteSnapshot(ctx context.Context, id string, snap *entity.EmployeeSnapshot) error {
	doc, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE offboardings SET employee_snapshot = $2, updated_at = now()
		 WHERE id = $1 AND employee_snapshot IS NULL`,
		id, doc,
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// O el registro no existe, o el snapshot ya estaba: distinguimos.
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if !existing.HasSnapshot() {
			return fmt.Errorf("snapshot de %s no persistió: %w", id, domain.ErrConflict)
		}
	}
	return nil
}

// Close marca el offboarding como cerrado.
func (r *OffboardingRepo) Close(ctx context.Context, id string, closedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE offboardings SET status = $2, closed_at = $3, updated_at = now() WHERE id = $1`,
		id, entity.OffboardingClosed, closedAt,
	)
	if err != nil {
		return fmt.Errorf("close offboarding: %w", err)
	}
	return nil
}

// ListOpen registros no cerrados.
func (r *OffboardingRepo) ListOpen(ctx context.Context) ([]*entity.OffboardingRecord, error) {
	query := `SELECT ` + offboardingColumns + ` FROM offboardings
		WHERE status <> $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, entity.OffboardingClosed)
	if err != nil {
		return nil, fmt.Errorf("list open offboardings: %w", err)
	}
	defer rows.Close()
	var list []*entity.OffboardingRecord
	for rows.Next() {
		o, err := scanOffboarding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offboarding: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// ReassignEmployee reescribe las referencias hacia el sobreviviente de un merge.
func (r *OffboardingRepo) ReassignEmployee(ctx context.Context, fromEmployeeID, toEmployeeID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE offboardings SET employee_id = $2, updated_at = now() WHERE employee_id = $1`,
		fromEmployeeID, toEmployeeID,
	)
	if err != nil {
		return fmt.Errorf("reassign offboarding employee refs: %w", err)
	}
	return nil
}

func scanOffboarding(row pgx.Row) (*entity.OffboardingRecord, error) {
	var o entity.OffboardingRecord
	var snap []byte
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Reason, &o.Status, &snap,
		&o.LastWorkingDay, &o.ClosedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(snap) > 0 {
		var s entity.EmployeeSnapshot
		if err := json.Unmarshal(snap, &s); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		o.Snapshot = &s
	}
	return &o, nil
}

func marshalSnapshot(snap *entity.EmployeeSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, nil
	}
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return doc, nil
}
