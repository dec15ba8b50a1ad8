package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre el store del tenant.
type AuditRepo struct {
	db DB
}

// NewAuditRepository construye el adaptador de persistencia del log de reparaciones.
func NewAuditRepository(db DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record persiste una entrada de auditoría.
func (r *AuditRepo) Record(ctx context.Context, a *entity.RepairAudit) error {
	query := `
		INSERT INTO repair_audits (id, rule, record_kind, record_id, before_doc, after_doc, anomaly, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Rule, a.RecordKind, a.RecordID, a.Before, a.After, a.Anomaly, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert repair audit: %w", err)
	}
	return nil
}

// List entradas de auditoría más recientes primero (el ID KSUID ordena por tiempo).
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.RepairAudit, error) {
	query := `
		SELECT id, rule, record_kind, record_id, before_doc, after_doc, anomaly, created_at
		FROM repair_audits ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list repair audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.RepairAudit
	for rows.Next() {
		var a entity.RepairAudit
		if err := rows.Scan(&a.ID, &a.Rule, &a.RecordKind, &a.RecordID, &a.Before, &a.After, &a.Anomaly, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan repair audit: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
