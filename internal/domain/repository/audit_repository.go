package repository

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// AuditRepository puerto de persistencia del log de reparaciones. Filtrar por
// regla dangling-manual-review da la cola de revisión manual; Anomaly=true
// marca las reparaciones que fabricaron datos.
type AuditRepository interface {
	Record(ctx context.Context, a *entity.RepairAudit) error
	List(ctx context.Context, limit, offset int) ([]*entity.RepairAudit, error)
}
