package repository

import (
	"context"
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// OffboardingRepository puerto de persistencia para OffboardingRecord.
type OffboardingRepository interface {
	Create(ctx context.Context, o *entity.OffboardingRecord) error
	GetByID(ctx context.Context, id string) (*entity.OffboardingRecord, error)
	SetStatus(ctx context.Context, id, status string) error
	// WriteSnapshot persiste el snapshot SOLO si aún no existe (compare-and-set
	// sobre NULL). Un snapshot escrito es inmutable; reintentar el cierre no
	// debe re-capturarlo ni sobreescribirlo.
	WriteSnapshot(ctx context.Context, id string, snap *entity.EmployeeSnapshot) error
	Close(ctx context.Context, id string, closedAt time.Time) error
	// ListOpen registros no cerrados, para el escaneo de referencias colgantes.
	ListOpen(ctx context.Context) ([]*entity.OffboardingRecord, error)
	ReassignEmployee(ctx context.Context, fromEmployeeID, toEmployeeID string) error
}
