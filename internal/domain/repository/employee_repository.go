package repository

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia para la colección canónica de
// empleados. La unicidad del fingerprint vivo la garantiza el store (índice
// único parcial); Create debe traducir esa violación a ErrDuplicateIdentity.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetActiveByFingerprint(ctx context.Context, fingerprint string) (*entity.Employee, error)
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	// ListAllActive sin paginar, para el pase de reconciliación.
	ListAllActive(ctx context.Context) ([]*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	// Delete purga el registro vivo. Solo lo invoca el cierre de offboarding
	// (después de confirmar el snapshot) y el merge del reconciliador.
	Delete(ctx context.Context, id string) error
}
