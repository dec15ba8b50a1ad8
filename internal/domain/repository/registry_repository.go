package repository

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// RegistryRepository puerto de persistencia del registro global de tenants (DIP).
// El registro es el ÚNICO escritor del estado de un tenant; el resto del
// sistema solo lo lee.
type RegistryRepository interface {
	Create(ctx context.Context, entry *entity.RegistryEntry) error
	GetByOrganization(ctx context.Context, organizationID string) (*entity.RegistryEntry, error)
	UpdateStatus(ctx context.Context, organizationID, status string) error
	UpdateProvisionStatus(ctx context.Context, organizationID, provisionStatus string) error
	ListActive(ctx context.Context) ([]*entity.RegistryEntry, error)
}
