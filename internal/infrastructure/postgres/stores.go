package postgres

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.TenantStoreProvider = (*StoreProvider)(nil)

// StoreProvider implementa repository.TenantStoreProvider sobre el
// TenantManager: resuelve el pool del tenant y ata los repositorios a él.
// Los repos son stateless, construirlos por petición no cuesta nada.
type StoreProvider struct {
	manager *TenantManager
}

// NewStoreProvider construye el proveedor de stores por tenant.
func NewStoreProvider(manager *TenantManager) *StoreProvider {
	return &StoreProvider{manager: manager}
}

// Stores devuelve el bundle de repositorios atado al store del tenant.
func (p *StoreProvider) Stores(ctx context.Context, organizationID string) (*repository.TenantStores, error) {
	pool, err := p.manager.Acquire(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &repository.TenantStores{
		Candidates:   NewCandidateRepository(pool),
		Onboardings:  NewOnboardingRepository(pool),
		Employees:    NewEmployeeRepository(pool),
		Offboardings: NewOffboardingRepository(pool),
		Audits:       NewAuditRepository(pool),
	}, nil
}
