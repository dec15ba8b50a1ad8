package repository

import "context"

// TenantStores agrupa los repositorios atados al store físico de UN tenant.
// Los casos de uso reciben el bundle ya resuelto y nunca construyen
// connection strings por su cuenta.
type TenantStores struct {
	Candidates   CandidateRepository
	Onboardings  OnboardingRepository
	Employees    EmployeeRepository
	Offboardings OffboardingRepository
	Audits       AuditRepository
}

// TenantStoreProvider resuelve un organizationId al bundle de repositorios de
// su store. La implementación (Connection Manager) cachea y coalesce la
// apertura de conexiones; aquí solo importa el contrato.
type TenantStoreProvider interface {
	Stores(ctx context.Context, organizationID string) (*TenantStores, error)
}
