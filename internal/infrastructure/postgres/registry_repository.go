package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

var _ repository.RegistryRepository = (*RegistryRepo)(nil)

// RegistryRepo implementación del puerto RegistryRepository sobre la base
// global del registro.
type RegistryRepo struct {
	db DB
}

// NewRegistryRepository construye el adaptador de persistencia del registro.
func NewRegistryRepository(db DB) *RegistryRepo {
	return &RegistryRepo{db: db}
}

const registryColumns = `organization_id, organization_name, store_name, status, store_provision_status,
		plan, plan_status, enabled_features, created_at, updated_at`

// Create persiste una nueva entrada del registro.
func (r *RegistryRepo) Create(ctx context.Context, e *entity.RegistryEntry) error {
	query := `
		INSERT INTO tenant_registry (` + registryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		e.OrganizationID, e.OrganizationName, e.StoreName, e.Status, e.StoreProvisionStatus,
		e.Subscription.Plan, e.Subscription.Status, e.EnabledFeatures, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrganization
		}
		return fmt.Errorf("insert registry entry: %w", err)
	}
	return nil
}

// GetByOrganization obtiene la entrada de una organización, nil si no existe.
func (r *RegistryRepo) GetByOrganization(ctx context.Context, organizationID string) (*entity.RegistryEntry, error) {
	query := `SELECT ` + registryColumns + ` FROM tenant_registry WHERE organization_id = $1`
	var e entity.RegistryEntry
	err := r.db.QueryRow(ctx, query, organizationID).Scan(
		&e.OrganizationID, &e.OrganizationName, &e.StoreName, &e.Status, &e.StoreProvisionStatus,
		&e.Subscription.Plan, &e.Subscription.Status, &e.EnabledFeatures, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registry entry: %w", err)
	}
	return &e, nil
}

// UpdateStatus cambia el estado de ciclo de vida del tenant.
func (r *RegistryRepo) UpdateStatus(ctx context.Context, organizationID, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tenant_registry SET status = $2, updated_at = now() WHERE organization_id = $1`,
		organizationID, status,
	)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// UpdateProvisionStatus cambia el estado de aprovisionamiento del store.
func (r *RegistryRepo) UpdateProvisionStatus(ctx context.Context, organizationID, provisionStatus string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tenant_registry SET store_provision_status = $2, updated_at = now() WHERE organization_id = $1`,
		organizationID, provisionStatus,
	)
	if err != nil {
		return fmt.Errorf("update provision status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// ListActive lista los tenants activos.
func (r *RegistryRepo) ListActive(ctx context.Context) ([]*entity.RegistryEntry, error) {
	query := `SELECT ` + registryColumns + ` FROM tenant_registry WHERE status = 'active' ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.RegistryEntry
	for rows.Next() {
		var e entity.RegistryEntry
		if err := rows.Scan(
			&e.OrganizationID, &e.OrganizationName, &e.StoreName, &e.Status, &e.StoreProvisionStatus,
			&e.Subscription.Plan, &e.Subscription.Status, &e.EnabledFeatures, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan registry entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
