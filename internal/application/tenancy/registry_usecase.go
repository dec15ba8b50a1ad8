// Package tenancy implementa el registro autoritativo de tenants: el mapeo
// organización → store físico, su estado de ciclo de vida y su plan.
package tenancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// Provisioner crea el store físico de un tenant recién registrado y le aplica
// el esquema. Lo implementa la infraestructura.
type Provisioner interface {
	Provision(ctx context.Context, storeName string) error
}

// RegistryUseCase único escritor del estado de tenants. Se inicializa una vez
// al arranque del proceso; nadie más arma connection strings ni adivina
// nombres de store.
type RegistryUseCase struct {
	repo        repository.RegistryRepository
	provisioner Provisioner
	storePrefix string
	log         *logger.Logger
}

// NewRegistryUseCase construye el caso de uso del registro.
func NewRegistryUseCase(repo repository.RegistryRepository, provisioner Provisioner, storePrefix string, log *logger.Logger) *RegistryUseCase {
	return &RegistryUseCase{repo: repo, provisioner: provisioner, storePrefix: storePrefix, log: log}
}

// RegisterInput entrada para dar de alta un tenant.
type RegisterInput struct {
	OrganizationID   string
	OrganizationName string
	Plan             string
	EnabledFeatures  []string
}

// Register alta idempotente de un tenant. El storeName se deriva de forma
// determinista; un alta repetida devuelve la entrada existente. Solo falla con
// ErrDuplicateOrganization si la entrada existente tiene OTRO storeName para
// el mismo id: eso es corrupción de datos, no una carrera normal.
func (uc *RegistryUseCase) Register(ctx context.Context, in RegisterInput) (*entity.RegistryEntry, error) {
	if !entity.ValidOrganizationID(in.OrganizationID) {
		return nil, fmt.Errorf("organizationId %q: %w", in.OrganizationID, domain.ErrInvalidInput)
	}

	storeName := entity.StoreName(uc.storePrefix, in.OrganizationID)

	existing, err := uc.repo.GetByOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("consultar registro: %w", err)
	}
	if existing != nil {
		if existing.StoreName != storeName {
			return nil, fmt.Errorf("organización %s apunta a %s, se esperaba %s: %w",
				in.OrganizationID, existing.StoreName, storeName, domain.ErrDuplicateOrganization)
		}
		return existing, nil
	}

	now := time.Now().UTC()
	plan := in.Plan
	if plan == "" {
		plan = "standard"
	}
	entry := &entity.RegistryEntry{
		OrganizationID:       in.OrganizationID,
		OrganizationName:     in.OrganizationName,
		StoreName:            storeName,
		Status:               entity.TenantActive,
		StoreProvisionStatus: entity.ProvisionPending,
		Subscription:         entity.Subscription{Plan: plan, Status: "active"},
		EnabledFeatures:      in.EnabledFeatures,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrganization) {
			// Otra alta concurrente ganó entre el Get y el Create. Si la
			// entrada que quedó apunta al mismo store, el perdedor devuelve
			// esa entrada como éxito idempotente; el error se reserva para un
			// storeName distinto.
			winner, gerr := uc.repo.GetByOrganization(ctx, in.OrganizationID)
			if gerr != nil {
				return nil, fmt.Errorf("resolver alta concurrente: %w", gerr)
			}
			if winner == nil {
				return nil, fmt.Errorf("conflicto de registro sin entrada visible: %w", err)
			}
			if winner.StoreName != storeName {
				return nil, fmt.Errorf("organización %s apunta a %s, se esperaba %s: %w",
					in.OrganizationID, winner.StoreName, storeName, domain.ErrDuplicateOrganization)
			}
			return winner, nil
		}
		return nil, fmt.Errorf("crear entrada de registro: %w", err)
	}

	if uc.provisioner != nil {
		if err := uc.provisioner.Provision(ctx, storeName); err != nil {
			// El registro queda; el store se marca degradado para reintento manual.
			uc.log.Error().Err(err).Str("organization_id", in.OrganizationID).
				Str("store", storeName).Msg("aprovisionamiento del store falló")
			if uerr := uc.repo.UpdateProvisionStatus(ctx, in.OrganizationID, entity.ProvisionDegraded); uerr != nil {
				return nil, fmt.Errorf("marcar store degradado: %w", uerr)
			}
			entry.StoreProvisionStatus = entity.ProvisionDegraded
			return entry, nil
		}
		if err := uc.repo.UpdateProvisionStatus(ctx, in.OrganizationID, entity.ProvisionActive); err != nil {
			return nil, fmt.Errorf("marcar store activo: %w", err)
		}
		entry.StoreProvisionStatus = entity.ProvisionActive
	}

	uc.log.Info().Str("organization_id", in.OrganizationID).Str("store", storeName).Msg("tenant registrado")
	return entry, nil
}

// Resolve traduce organizationId → entrada del registro. Nunca infiere un
// storeName cuando el registro niega la existencia: si no está, ErrTenantNotFound;
// si no está activo, ErrTenantSuspended. Estos errores no se reintentan.
func (uc *RegistryUseCase) Resolve(ctx context.Context, organizationID string) (*entity.RegistryEntry, error) {
	entry, err := uc.repo.GetByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("consultar registro: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("organización %s: %w", organizationID, domain.ErrTenantNotFound)
	}
	if entry.Status != entity.TenantActive {
		return nil, fmt.Errorf("organización %s en estado %s: %w", organizationID, entry.Status, domain.ErrTenantSuspended)
	}
	return entry, nil
}

// Archive marca el tenant como archivado. No borra nada: los datos del store
// quedan intactos y la entrada del registro permanece. Revertirlo es una
// intervención manual fuera de este componente.
func (uc *RegistryUseCase) Archive(ctx context.Context, organizationID string) error {
	entry, err := uc.repo.GetByOrganization(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("consultar registro: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("organización %s: %w", organizationID, domain.ErrTenantNotFound)
	}
	if entry.Status == entity.TenantArchived {
		return nil
	}
	if err := uc.repo.UpdateStatus(ctx, organizationID, entity.TenantArchived); err != nil {
		return fmt.Errorf("archivar tenant: %w", err)
	}
	uc.log.Info().Str("organization_id", organizationID).Msg("tenant archivado")
	return nil
}

// HasFeature consulta si un tenant activo tiene habilitada una funcionalidad.
func (uc *RegistryUseCase) HasFeature(ctx context.Context, organizationID, feature string) (bool, error) {
	entry, err := uc.Resolve(ctx, organizationID)
	if err != nil {
		return false, err
	}
	return entry.HasFeature(feature), nil
}

// ListActive devuelve los tenants activos (para el scheduler de reconciliación).
func (uc *RegistryUseCase) ListActive(ctx context.Context) ([]*entity.RegistryEntry, error) {
	return uc.repo.ListActive(ctx)
}
