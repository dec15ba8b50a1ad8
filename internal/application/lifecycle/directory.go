package lifecycle

import (
	"context"
	"fmt"

	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

// DirectoryUseCase consultas de solo lectura sobre el store de un tenant:
// el directorio de empleados vivos y el detalle de un candidato con su
// historial consolidado.
type DirectoryUseCase struct {
	provider repository.TenantStoreProvider
}

// NewDirectoryUseCase construye el caso de uso de consultas.
func NewDirectoryUseCase(provider repository.TenantStoreProvider) *DirectoryUseCase {
	return &DirectoryUseCase{provider: provider}
}

// ListEmployees empleados vivos del tenant, paginados.
func (uc *DirectoryUseCase) ListEmployees(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Employee, error) {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return stores.Employees.ListActive(ctx, limit, offset)
}

// GetEmployee devuelve un empleado vivo por ID. Los purgados por un cierre de
// offboarding ya no existen como registro consultable: not found.
func (uc *DirectoryUseCase) GetEmployee(ctx context.Context, organizationID, employeeID string) (*entity.Employee, error) {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	emp, err := stores.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("buscar employee: %w", err)
	}
	if emp == nil || !emp.IsActive {
		return nil, fmt.Errorf("employee %s: %w", employeeID, domain.ErrNotFound)
	}
	return emp, nil
}

// CandidateDetail candidato más su historial consolidado. DanglingMaster se
// enciende cuando la referencia al master no resuelve: la lectura degrada al
// historial propio y deja la reparación al reconciliador.
type CandidateDetail struct {
	Candidate      *entity.Candidate
	Applications   []*entity.Application
	DanglingMaster bool
}

// GetCandidate devuelve el candidato y su historial de aplicaciones. Si el
// registro es un duplicado enlazado, el historial es el del master (donde se
// consolidó la deduplicación).
func (uc *DirectoryUseCase) GetCandidate(ctx context.Context, organizationID, candidateID string) (*CandidateDetail, error) {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	cand, err := stores.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("buscar candidato: %w", err)
	}
	if cand == nil {
		return nil, fmt.Errorf("candidato %s: %w", candidateID, domain.ErrNotFound)
	}

	detail := &CandidateDetail{Candidate: cand}
	historyOwner := cand.ID
	if cand.MasterCandidateID != nil {
		master, err := stores.Candidates.GetByID(ctx, *cand.MasterCandidateID)
		if err != nil {
			return nil, fmt.Errorf("resolver master: %w", err)
		}
		if master == nil {
			detail.DanglingMaster = true
		} else {
			historyOwner = master.ID
		}
	}
	apps, err := stores.Candidates.ListApplications(ctx, historyOwner)
	if err != nil {
		return nil, fmt.Errorf("listar aplicaciones: %w", err)
	}
	detail.Applications = apps
	return detail, nil
}

// GetOffboarding devuelve un offboarding por ID.
func (uc *DirectoryUseCase) GetOffboarding(ctx context.Context, organizationID, offboardingID string) (*entity.OffboardingRecord, error) {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	ob, err := stores.Offboardings.GetByID(ctx, offboardingID)
	if err != nil {
		return nil, fmt.Errorf("buscar offboarding: %w", err)
	}
	if ob == nil {
		return nil, fmt.Errorf("offboarding %s: %w", offboardingID, domain.ErrNotFound)
	}
	return ob, nil
}
