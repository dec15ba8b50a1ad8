package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/identity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// SubmitApplicationUseCase registra una aplicación deduplicando la identidad
// en el momento del alta: todos los Candidate con el mismo fingerprint quedan
// enlazados a un único master y el historial se concentra en él.
type SubmitApplicationUseCase struct {
	provider repository.TenantStoreProvider
	log      *logger.Logger
}

// NewSubmitApplicationUseCase construye el caso de uso.
func NewSubmitApplicationUseCase(provider repository.TenantStoreProvider, log *logger.Logger) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{provider: provider, log: log}
}

// SubmitApplicationInput entrada para aplicar a una vacante.
type SubmitApplicationInput struct {
	OrganizationID string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	JobID          string
	AppliedDate    time.Time
}

// Execute aplica la deduplicación y agrega la nueva entrada al historial del
// master. Las entradas existentes jamás se sobreescriben: cada una conserva su
// jobId y appliedDate.
func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, in SubmitApplicationInput) (*entity.Candidate, error) {
	if in.JobID == "" {
		return nil, fmt.Errorf("jobId requerido: %w", domain.ErrInvalidInput)
	}
	fp := identity.Fingerprint(in.Email, in.Phone)
	if fp == "" {
		return nil, fmt.Errorf("se requiere email o teléfono: %w", domain.ErrInvalidInput)
	}

	stores, err := uc.provider.Stores(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	master, err := uc.resolveMaster(ctx, stores, fp, in)
	if err != nil {
		return nil, err
	}

	appliedDate := in.AppliedDate
	if appliedDate.IsZero() {
		appliedDate = time.Now().UTC()
	}
	app := &entity.Application{
		ID:          uuid.NewString(),
		CandidateID: master.ID,
		JobID:       in.JobID,
		AppliedDate: appliedDate,
		Stage:       entity.StageApplied,
		Status:      "open",
	}
	if err := stores.Candidates.AppendApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("agregar aplicación: %w", err)
	}
	return master, nil
}

// resolveMaster devuelve el Candidate master del fingerprint, creándolo si el
// linaje no existe y enlazando los duplicados sueltos si existe.
func (uc *SubmitApplicationUseCase) resolveMaster(ctx context.Context, stores *repository.TenantStores, fp string, in SubmitApplicationInput) (*entity.Candidate, error) {
	lineage, err := stores.Candidates.ListByFingerprint(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("buscar linaje: %w", err)
	}
	if len(lineage) == 0 {
		now := time.Now().UTC()
		master := &entity.Candidate{
			ID:          uuid.NewString(),
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Email:       identity.NormalizeEmail(in.Email),
			Phone:       in.Phone,
			Fingerprint: fp,
			Stage:       entity.StageApplied,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := stores.Candidates.Create(ctx, master); err != nil {
			return nil, fmt.Errorf("crear candidato: %w", err)
		}
		return master, nil
	}

	// El más antiguo encabeza el linaje; los posteriores reciben la referencia
	// débil y su historial se mueve al master.
	master := lineage[0]
	for _, dup := range lineage[1:] {
		if dup.MasterCandidateID != nil && *dup.MasterCandidateID == master.ID {
			continue
		}
		if err := stores.Candidates.SetMaster(ctx, dup.ID, master.ID); err != nil {
			return nil, fmt.Errorf("enlazar duplicado %s: %w", dup.ID, err)
		}
		if err := stores.Candidates.ReassignApplications(ctx, dup.ID, master.ID); err != nil {
			return nil, fmt.Errorf("fusionar historial de %s: %w", dup.ID, err)
		}
		uc.log.Info().Str("candidate_id", dup.ID).Str("master_id", master.ID).
			Msg("candidato duplicado enlazado a su master")
	}
	return master, nil
}
