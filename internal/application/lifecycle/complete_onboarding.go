package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/identity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// OnboardingUseCase maneja la aceptación de ofertas y el cierre del onboarding.
// Completar un onboarding es la transición más propensa a fallos del sistema:
// (1) crear el Employee y (2) escribir la back-reference son dos pasos SIN
// transacción que los cubra. El residuo de un fallo entre ambos lo detecta y
// repara el reconciliador, nunca se ignora en silencio.
type OnboardingUseCase struct {
	provider  repository.TenantStoreProvider
	publisher EventPublisher
	log       *logger.Logger
}

// NewOnboardingUseCase construye el caso de uso.
func NewOnboardingUseCase(provider repository.TenantStoreProvider, publisher EventPublisher, log *logger.Logger) *OnboardingUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OnboardingUseCase{provider: provider, publisher: publisher, log: log}
}

// AcceptOfferInput entrada para abrir un onboarding al aceptar una oferta.
type AcceptOfferInput struct {
	OrganizationID string
	CandidateID    string
	JobID          string
	StartDate      time.Time
}

// AcceptOffer crea el OnboardingRecord en pending copiando los datos mínimos
// de la persona desde el candidato (serán la fuente del Employee sintetizado
// si el enlace llegara a perderse).
func (uc *OnboardingUseCase) AcceptOffer(ctx context.Context, in AcceptOfferInput) (*entity.OnboardingRecord, error) {
	stores, err := uc.provider.Stores(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	cand, err := stores.Candidates.GetByID(ctx, in.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("buscar candidato: %w", err)
	}
	if cand == nil {
		return nil, fmt.Errorf("candidato %s: %w", in.CandidateID, domain.ErrNotFound)
	}
	// Las transiciones siempre operan sobre el master del linaje.
	if cand.MasterCandidateID != nil {
		master, err := stores.Candidates.GetByID(ctx, *cand.MasterCandidateID)
		if err != nil {
			return nil, fmt.Errorf("resolver master: %w", err)
		}
		if master != nil {
			cand = master
		}
	}

	now := time.Now().UTC()
	ob := &entity.OnboardingRecord{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		JobID:       in.JobID,
		Status:      entity.OnboardingPending,
		FirstName:   cand.FirstName,
		LastName:    cand.LastName,
		Email:       cand.Email,
		Phone:       cand.Phone,
		StartDate:   in.StartDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := stores.Onboardings.Create(ctx, ob); err != nil {
		return nil, fmt.Errorf("crear onboarding: %w", err)
	}
	if err := stores.Candidates.UpdateStage(ctx, cand.ID, entity.StageOffer); err != nil {
		uc.log.Warn().Err(err).Str("candidate_id", cand.ID).Msg("no se pudo actualizar la etapa del candidato")
	}
	return ob, nil
}

// Start marca el onboarding como in-progress.
func (uc *OnboardingUseCase) Start(ctx context.Context, organizationID, onboardingID string) error {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return err
	}
	ob, err := stores.Onboardings.GetByID(ctx, onboardingID)
	if err != nil {
		return fmt.Errorf("buscar onboarding: %w", err)
	}
	if ob == nil {
		return fmt.Errorf("onboarding %s: %w", onboardingID, domain.ErrNotFound)
	}
	if ob.Status != entity.OnboardingPending {
		return fmt.Errorf("onboarding en %s: %w", ob.Status, domain.ErrConflict)
	}
	return stores.Onboardings.SetStatus(ctx, onboardingID, entity.OnboardingInProgress)
}

// Complete cierra el onboarding creando el Employee canónico.
//
// Orden obligatorio:
//  1. crear el Employee (la unicidad del fingerprint vivo la impone el store);
//  2. escribir employee_id en el OnboardingRecord y marcarlo completed.
//
// Si (1) tuvo éxito y (2) falla, queda un completed sin enlace que repara el
// reconciliador. Bajo completions concurrentes del mismo onboarding, "ya
// existe un Employee con ese fingerprint" se trata como éxito idempotente: el
// perdedor adopta el registro existente en lugar de propagar el conflicto.
// Los reintentos parten SIEMPRE del estado parcial observado, nunca re-derivan
// desde cero una vez que hay efectos secundarios.
func (uc *OnboardingUseCase) Complete(ctx context.Context, organizationID, onboardingID string) (*entity.Employee, error) {
	stores, err := uc.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	ob, err := stores.Onboardings.GetByID(ctx, onboardingID)
	if err != nil {
		return nil, fmt.Errorf("buscar onboarding: %w", err)
	}
	if ob == nil {
		return nil, fmt.Errorf("onboarding %s: %w", onboardingID, domain.ErrNotFound)
	}

	// Reintento sobre un onboarding ya cerrado y enlazado: resultado idempotente.
	if ob.Status == entity.OnboardingCompleted && ob.IsLinked() {
		emp, err := stores.Employees.GetByID(ctx, *ob.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("resolver employee enlazado: %w", err)
		}
		if emp == nil {
			return nil, fmt.Errorf("onboarding %s enlaza a employee %s inexistente: %w",
				ob.ID, *ob.EmployeeID, domain.ErrDanglingReference)
		}
		return emp, nil
	}

	fp := identity.Fingerprint(ob.Email, ob.Phone)
	if fp == "" {
		return nil, fmt.Errorf("onboarding %s sin email ni teléfono: %w", ob.ID, domain.ErrInvalidInput)
	}

	emp, err := uc.createOrAdoptEmployee(ctx, stores, ob, fp)
	if err != nil {
		return nil, err
	}

	if err := stores.Onboardings.LinkEmployee(ctx, ob.ID, emp.ID); err != nil {
		// Employee vivo y sin back-reference: exactamente el residuo que busca
		// el escaneo de completions sin enlace del reconciliador.
		return nil, fmt.Errorf("enlazar employee %s al onboarding %s: %w", emp.ID, ob.ID, err)
	}

	if err := stores.Candidates.UpdateStage(ctx, ob.CandidateID, entity.StageHired); err != nil {
		uc.log.Warn().Err(err).Str("candidate_id", ob.CandidateID).Msg("no se pudo marcar el candidato como hired")
	}

	uc.publish(ctx, Event{
		Type:           EventEmployeeCreated,
		OrganizationID: organizationID,
		EntityID:       emp.ID,
		OccurredAt:     time.Now().UTC(),
	})
	return emp, nil
}

func (uc *OnboardingUseCase) createOrAdoptEmployee(ctx context.Context, stores *repository.TenantStores, ob *entity.OnboardingRecord, fp string) (*entity.Employee, error) {
	now := time.Now().UTC()
	emp := &entity.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: NewEmployeeCode(),
		FirstName:    ob.FirstName,
		LastName:     ob.LastName,
		Email:        identity.NormalizeEmail(ob.Email),
		Phone:        ob.Phone,
		Fingerprint:  fp,
		Role:         entity.RoleEmployee,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := stores.Employees.Create(ctx, emp)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		return nil, fmt.Errorf("crear employee: %w", err)
	}
	// Perdimos la carrera (u otro completion ya creó a la persona): adoptar el
	// registro existente si la identidad coincide.
	existing, gerr := stores.Employees.GetActiveByFingerprint(ctx, fp)
	if gerr != nil {
		return nil, fmt.Errorf("resolver employee existente: %w", gerr)
	}
	if existing == nil {
		return nil, fmt.Errorf("conflicto de identidad sin registro visible: %w", err)
	}
	return existing, nil
}

func (uc *OnboardingUseCase) publish(ctx context.Context, ev Event) {
	if err := uc.publisher.Publish(ctx, ev.EntityID, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", ev.Type).Str("entity_id", ev.EntityID).
			Msg("no se pudo publicar el evento de ciclo de vida")
	}
}

// NewEmployeeCode genera un código de empleado corto y único.
func NewEmployeeCode() string {
	return "EMP-" + strings.ToUpper(uuid.NewString()[:8])
}
