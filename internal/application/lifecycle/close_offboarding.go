package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// OffboardingUseCase conduce el offboarding por sus etapas y ejecuta el cierre
// snapshot-then-purge. No hay transacción multi-documento: la corrección
// descansa en el ORDEN (snapshot confirmado durable antes de purgar) más el
// reintento idempotente del cierre completo.
type OffboardingUseCase struct {
	provider  repository.TenantStoreProvider
	publisher EventPublisher
	log       *logger.Logger
}

// NewOffboardingUseCase construye el caso de uso.
func NewOffboardingUseCase(provider repository.TenantStoreProvider, publisher EventPublisher, log *logger.Logger) *OffboardingUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OffboardingUseCase{provider: provider, publisher: publisher, log: log}
}

// InitiateInput entrada para abrir un offboarding.
type InitiateInput struct {
	OrganizationID string
	EmployeeID     string
	Reason         string
	LastWorkingDay time.Time
}

// Initiate abre el offboarding de un Employee vivo.
func (uc *OffboardingUseCase) Initiate(ctx context.Context, in InitiateInput) (*entity.OffboardingRecord, error) {
	stores, err := uc.provider.Stores(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	emp, err := stores.Employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("buscar employee: %w", err)
	}
	if emp == nil || !emp.IsActive {
		return nil, fmt.Errorf("employee %s no está vivo: %w", in.EmployeeID, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	ob := &entity.OffboardingRecord{
		ID:             uuid.NewString(),
		EmployeeID:     emp.ID,
		Reason:         in.Reason,
		Status:         entity.OffboardingInitiated,
		LastWorkingDay: in.LastWorkingDay,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := stores.Offboardings.Create(ctx, ob); err != nil {
		return nil, fmt.Errorf("crear offboarding: %w", err)
	}
	return ob, nil
}

// Advance pasa el offboarding a su etapa siguiente. La última transición
// (settlement → closed) no pasa por aquí: el cierre tiene su propia operación
// con semántica snapshot-then-purge.
func (uc *OffboardingUseCase) Advance(ctx context.Context, organizationID, offboardingID string) (*entity.OffboardingRecord, error) {
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
	next, ok := entity.NextOffboardingStage(ob.Status)
	if !ok || next == entity.OffboardingClosed {
		return nil, fmt.Errorf("offboarding en %s no avanza por esta vía: %w", ob.Status, domain.ErrConflict)
	}
	if err := stores.Offboardings.SetStatus(ctx, offboardingID, next); err != nil {
		return nil, fmt.Errorf("avanzar offboarding: %w", err)
	}
	ob.Status = next
	return ob, nil
}

// Close ejecuta el cierre:
//
//  1. leer el Employee vivo completo;
//  2. escribir el snapshot verbatim en el OffboardingRecord y CONFIRMAR que la
//     escritura quedó persistida;
//  3. solo entonces purgar el registro vivo;
//  4. marcar closed.
//
// Si el proceso murió entre snapshot y purga, re-ejecutar detecta el snapshot
// existente y solo re-intenta la purga: jamás se re-lee ni se sobreescribe un
// snapshot ya persistido.
func (uc *OffboardingUseCase) Close(ctx context.Context, organizationID, offboardingID string) (*entity.OffboardingRecord, error) {
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

	if ob.IsClosed() {
		if !ob.HasSnapshot() {
			// Cerrado sin snapshot: estado que no debería existir, lo señala el
			// reconciliador. Este camino no intenta adivinar.
			return nil, fmt.Errorf("offboarding %s cerrado sin snapshot: %w", ob.ID, domain.ErrSnapshotMissing)
		}
		// Reintento tras un crash post-cierre: la purga es lo único pendiente.
		if err := uc.purgeIfAlive(ctx, stores, ob.EmployeeID); err != nil {
			return nil, err
		}
		return ob, nil
	}

	// El cierre solo procede desde settlement: las etapas intermedias no se
	// saltan. Un reintento tras un crash pasa igual, porque el estado sigue
	// en settlement hasta que Close lo marque.
	if ob.Status != entity.OffboardingSettlement {
		return nil, fmt.Errorf("offboarding en %s, el cierre requiere %s: %w",
			ob.Status, entity.OffboardingSettlement, domain.ErrConflict)
	}

	if !ob.HasSnapshot() {
		emp, err := stores.Employees.GetByID(ctx, ob.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("leer employee vivo: %w", err)
		}
		if emp == nil {
			return nil, fmt.Errorf("offboarding %s sin snapshot y employee %s ausente: %w",
				ob.ID, ob.EmployeeID, domain.ErrDanglingReference)
		}
		snap := emp.Snapshot(time.Now().UTC())
		// WriteSnapshot es compare-and-set sobre NULL: si otra ejecución ganó,
		// el snapshot de esa ejecución queda y este se descarta.
		if err := stores.Offboardings.WriteSnapshot(ctx, ob.ID, snap); err != nil {
			return nil, fmt.Errorf("persistir snapshot: %w", err)
		}
		ob.Snapshot = snap
	}

	// Snapshot confirmado durable: ahora sí purgar el vivo.
	if err := uc.purgeIfAlive(ctx, stores, ob.EmployeeID); err != nil {
		return nil, err
	}

	closedAt := time.Now().UTC()
	if err := stores.Offboardings.Close(ctx, ob.ID, closedAt); err != nil {
		return nil, fmt.Errorf("marcar cierre: %w", err)
	}
	ob.Status = entity.OffboardingClosed
	ob.ClosedAt = &closedAt

	uc.publish(ctx, Event{
		Type:           EventOffboardingClosed,
		OrganizationID: organizationID,
		EntityID:       ob.ID,
		OccurredAt:     closedAt,
	})
	return ob, nil
}

// purgeIfAlive elimina el Employee si sigue existiendo. Cero o una purga por
// cierre, nunca dos distintas.
func (uc *OffboardingUseCase) purgeIfAlive(ctx context.Context, stores *repository.TenantStores, employeeID string) error {
	emp, err := stores.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("verificar employee vivo: %w", err)
	}
	if emp == nil {
		return nil
	}
	if err := stores.Employees.Delete(ctx, employeeID); err != nil {
		return fmt.Errorf("purgar employee %s: %w", employeeID, err)
	}
	uc.log.Info().Str("employee_id", employeeID).Msg("employee vivo purgado tras snapshot")
	return nil
}

func (uc *OffboardingUseCase) publish(ctx context.Context, ev Event) {
	if err := uc.publisher.Publish(ctx, ev.EntityID, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", ev.Type).Str("entity_id", ev.EntityID).
			Msg("no se pudo publicar el evento de ciclo de vida")
	}
}
