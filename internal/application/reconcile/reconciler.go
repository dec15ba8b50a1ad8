// Package reconcile implementa el pase idempotente que restaura los
// invariantes rotos por transiciones que fallaron a medias: identidades vivas
// duplicadas, referencias colgantes y completions sin enlace.
package reconcile

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/segmentio/ksuid"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/identity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// Report resume un pase sobre un tenant. Cada contador corresponde a una regla.
type Report struct {
	OrganizationID       string    `json:"organization_id"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
	MergedDuplicates     int       `json:"merged_duplicates"`
	RelinkedReferences   int       `json:"relinked_references"`
	FlaggedForReview     int       `json:"flagged_for_review"`
	LinkedCompletions    int       `json:"linked_completions"`
	SynthesizedEmployees int       `json:"synthesized_employees"`
	Failures             int       `json:"failures"`
}

// TotalRepairs reparaciones efectivas (excluye flags de revisión y fallos).
func (r *Report) TotalRepairs() int {
	return r.MergedDuplicates + r.RelinkedReferences + r.LinkedCompletions + r.SynthesizedEmployees
}

// Reconciler ejecuta el pase por tenant. Un solo hilo por tenant (el orden de
// las reparaciones debe ser simple y auditable); tenants distintos corren en
// paralelo sin estado compartido.
type Reconciler struct {
	provider repository.TenantStoreProvider
	log      *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewReconciler construye el reconciliador.
func NewReconciler(provider repository.TenantStoreProvider, log *logger.Logger) *Reconciler {
	return &Reconciler{provider: provider, log: log, locks: make(map[string]*sync.Mutex)}
}

// tenantLock serializa los pases de un mismo tenant (programado vs on-demand).
func (r *Reconciler) tenantLock(organizationID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[organizationID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[organizationID] = l
	}
	return l
}

// Run ejecuta los tres escaneos en orden sobre el store del tenant. El pase
// nunca aborta por un registro: el fallo se aísla, se loggea y se continúa;
// el error devuelto agrega los fallos por registro para el operador.
func (r *Reconciler) Run(ctx context.Context, organizationID string) (*Report, error) {
	lock := r.tenantLock(organizationID)
	lock.Lock()
	defer lock.Unlock()

	report := &Report{OrganizationID: organizationID, StartedAt: time.Now().UTC()}

	stores, err := r.provider.Stores(ctx, organizationID)
	if err != nil {
		return report, err
	}

	var errs *multierror.Error
	errs = multierror.Append(errs, r.mergeDuplicateIdentities(ctx, stores, report))
	errs = multierror.Append(errs, r.repairDanglingReferences(ctx, stores, report))
	errs = multierror.Append(errs, r.repairUnlinkedCompletions(ctx, stores, report))

	report.FinishedAt = time.Now().UTC()
	r.log.Info().Str("organization_id", organizationID).
		Int("merged", report.MergedDuplicates).
		Int("relinked", report.RelinkedReferences).
		Int("flagged", report.FlaggedForReview).
		Int("linked", report.LinkedCompletions).
		Int("synthesized", report.SynthesizedEmployees).
		Int("failures", report.Failures).
		Msg("pase de reconciliación terminado")
	return report, errs.ErrorOrNil()
}

// ── Escaneo 1: identidades vivas duplicadas ──────────────────────────────────

// mergeDuplicateIdentities detecta más de un Employee vivo con el mismo
// fingerprint y los fusiona en uno canónico. Regla de arbitraje determinista:
// gana quien tenga employeeCode no vacío; si ambos lo tienen, el createdAt más
// antiguo. Toda foreign key que apuntaba al descartado se reescribe hacia el
// sobreviviente.
func (r *Reconciler) mergeDuplicateIdentities(ctx context.Context, stores *repository.TenantStores, report *Report) error {
	employees, err := stores.Employees.ListAllActive(ctx)
	if err != nil {
		return err
	}

	groups := make(map[string][]*entity.Employee)
	for _, e := range employees {
		if e.Fingerprint == "" {
			continue // una huella vacía nunca agrupa
		}
		groups[e.Fingerprint] = append(groups[e.Fingerprint], e)
	}

	var errs *multierror.Error
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if (a.EmployeeCode != "") != (b.EmployeeCode != "") {
				return a.EmployeeCode != ""
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		winner := group[0]
		for _, loser := range group[1:] {
			if err := r.mergeInto(ctx, stores, winner, loser); err != nil {
				report.Failures++
				r.log.Error().Err(err).Str("employee_id", loser.ID).Msg("merge de duplicado falló; se continúa")
				errs = multierror.Append(errs, err)
				continue
			}
			report.MergedDuplicates++
		}
	}
	return errs.ErrorOrNil()
}

func (r *Reconciler) mergeInto(ctx context.Context, stores *repository.TenantStores, winner, loser *entity.Employee) error {
	if err := stores.Onboardings.ReassignEmployee(ctx, loser.ID, winner.ID); err != nil {
		return err
	}
	if err := stores.Offboardings.ReassignEmployee(ctx, loser.ID, winner.ID); err != nil {
		return err
	}
	if err := stores.Employees.Delete(ctx, loser.ID); err != nil {
		return err
	}
	return r.audit(ctx, stores, entity.RuleDuplicateLiveMerge, entity.KindEmployee, loser.ID, loser, winner, false)
}

// ── Escaneo 2: referencias colgantes ─────────────────────────────────────────

// repairDanglingReferences verifica que cada referencia almacenada resuelva a
// una entidad viva del tipo esperado. Si no resuelve, intenta la resolución
// secundaria por fingerprint y reescribe la referencia; si tampoco hay
// candidato, el registro se marca para revisión manual — nunca se borra ni se
// adivina.
func (r *Reconciler) repairDanglingReferences(ctx context.Context, stores *repository.TenantStores, report *Report) error {
	var errs *multierror.Error

	linked, err := stores.Onboardings.ListLinked(ctx)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else {
		for _, ob := range linked {
			if err := r.repairOnboardingRef(ctx, stores, ob, report); err != nil {
				report.Failures++
				errs = multierror.Append(errs, err)
			}
		}
	}

	open, err := stores.Offboardings.ListOpen(ctx)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else {
		for _, ob := range open {
			if err := r.repairOffboardingRef(ctx, stores, ob, report); err != nil {
				report.Failures++
				errs = multierror.Append(errs, err)
			}
		}
	}

	candidates, err := stores.Candidates.ListAll(ctx)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else {
		for _, c := range candidates {
			if err := r.repairMasterRef(ctx, stores, c, report); err != nil {
				report.Failures++
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs.ErrorOrNil()
}

func (r *Reconciler) repairOnboardingRef(ctx context.Context, stores *repository.TenantStores, ob *entity.OnboardingRecord, report *Report) error {
	emp, err := stores.Employees.GetByID(ctx, *ob.EmployeeID)
	if err != nil {
		return err
	}
	if emp != nil {
		return nil
	}
	fp := identity.Fingerprint(ob.Email, ob.Phone)
	if fp != "" {
		candidate, err := stores.Employees.GetActiveByFingerprint(ctx, fp)
		if err != nil {
			return err
		}
		if candidate != nil {
			if err := stores.Onboardings.LinkEmployee(ctx, ob.ID, candidate.ID); err != nil {
				return err
			}
			report.RelinkedReferences++
			return r.audit(ctx, stores, entity.RuleDanglingRelink, entity.KindOnboarding, ob.ID,
				map[string]string{"employee_id": *ob.EmployeeID}, map[string]string{"employee_id": candidate.ID}, false)
		}
	}
	report.FlaggedForReview++
	return r.audit(ctx, stores, entity.RuleDanglingManualReview, entity.KindOnboarding, ob.ID,
		map[string]string{"employee_id": *ob.EmployeeID}, nil, false)
}

func (r *Reconciler) repairOffboardingRef(ctx context.Context, stores *repository.TenantStores, ob *entity.OffboardingRecord, report *Report) error {
	emp, err := stores.Employees.GetByID(ctx, ob.EmployeeID)
	if err != nil {
		return err
	}
	if emp != nil {
		return nil
	}
	// El snapshot, si existe, conserva la huella de la persona: única vía de
	// resolución secundaria en un offboarding.
	if ob.HasSnapshot() && ob.Snapshot.Fingerprint != "" {
		candidate, err := stores.Employees.GetActiveByFingerprint(ctx, ob.Snapshot.Fingerprint)
		if err != nil {
			return err
		}
		if candidate != nil {
			if err := stores.Offboardings.ReassignEmployee(ctx, ob.EmployeeID, candidate.ID); err != nil {
				return err
			}
			report.RelinkedReferences++
			return r.audit(ctx, stores, entity.RuleDanglingRelink, entity.KindOffboarding, ob.ID,
				map[string]string{"employee_id": ob.EmployeeID}, map[string]string{"employee_id": candidate.ID}, false)
		}
	}
	report.FlaggedForReview++
	return r.audit(ctx, stores, entity.RuleDanglingManualReview, entity.KindOffboarding, ob.ID,
		map[string]string{"employee_id": ob.EmployeeID}, nil, false)
}

func (r *Reconciler) repairMasterRef(ctx context.Context, stores *repository.TenantStores, c *entity.Candidate, report *Report) error {
	if c.MasterCandidateID == nil {
		return nil
	}
	master, err := stores.Candidates.GetByID(ctx, *c.MasterCandidateID)
	if err != nil {
		return err
	}
	if master != nil {
		return nil
	}
	lineage, err := stores.Candidates.ListByFingerprint(ctx, c.Fingerprint)
	if err != nil {
		return err
	}
	if len(lineage) > 0 {
		newMaster := lineage[0]
		target := newMaster.ID
		if newMaster.ID == c.ID {
			// El propio registro es ahora el más antiguo del linaje: se promueve.
			target = ""
		}
		if err := stores.Candidates.SetMaster(ctx, c.ID, target); err != nil {
			return err
		}
		report.RelinkedReferences++
		return r.audit(ctx, stores, entity.RuleDanglingRelink, entity.KindCandidate, c.ID,
			map[string]string{"master_candidate_id": *c.MasterCandidateID}, map[string]string{"master_candidate_id": target}, false)
	}
	report.FlaggedForReview++
	return r.audit(ctx, stores, entity.RuleDanglingManualReview, entity.KindCandidate, c.ID,
		map[string]string{"master_candidate_id": *c.MasterCandidateID}, nil, false)
}

// ── Escaneo 3: completions sin enlace ────────────────────────────────────────

// repairUnlinkedCompletions busca OnboardingRecords completed sin employeeId.
// Primero intenta enlazar un Employee existente por fingerprint; si no hay,
// sintetiza un Employee mínimo desde los campos del propio onboarding
// (fallback de mínima autoridad) y lo enlaza, registrándolo como anomalía
// recuperada, separada de las reparaciones mecánicas.
func (r *Reconciler) repairUnlinkedCompletions(ctx context.Context, stores *repository.TenantStores, report *Report) error {
	unlinked, err := stores.Onboardings.ListCompletedUnlinked(ctx)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, ob := range unlinked {
		if err := r.repairUnlinked(ctx, stores, ob, report); err != nil {
			report.Failures++
			r.log.Error().Err(err).Str("onboarding_id", ob.ID).Msg("reparación de completion sin enlace falló; se continúa")
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (r *Reconciler) repairUnlinked(ctx context.Context, stores *repository.TenantStores, ob *entity.OnboardingRecord, report *Report) error {
	fp := identity.Fingerprint(ob.Email, ob.Phone)
	if fp != "" {
		existing, err := stores.Employees.GetActiveByFingerprint(ctx, fp)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := stores.Onboardings.LinkEmployee(ctx, ob.ID, existing.ID); err != nil {
				return err
			}
			report.LinkedCompletions++
			return r.audit(ctx, stores, entity.RuleUnlinkedCompletion, entity.KindOnboarding, ob.ID,
				map[string]string{"employee_id": ""}, map[string]string{"employee_id": existing.ID}, false)
		}
	}

	now := time.Now().UTC()
	synth := &entity.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: "", // mínima autoridad: el código lo asigna RRHH después
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
	if err := stores.Employees.Create(ctx, synth); err != nil {
		return err
	}
	if err := stores.Onboardings.LinkEmployee(ctx, ob.ID, synth.ID); err != nil {
		return err
	}
	report.SynthesizedEmployees++
	r.log.Warn().Str("onboarding_id", ob.ID).Str("employee_id", synth.ID).
		Msg("anomalía recuperada: employee sintetizado desde el onboarding")
	return r.audit(ctx, stores, entity.RuleSynthesizedEmployee, entity.KindOnboarding, ob.ID, nil, synth, true)
}

// Audits devuelve las entradas del log de reparaciones de un tenant, las más
// recientes primero.
func (r *Reconciler) Audits(ctx context.Context, organizationID string, limit, offset int) ([]*entity.RepairAudit, error) {
	stores, err := r.provider.Stores(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return stores.Audits.List(ctx, limit, offset)
}

// audit registra la reparación con la regla aplicada, los valores antes y
// después y su timestamp.
func (r *Reconciler) audit(ctx context.Context, stores *repository.TenantStores, rule, kind, recordID string, before, after interface{}, anomaly bool) error {
	entry := &entity.RepairAudit{
		ID:         ksuid.New().String(),
		Rule:       rule,
		RecordKind: kind,
		RecordID:   recordID,
		Before:     mustJSON(before),
		After:      mustJSON(after),
		Anomaly:    anomaly,
		CreatedAt:  time.Now().UTC(),
	}
	return stores.Audits.Record(ctx, entry)
}

func mustJSON(v interface{}) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"marshal_error":true}`)
	}
	return b
}
