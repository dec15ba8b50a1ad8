// Package memory implementa los puertos de repositorio sobre mapas en memoria.
// Lo usan los tests de los casos de uso y del reconciliador para ejercitar la
// semántica completa (dedup, enlaces, snapshot-then-purge) sin PostgreSQL,
// incluidos los fallos inyectados que simulan un proceso muerto a mitad de una
// transición.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
)

// NewTenantStores construye un bundle en memoria vacío.
func NewTenantStores() *repository.TenantStores {
	return &repository.TenantStores{
		Candidates:   NewCandidateStore(),
		Onboardings:  NewOnboardingStore(),
		Employees:    NewEmployeeStore(),
		Offboardings: NewOffboardingStore(),
		Audits:       NewAuditStore(),
	}
}

// Provider implementa repository.TenantStoreProvider sobre un mapa de bundles.
type Provider struct {
	mu     sync.Mutex
	stores map[string]*repository.TenantStores
	// Err, si está seteado, se devuelve en toda resolución (simula un tenant
	// inaccesible).
	Err error
}

// NewProvider construye el proveedor en memoria.
func NewProvider() *Provider {
	return &Provider{stores: make(map[string]*repository.TenantStores)}
}

// Seed fija el bundle de un tenant (útil cuando el test necesita acceso
// directo a los stores concretos para inyectar fallos).
func (p *Provider) Seed(organizationID string, stores *repository.TenantStores) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores[organizationID] = stores
}

// Stores devuelve (creándolo si no existe) el bundle del tenant.
func (p *Provider) Stores(_ context.Context, organizationID string) (*repository.TenantStores, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stores[organizationID]
	if !ok {
		s = NewTenantStores()
		p.stores[organizationID] = s
	}
	return s, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Candidates
// ──────────────────────────────────────────────────────────────────────────────

// CandidateStore implementación en memoria de CandidateRepository.
type CandidateStore struct {
	mu         sync.Mutex
	candidates map[string]*entity.Candidate
	apps       map[string]*entity.Application
}

// NewCandidateStore construye el store vacío.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: make(map[string]*entity.Candidate),
		apps:       make(map[string]*entity.Application),
	}
}

func (s *CandidateStore) Create(_ context.Context, c *entity.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.candidates[c.ID] = &cp
	return nil
}

func (s *CandidateStore) GetByID(_ context.Context, id string) (*entity.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *CandidateStore) ListByFingerprint(_ context.Context, fingerprint string) ([]*entity.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Candidate
	for _, c := range s.candidates {
		if c.Fingerprint == fingerprint {
			cp := *c
			list = append(list, &cp)
		}
	}
	sortCandidates(list)
	return list, nil
}

func (s *CandidateStore) SetMaster(_ context.Context, id, masterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return domain.ErrNotFound
	}
	if masterID == "" {
		c.MasterCandidateID = nil
	} else {
		m := masterID
		c.MasterCandidateID = &m
	}
	return nil
}

func (s *CandidateStore) UpdateStage(_ context.Context, id, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Stage = stage
	return nil
}

func (s *CandidateStore) AppendApplication(_ context.Context, app *entity.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *CandidateStore) ListApplications(_ context.Context, candidateID string) ([]*entity.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Application
	for _, a := range s.apps {
		if a.CandidateID == candidateID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].AppliedDate.Equal(list[j].AppliedDate) {
			return list[i].AppliedDate.Before(list[j].AppliedDate)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *CandidateStore) ReassignApplications(_ context.Context, fromCandidateID, toCandidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.CandidateID == fromCandidateID {
			a.CandidateID = toCandidateID
		}
	}
	return nil
}

func (s *CandidateStore) ListAll(_ context.Context) ([]*entity.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Candidate
	for _, c := range s.candidates {
		cp := *c
		list = append(list, &cp)
	}
	sortCandidates(list)
	return list, nil
}

func sortCandidates(list []*entity.Candidate) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Onboardings
// ──────────────────────────────────────────────────────────────────────────────

// OnboardingStore implementación en memoria de OnboardingRepository.
type OnboardingStore struct {
	mu      sync.Mutex
	records map[string]*entity.OnboardingRecord
	// FailNextLink simula un proceso muerto entre crear el Employee y escribir
	// la back-reference: el siguiente LinkEmployee devuelve este error una vez.
	FailNextLink error
}

// NewOnboardingStore construye el store vacío.
func NewOnboardingStore() *OnboardingStore {
	return &OnboardingStore{records: make(map[string]*entity.OnboardingRecord)}
}

func (s *OnboardingStore) Create(_ context.Context, o *entity.OnboardingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.records[o.ID] = &cp
	return nil
}

func (s *OnboardingStore) GetByID(_ context.Context, id string) (*entity.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *OnboardingStore) SetStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *OnboardingStore) LinkEmployee(_ context.Context, id, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextLink != nil {
		err := s.FailNextLink
		s.FailNextLink = nil
		return err
	}
	o, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	e := employeeID
	o.EmployeeID = &e
	o.Status = entity.OnboardingCompleted
	return nil
}

func (s *OnboardingStore) ListCompletedUnlinked(_ context.Context) ([]*entity.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.OnboardingRecord
	for _, o := range s.records {
		if o.Status == entity.OnboardingCompleted && o.EmployeeID == nil {
			cp := *o
			list = append(list, &cp)
		}
	}
	sortOnboardings(list)
	return list, nil
}

func (s *OnboardingStore) ListLinked(_ context.Context) ([]*entity.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.OnboardingRecord
	for _, o := range s.records {
		if o.EmployeeID != nil {
			cp := *o
			list = append(list, &cp)
		}
	}
	sortOnboardings(list)
	return list, nil
}

func (s *OnboardingStore) ReassignEmployee(_ context.Context, fromEmployeeID, toEmployeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.records {
		if o.EmployeeID != nil && *o.EmployeeID == fromEmployeeID {
			e := toEmployeeID
			o.EmployeeID = &e
		}
	}
	return nil
}

func sortOnboardings(list []*entity.OnboardingRecord) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Employees
// ──────────────────────────────────────────────────────────────────────────────

// EmployeeStore implementación en memoria de EmployeeRepository. Hace cumplir
// la unicidad del fingerprint vivo igual que el índice único parcial del store
// real.
type EmployeeStore struct {
	mu        sync.Mutex
	employees map[string]*entity.Employee
	deletes   int
	// FailNextDelete simula un proceso muerto entre snapshot y purga.
	FailNextDelete error
}

// NewEmployeeStore construye el store vacío.
func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{employees: make(map[string]*entity.Employee)}
}

func (s *EmployeeStore) Create(_ context.Context, e *entity.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.IsActive && e.Fingerprint != "" {
		for _, other := range s.employees {
			if other.IsActive && other.Fingerprint == e.Fingerprint {
				return domain.ErrDuplicateIdentity
			}
		}
	}
	cp := *e
	s.employees[e.ID] = &cp
	return nil
}

// ForceCreate inserta sin validar la unicidad del fingerprint vivo: permite
// sembrar el estado roto (dos vivos de la misma persona) que el reconciliador
// debe reparar.
func (s *EmployeeStore) ForceCreate(_ context.Context, e *entity.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.employees[e.ID] = &cp
	return nil
}

func (s *EmployeeStore) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *EmployeeStore) GetActiveByFingerprint(_ context.Context, fingerprint string) (*entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.IsActive && e.Fingerprint == fingerprint {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *EmployeeStore) ListActive(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	all, _ := s.ListAllActive(ctx)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *EmployeeStore) ListAllActive(_ context.Context) ([]*entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Employee
	for _, e := range s.employees {
		if e.IsActive {
			cp := *e
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *EmployeeStore) Update(_ context.Context, e *entity.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	s.employees[e.ID] = &cp
	return nil
}

func (s *EmployeeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextDelete != nil {
		err := s.FailNextDelete
		s.FailNextDelete = nil
		return err
	}
	if _, ok := s.employees[id]; ok {
		delete(s.employees, id)
		s.deletes++
	}
	return nil
}

// Deletes purgas efectivas ejecutadas (para verificar "cero o una purga").
func (s *EmployeeStore) Deletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

// ──────────────────────────────────────────────────────────────────────────────
// Offboardings
// ──────────────────────────────────────────────────────────────────────────────

// OffboardingStore implementación en memoria de OffboardingRepository. El
// compare-and-set de WriteSnapshot replica la semántica del UPDATE condicional
// del store real.
type OffboardingStore struct {
	mu      sync.Mutex
	records map[string]*entity.OffboardingRecord
}

// NewOffboardingStore construye el store vacío.
func NewOffboardingStore() *OffboardingStore {
	return &OffboardingStore{records: make(map[string]*entity.OffboardingRecord)}
}

func (s *OffboardingStore) Create(_ context.Context, o *entity.OffboardingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.records[o.ID] = &cp
	return nil
}

func (s *OffboardingStore) GetByID(_ context.Context, id string) (*entity.OffboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	if o.Snapshot != nil {
		snap := *o.Snapshot
		cp.Snapshot = &snap
	}
	return &cp, nil
}

func (s *OffboardingStore) SetStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *OffboardingStore) WriteSnapshot(_ context.Context, id string, snap *entity.EmployeeSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Snapshot != nil {
		// Ya hay snapshot: la escritura perdedora se descarta sin error.
		return nil
	}
	cp := *snap
	o.Snapshot = &cp
	return nil
}

func (s *OffboardingStore) Close(_ context.Context, id string, closedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = entity.OffboardingClosed
	t := closedAt
	o.ClosedAt = &t
	return nil
}

func (s *OffboardingStore) ListOpen(_ context.Context) ([]*entity.OffboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.OffboardingRecord
	for _, o := range s.records {
		if o.Status != entity.OffboardingClosed {
			cp := *o
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *OffboardingStore) ReassignEmployee(_ context.Context, fromEmployeeID, toEmployeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.records {
		if o.EmployeeID == fromEmployeeID {
			o.EmployeeID = toEmployeeID
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Audits
// ──────────────────────────────────────────────────────────────────────────────

// AuditStore implementación en memoria de AuditRepository.
type AuditStore struct {
	mu      sync.Mutex
	entries []*entity.RepairAudit
}

// NewAuditStore construye el store vacío.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Record(_ context.Context, a *entity.RepairAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *AuditStore) List(_ context.Context, limit, offset int) ([]*entity.RepairAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Más recientes primero, como el adaptador real.
	out := make([]*entity.RepairAudit, len(s.entries))
	for i, a := range s.entries {
		cp := *a
		out[len(s.entries)-1-i] = &cp
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// All devuelve todas las entradas en orden de registro (para asserts).
func (s *AuditStore) All() []*entity.RepairAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.RepairAudit, len(s.entries))
	copy(out, s.entries)
	return out
}
