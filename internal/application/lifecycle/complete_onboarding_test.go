package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/identity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/memory"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// recordingPublisher captura los eventos publicados para asserts.
type recordingPublisher struct {
	mu     sync.Mutex
	events []lifecycle.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, value.(lifecycle.Event))
	return nil
}

func (p *recordingPublisher) all() []lifecycle.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]lifecycle.Event, len(p.events))
	copy(out, p.events)
	return out
}

type onboardingFixture struct {
	uc        *lifecycle.OnboardingUseCase
	stores    *repository.TenantStores
	onb       *memory.OnboardingStore
	emp       *memory.EmployeeStore
	publisher *recordingPublisher
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	provider := memory.NewProvider()
	stores := memory.NewTenantStores()
	provider.Seed(testOrg, stores)
	pub := &recordingPublisher{}
	return &onboardingFixture{
		uc:        lifecycle.NewOnboardingUseCase(provider, pub, logger.Nop()),
		stores:    stores,
		onb:       stores.Onboardings.(*memory.OnboardingStore),
		emp:       stores.Employees.(*memory.EmployeeStore),
		publisher: pub,
	}
}

// seedOnboarding crea el candidato y abre su onboarding vía AcceptOffer.
func (f *onboardingFixture) seedOnboarding(t *testing.T, email, phone string) *entity.OnboardingRecord {
	t.Helper()
	ctx := context.Background()
	cand := &entity.Candidate{
		ID: uuid.NewString(), FirstName: "Ana", LastName: "Muñoz",
		Email: email, Phone: phone,
		Fingerprint: identity.Fingerprint(email, phone),
		Stage:       entity.StageOffer, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Candidates.Create(ctx, cand))

	ob, err := f.uc.AcceptOffer(ctx, lifecycle.AcceptOfferInput{
		OrganizationID: testOrg,
		CandidateID:    cand.ID,
		JobID:          "job-1",
		StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return ob
}

func TestComplete_CreaEmployeeYEnlaza(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	ob := f.seedOnboarding(t, "ana.munoz@example.com", "3015550199")

	emp, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	require.NotNil(t, emp)

	assert.True(t, emp.IsActive)
	assert.NotEmpty(t, emp.EmployeeCode)
	assert.Equal(t, identity.Fingerprint(ob.Email, ob.Phone), emp.Fingerprint)

	after, err := f.stores.Onboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OnboardingCompleted, after.Status)
	require.True(t, after.IsLinked())
	assert.Equal(t, emp.ID, *after.EmployeeID)

	cand, err := f.stores.Candidates.GetByID(ctx, ob.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageHired, cand.Stage)

	events := f.publisher.all()
	require.Len(t, events, 1)
	assert.Equal(t, lifecycle.EventEmployeeCreated, events[0].Type)
	assert.Equal(t, emp.ID, events[0].EntityID)
}

// Re-completar un onboarding ya cerrado devuelve el mismo Employee sin crear
// nada nuevo ni re-publicar el evento.
func TestComplete_ReintentoIdempotente(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	ob := f.seedOnboarding(t, "ana.munoz@example.com", "3015550199")

	first, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	second, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	actives, err := f.stores.Employees.ListAllActive(ctx)
	require.NoError(t, err)
	assert.Len(t, actives, 1, "un solo Employee vivo por identidad")
	assert.Len(t, f.publisher.all(), 1, "el reintento no re-publica")
}

// Si ya existe un Employee vivo con el mismo fingerprint (otro completion ganó
// la carrera), el perdedor adopta el registro existente: éxito idempotente, no
// conflicto.
func TestComplete_FingerprintDuplicadoAdoptaExistente(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	ob := f.seedOnboarding(t, "ana.munoz@example.com", "3015550199")

	existing := &entity.Employee{
		ID: uuid.NewString(), EmployeeCode: "EMP-PREVIO",
		FirstName: "Ana", LastName: "Muñoz",
		Email: "ana.munoz@example.com", Phone: "3015550199",
		Fingerprint: identity.Fingerprint("ana.munoz@example.com", "3015550199"),
		Role:        entity.RoleEmployee, IsActive: true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Employees.Create(ctx, existing))

	emp, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, emp.ID, "adopta al vivo existente")

	actives, err := f.stores.Employees.ListAllActive(ctx)
	require.NoError(t, err)
	assert.Len(t, actives, 1)
}

// Proceso muerto entre crear el Employee y escribir la back-reference: queda
// el residuo (Employee vivo, onboarding sin enlace) y el reintento converge
// adoptando al Employee ya creado.
func TestComplete_CrashEntreCrearYEnlazar(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	ob := f.seedOnboarding(t, "ana.munoz@example.com", "3015550199")

	f.onb.FailNextLink = errors.New("conexión perdida")
	_, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.Error(t, err)

	// El residuo exacto del fallo parcial.
	actives, err := f.stores.Employees.ListAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, actives, 1, "el Employee del paso 1 quedó vivo")
	mid, err := f.stores.Onboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	assert.False(t, mid.IsLinked(), "la back-reference nunca se escribió")

	emp, err := f.uc.Complete(ctx, testOrg, ob.ID)
	require.NoError(t, err, "el reintento parte del estado parcial")
	assert.Equal(t, actives[0].ID, emp.ID, "no se crea un segundo Employee")

	after, err := f.stores.Onboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OnboardingCompleted, after.Status)
}

func TestComplete_SinIdentidadRechaza(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	ob := &entity.OnboardingRecord{
		ID: uuid.NewString(), CandidateID: uuid.NewString(), JobID: "job-1",
		Status: entity.OnboardingInProgress, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Onboardings.Create(ctx, ob))

	_, err := f.uc.Complete(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStart_SoloDesdePending(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	ob := f.seedOnboarding(t, "ana.munoz@example.com", "3015550199")

	require.NoError(t, f.uc.Start(ctx, testOrg, ob.ID))
	err := f.uc.Start(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "in-progress no vuelve a arrancar")
}
