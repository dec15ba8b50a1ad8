package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type offboardingFixture struct {
	uc        *lifecycle.OffboardingUseCase
	stores    *repository.TenantStores
	emp       *memory.EmployeeStore
	off       *memory.OffboardingStore
	publisher *recordingPublisher
}

func newOffboardingFixture(t *testing.T) *offboardingFixture {
	t.Helper()
	provider := memory.NewProvider()
	stores := memory.NewTenantStores()
	provider.Seed(testOrg, stores)
	pub := &recordingPublisher{}
	return &offboardingFixture{
		uc:        lifecycle.NewOffboardingUseCase(provider, pub, logger.Nop()),
		stores:    stores,
		emp:       stores.Employees.(*memory.EmployeeStore),
		off:       stores.Offboardings.(*memory.OffboardingStore),
		publisher: pub,
	}
}

// seedEmployee da de alta un Employee vivo con salario con escala fija.
func (f *offboardingFixture) seedEmployee(t *testing.T) *entity.Employee {
	t.Helper()
	emp := &entity.Employee{
		ID: uuid.NewString(), EmployeeCode: "EMP-A1B2C3D4",
		FirstName: "Ana", LastName: "Muñoz",
		Email: "ana.munoz@example.com", Phone: "3015550199",
		Fingerprint:   identity.Fingerprint("ana.munoz@example.com", "3015550199"),
		Role:          entity.RoleEmployee,
		SalaryMonthly: decimal.RequireFromString("4500000.00"),
		IsActive:      true,
		CreatedAt:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.stores.Employees.Create(context.Background(), emp))
	return emp
}

func (f *offboardingFixture) initiate(t *testing.T, employeeID string) *entity.OffboardingRecord {
	t.Helper()
	ob, err := f.uc.Initiate(context.Background(), lifecycle.InitiateInput{
		OrganizationID: testOrg,
		EmployeeID:     employeeID,
		Reason:         "renuncia voluntaria",
		LastWorkingDay: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return ob
}

// advanceToSettlement recorre initiated → clearance → settlement, la antesala
// obligatoria del cierre.
func (f *offboardingFixture) advanceToSettlement(t *testing.T, offboardingID string) {
	t.Helper()
	for i := 0; i < 2; i++ {
		_, err := f.uc.Advance(context.Background(), testOrg, offboardingID)
		require.NoError(t, err)
	}
}

func TestClose_SnapshotLuegoPurga(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()
	emp := f.seedEmployee(t)
	ob := f.initiate(t, emp.ID)
	f.advanceToSettlement(t, ob.ID)

	closed, err := f.uc.Close(ctx, testOrg, ob.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OffboardingClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.True(t, closed.HasSnapshot())
	assert.Equal(t, emp.ID, closed.Snapshot.EmployeeID)
	assert.Equal(t, "EMP-A1B2C3D4", closed.Snapshot.EmployeeCode)
	assert.Equal(t, "4500000.00", closed.Snapshot.SalaryMonthly, "el salario se captura verbatim")

	// El vivo dejó de existir como registro consultable.
	gone, err := f.stores.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	actives, err := f.stores.Employees.ListAllActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, actives, "la persona desaparece de todo listado de vivos")
	assert.Equal(t, 1, f.emp.Deletes())

	// El snapshot del registro cerrado sigue consultable, sin cambios.
	persisted, err := f.stores.Offboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	require.True(t, persisted.HasSnapshot())
	assert.Equal(t, "Ana", persisted.Snapshot.FirstName)
	assert.Equal(t, "Muñoz", persisted.Snapshot.LastName)
	assert.Equal(t, "EMP-A1B2C3D4", persisted.Snapshot.EmployeeCode)

	events := f.publisher.all()
	require.Len(t, events, 1)
	assert.Equal(t, lifecycle.EventOffboardingClosed, events[0].Type)
}

// Re-cerrar un offboarding ya cerrado es inocuo: ni segunda purga ni segundo
// snapshot ni segundo evento.
func TestClose_ReintentoIdempotente(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()
	emp := f.seedEmployee(t)
	ob := f.initiate(t, emp.ID)
	f.advanceToSettlement(t, ob.ID)

	first, err := f.uc.Close(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	second, err := f.uc.Close(ctx, testOrg, ob.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.True(t, second.HasSnapshot())
	assert.True(t, second.Snapshot.CapturedAt.Equal(first.Snapshot.CapturedAt),
		"el snapshot persistido jamás se re-captura")
	assert.Equal(t, 1, f.emp.Deletes(), "cero o una purga por cierre, nunca dos")
	assert.Len(t, f.publisher.all(), 1)
}

// Proceso muerto ENTRE snapshot y purga: el snapshot ya es durable, el vivo
// sigue existiendo. El reintento detecta el snapshot, NO lo re-captura, y solo
// completa purga y cierre.
func TestClose_CrashEntreSnapshotYPurga(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()
	emp := f.seedEmployee(t)
	ob := f.initiate(t, emp.ID)
	f.advanceToSettlement(t, ob.ID)

	f.emp.FailNextDelete = errors.New("conexión perdida")
	_, err := f.uc.Close(ctx, testOrg, ob.ID)
	require.Error(t, err)

	mid, err := f.stores.Offboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	require.True(t, mid.HasSnapshot(), "el snapshot quedó persistido antes del fallo")
	assert.False(t, mid.IsClosed())
	alive, err := f.stores.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, alive, "el vivo sobrevivió al crash")
	captured := mid.Snapshot.CapturedAt

	// Mutar al vivo antes del reintento: el snapshot NO debe seguirlo.
	alive.SalaryMonthly = decimal.RequireFromString("9999999.99")
	require.NoError(t, f.stores.Employees.Update(ctx, alive))

	closed, err := f.uc.Close(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed())
	assert.Equal(t, "4500000.00", closed.Snapshot.SalaryMonthly, "snapshot inmutable tras el crash")
	assert.True(t, closed.Snapshot.CapturedAt.Equal(captured))

	gone, err := f.stores.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, 1, f.emp.Deletes())
}

// El cierre no salta etapas: un offboarding recién iniciado no puede cerrarse
// sin pasar por clearance y settlement.
func TestClose_RequiereSettlement(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()
	emp := f.seedEmployee(t)
	ob := f.initiate(t, emp.ID)

	_, err := f.uc.Close(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Nada se tocó: ni snapshot ni purga.
	mid, err := f.stores.Offboardings.GetByID(ctx, ob.ID)
	require.NoError(t, err)
	assert.False(t, mid.HasSnapshot())
	assert.Equal(t, entity.OffboardingInitiated, mid.Status)
	alive, err := f.stores.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.NotNil(t, alive)
}

// Un cerrado sin snapshot es un invariante roto: esta vía no adivina, lo
// devuelve como estado inconsistente para que lo señale el reconciliador.
func TestClose_CerradoSinSnapshotEsInconsistente(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()

	ob := &entity.OffboardingRecord{
		ID: uuid.NewString(), EmployeeID: uuid.NewString(),
		Status: entity.OffboardingClosed, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Offboardings.Create(ctx, ob))

	_, err := f.uc.Close(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotMissing)
}

func TestClose_SinSnapshotYEmployeeAusente(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()

	ob := &entity.OffboardingRecord{
		ID: uuid.NewString(), EmployeeID: uuid.NewString(),
		Status: entity.OffboardingSettlement, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Offboardings.Create(ctx, ob))

	_, err := f.uc.Close(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrDanglingReference)
}

func TestAdvance_RecorreEtapasYNoCierra(t *testing.T) {
	f := newOffboardingFixture(t)
	ctx := context.Background()
	emp := f.seedEmployee(t)
	ob := f.initiate(t, emp.ID)

	adv, err := f.uc.Advance(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OffboardingClearance, adv.Status)

	adv, err = f.uc.Advance(ctx, testOrg, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OffboardingSettlement, adv.Status)

	// settlement → closed no pasa por Advance: el cierre tiene su operación.
	_, err = f.uc.Advance(ctx, testOrg, ob.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Initiate sobre un employee ya purgado tampoco procede.
	_, errClose := f.uc.Close(ctx, testOrg, ob.ID)
	require.NoError(t, errClose)
	_, err = f.uc.Initiate(ctx, lifecycle.InitiateInput{
		OrganizationID: testOrg, EmployeeID: emp.ID, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
