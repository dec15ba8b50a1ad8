package tenancy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/internal/application/tenancy"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRegistryRepo struct {
	entries map[string]*entity.RegistryEntry
}

func newFakeRegistryRepo() *fakeRegistryRepo {
	return &fakeRegistryRepo{entries: make(map[string]*entity.RegistryEntry)}
}

func (f *fakeRegistryRepo) Create(_ context.Context, e *entity.RegistryEntry) error {
	if _, ok := f.entries[e.OrganizationID]; ok {
		return domain.ErrDuplicateOrganization
	}
	cp := *e
	f.entries[e.OrganizationID] = &cp
	return nil
}

func (f *fakeRegistryRepo) GetByOrganization(_ context.Context, organizationID string) (*entity.RegistryEntry, error) {
	e, ok := f.entries[organizationID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRegistryRepo) UpdateStatus(_ context.Context, organizationID, status string) error {
	e, ok := f.entries[organizationID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeRegistryRepo) UpdateProvisionStatus(_ context.Context, organizationID, provisionStatus string) error {
	e, ok := f.entries[organizationID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	e.StoreProvisionStatus = provisionStatus
	return nil
}

func (f *fakeRegistryRepo) ListActive(_ context.Context) ([]*entity.RegistryEntry, error) {
	var list []*entity.RegistryEntry
	for _, e := range f.entries {
		if e.Status == entity.TenantActive {
			cp := *e
			list = append(list, &cp)
		}
	}
	return list, nil
}

type fakeProvisioner struct {
	calls []string
	err   error
}

func (f *fakeProvisioner) Provision(_ context.Context, storeName string) error {
	f.calls = append(f.calls, storeName)
	return f.err
}

func newUseCase(repo *fakeRegistryRepo, prov *fakeProvisioner) *tenancy.RegistryUseCase {
	return tenancy.NewRegistryUseCase(repo, prov, "talento_t_", logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_AltaNueva(t *testing.T) {
	repo := newFakeRegistryRepo()
	prov := &fakeProvisioner{}
	uc := newUseCase(repo, prov)

	entry, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID:   "acme",
		OrganizationName: "ACME Corp",
		Plan:             "enterprise",
	})
	require.NoError(t, err)

	assert.Equal(t, "talento_t_acme", entry.StoreName, "el storeName se deriva del prefijo + organizationId")
	assert.Equal(t, entity.TenantActive, entry.Status)
	assert.Equal(t, entity.ProvisionActive, entry.StoreProvisionStatus)
	assert.Equal(t, []string{"talento_t_acme"}, prov.calls, "el store se aprovisiona una vez")
}

// Repetir el alta con los mismos datos devuelve la entrada existente sin error
// y sin re-aprovisionar: el registro es idempotente.
func TestRegister_Idempotente(t *testing.T) {
	repo := newFakeRegistryRepo()
	prov := &fakeProvisioner{}
	uc := newUseCase(repo, prov)

	first, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	require.NoError(t, err)

	second, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	require.NoError(t, err, "re-registrar la misma organización no es un error")
	assert.Equal(t, first.StoreName, second.StoreName)
	assert.Len(t, prov.calls, 1, "el aprovisionamiento no se repite")
}

// racingRegistryRepo simula la carrera perdida: el primer Get aún no ve nada
// y el Create choca con la entrada que el alta ganadora confirmó en medio.
type racingRegistryRepo struct {
	*fakeRegistryRepo
	missFirstGet bool
}

func (f *racingRegistryRepo) GetByOrganization(ctx context.Context, organizationID string) (*entity.RegistryEntry, error) {
	if f.missFirstGet {
		f.missFirstGet = false
		return nil, nil
	}
	return f.fakeRegistryRepo.GetByOrganization(ctx, organizationID)
}

// Dos altas concurrentes de la misma organización nueva: el perdedor del
// insert recibe la entrada del ganador como éxito idempotente, porque el
// storeName derivado es idéntico. El error de duplicado se reserva para un
// mapeo distinto.
func TestRegister_CarreraPerdidaEsExitoIdempotente(t *testing.T) {
	repo := &racingRegistryRepo{fakeRegistryRepo: newFakeRegistryRepo(), missFirstGet: true}
	repo.entries["acme"] = &entity.RegistryEntry{
		OrganizationID:       "acme",
		OrganizationName:     "ACME Corp",
		StoreName:            "talento_t_acme",
		Status:               entity.TenantActive,
		StoreProvisionStatus: entity.ProvisionActive,
	}
	prov := &fakeProvisioner{}
	uc := tenancy.NewRegistryUseCase(repo, prov, "talento_t_", logger.Nop())

	entry, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	require.NoError(t, err, "perder la carrera con el mismo storeName no es un error")
	assert.Equal(t, "talento_t_acme", entry.StoreName)
	assert.Empty(t, prov.calls, "el perdedor no re-aprovisiona el store del ganador")
}

// La misma carrera contra una entrada con OTRO storeName sí es conflicto.
func TestRegister_CarreraPerdidaConOtroStoreEsConflicto(t *testing.T) {
	repo := &racingRegistryRepo{fakeRegistryRepo: newFakeRegistryRepo(), missFirstGet: true}
	repo.entries["acme"] = &entity.RegistryEntry{
		OrganizationID: "acme",
		StoreName:      "talento_t_otro",
		Status:         entity.TenantActive,
	}
	uc := tenancy.NewRegistryUseCase(repo, &fakeProvisioner{}, "talento_t_", logger.Nop())

	_, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOrganization)
}

// Una entrada existente con OTRO storeName para el mismo id es corrupción de
// datos: el conflicto se reporta, jamás se pisa el mapeo.
func TestRegister_ConflictoDeStore(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.entries["acme"] = &entity.RegistryEntry{
		OrganizationID: "acme",
		StoreName:      "talento_t_otro",
		Status:         entity.TenantActive,
	}
	uc := newUseCase(repo, &fakeProvisioner{})

	_, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOrganization)
	assert.Equal(t, "talento_t_otro", repo.entries["acme"].StoreName, "el mapeo existente queda intacto")
}

func TestRegister_OrganizationIDInvalido(t *testing.T) {
	uc := newUseCase(newFakeRegistryRepo(), &fakeProvisioner{})

	for _, id := range []string{"", "Acme", "acme-corp", "1acme"} {
		_, err := uc.Register(context.Background(), tenancy.RegisterInput{
			OrganizationID: id, OrganizationName: "X",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "id %q debe rechazarse", id)
	}
}

// Si el aprovisionamiento falla, el registro queda con el store degradado en
// lugar de revertirse: el reintento es una re-provisión manual.
func TestRegister_ProvisionFalla_QuedaDegradado(t *testing.T) {
	repo := newFakeRegistryRepo()
	prov := &fakeProvisioner{err: errors.New("disco lleno")}
	uc := newUseCase(repo, prov)

	entry, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProvisionDegraded, entry.StoreProvisionStatus)
	assert.Equal(t, entity.ProvisionDegraded, repo.entries["acme"].StoreProvisionStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve / Archive
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_TenantInexistente(t *testing.T) {
	uc := newUseCase(newFakeRegistryRepo(), &fakeProvisioner{})

	_, err := uc.Resolve(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound,
		"un tenant que el registro niega jamás se resuelve a un store adivinado")
}

func TestResolve_TenantSuspendido(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.entries["acme"] = &entity.RegistryEntry{
		OrganizationID: "acme", StoreName: "talento_t_acme", Status: entity.TenantSuspended,
	}
	uc := newUseCase(repo, &fakeProvisioner{})

	_, err := uc.Resolve(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrTenantSuspended)
}

func TestArchive_NoBorraDatos(t *testing.T) {
	repo := newFakeRegistryRepo()
	prov := &fakeProvisioner{}
	uc := newUseCase(repo, prov)

	_, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Archive(context.Background(), "acme"))
	assert.Equal(t, entity.TenantArchived, repo.entries["acme"].Status)
	assert.Equal(t, "talento_t_acme", repo.entries["acme"].StoreName, "la entrada permanece, solo cambia el estado")

	// Archivar dos veces es inocuo.
	require.NoError(t, uc.Archive(context.Background(), "acme"))

	// Y un tenant archivado ya no resuelve.
	_, err = uc.Resolve(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrTenantSuspended)
}

func TestHasFeature(t *testing.T) {
	repo := newFakeRegistryRepo()
	uc := newUseCase(repo, &fakeProvisioner{})

	_, err := uc.Register(context.Background(), tenancy.RegisterInput{
		OrganizationID: "acme", OrganizationName: "ACME Corp",
		EnabledFeatures: []string{"offboarding"},
	})
	require.NoError(t, err)

	ok, err := uc.HasFeature(context.Background(), "acme", "offboarding")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.HasFeature(context.Background(), "acme", "analytics")
	require.NoError(t, err)
	assert.False(t, ok)
}
