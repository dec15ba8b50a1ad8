package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/domain/repository"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/memory"
)

func newDirectoryFixture() (*lifecycle.DirectoryUseCase, *repository.TenantStores) {
	provider := memory.NewProvider()
	stores := memory.NewTenantStores()
	provider.Seed(testOrg, stores)
	return lifecycle.NewDirectoryUseCase(provider), stores
}

// Un duplicado enlazado muestra el historial del master, no el propio.
func TestGetCandidate_HistorialDelMaster(t *testing.T) {
	uc, stores := newDirectoryFixture()
	ctx := context.Background()

	master := &entity.Candidate{ID: uuid.NewString(), FirstName: "Ana", CreatedAt: time.Now().UTC()}
	require.NoError(t, stores.Candidates.Create(ctx, master))
	dup := &entity.Candidate{ID: uuid.NewString(), FirstName: "Ana", MasterCandidateID: &master.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, stores.Candidates.Create(ctx, dup))
	require.NoError(t, stores.Candidates.AppendApplication(ctx, &entity.Application{
		ID: uuid.NewString(), CandidateID: master.ID, JobID: "job-1",
		AppliedDate: time.Now().UTC(), Stage: entity.StageApplied, Status: "open",
	}))

	detail, err := uc.GetCandidate(ctx, testOrg, dup.ID)
	require.NoError(t, err)
	assert.False(t, detail.DanglingMaster)
	assert.Len(t, detail.Applications, 1, "el historial consolidado vive en el master")
}

// Con el master desaparecido la lectura degrada al historial propio y lo
// señala en vez de fallar.
func TestGetCandidate_MasterColganteDegrada(t *testing.T) {
	uc, stores := newDirectoryFixture()
	ctx := context.Background()

	ghost := uuid.NewString()
	dup := &entity.Candidate{ID: uuid.NewString(), FirstName: "Ana", MasterCandidateID: &ghost, CreatedAt: time.Now().UTC()}
	require.NoError(t, stores.Candidates.Create(ctx, dup))
	require.NoError(t, stores.Candidates.AppendApplication(ctx, &entity.Application{
		ID: uuid.NewString(), CandidateID: dup.ID, JobID: "job-1",
		AppliedDate: time.Now().UTC(), Stage: entity.StageApplied, Status: "open",
	}))

	detail, err := uc.GetCandidate(ctx, testOrg, dup.ID)
	require.NoError(t, err)
	assert.True(t, detail.DanglingMaster)
	assert.Len(t, detail.Applications, 1, "degrada al historial propio")
}

func TestGetEmployee_PurgadoNoExiste(t *testing.T) {
	uc, stores := newDirectoryFixture()
	ctx := context.Background()

	emp := &entity.Employee{ID: uuid.NewString(), FirstName: "Ana", IsActive: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, stores.Employees.Create(ctx, emp))

	got, err := uc.GetEmployee(ctx, testOrg, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	require.NoError(t, stores.Employees.Delete(ctx, emp.ID))
	_, err = uc.GetEmployee(ctx, testOrg, emp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
