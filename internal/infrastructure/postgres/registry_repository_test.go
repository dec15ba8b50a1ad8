package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/postgres"
)

var registryCols = []string{
	"organization_id", "organization_name", "store_name", "status", "store_provision_status",
	"plan", "plan_status", "enabled_features", "created_at", "updated_at",
}

func TestRegistryRepo_GetByOrganization(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM tenant_registry WHERE organization_id = \$1`).
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows(registryCols).AddRow(
			"acme", "ACME Corp", "talento_t_acme", "active", "active",
			"enterprise", "active", []string{"offboarding"}, now, now,
		))

	repo := postgres.NewRegistryRepository(mock)
	e, err := repo.GetByOrganization(context.Background(), "acme")
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, "talento_t_acme", e.StoreName)
	assert.Equal(t, entity.TenantActive, e.Status)
	assert.Equal(t, "enterprise", e.Subscription.Plan)
	assert.True(t, e.HasFeature("offboarding"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Sin fila no hay error: el caso de uso distingue "no existe" de "falló".
func TestRegistryRepo_GetByOrganization_NoExiste(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM tenant_registry`).
		WithArgs("fantasma").
		WillReturnError(pgx.ErrNoRows)

	repo := postgres.NewRegistryRepository(mock)
	e, err := repo.GetByOrganization(context.Background(), "fantasma")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestRegistryRepo_UpdateStatus_TenantInexistente(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE tenant_registry SET status`).
		WithArgs("fantasma", "archived").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewRegistryRepository(mock)
	err = repo.UpdateStatus(context.Background(), "fantasma", "archived")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}
