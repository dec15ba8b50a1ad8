package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/internal/application/reconcile"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/memory"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

type staticTenants struct{ orgs []string }

func (s staticTenants) ListActive(context.Context) ([]*entity.RegistryEntry, error) {
	var out []*entity.RegistryEntry
	for _, org := range s.orgs {
		out = append(out, &entity.RegistryEntry{OrganizationID: org, Status: entity.TenantActive})
	}
	return out, nil
}

// Cada tick dispara un pase por cada tenant activo; el pase repara el residuo
// sembrado en cada store.
func TestScheduler_TickReconciliaTodosLosTenants(t *testing.T) {
	provider := memory.NewProvider()
	audits := make(map[string]*memory.AuditStore)
	for _, org := range []string{"acme", "globex"} {
		stores := memory.NewTenantStores()
		provider.Seed(org, stores)
		audits[org] = stores.Audits.(*memory.AuditStore)
		// Un completed sin enlace por tenant: garantiza al menos una reparación.
		require.NoError(t, stores.Onboardings.Create(context.Background(), &entity.OnboardingRecord{
			ID: uuid.NewString(), CandidateID: uuid.NewString(), JobID: "job-1",
			Status:    entity.OnboardingCompleted,
			FirstName: "Ana", Email: "ana@" + org + ".example.com",
			CreatedAt: time.Now().UTC(),
		}))
	}

	r := reconcile.NewReconciler(provider, logger.Nop())
	mock := clock.NewMock()
	s := reconcile.NewScheduler(r, staticTenants{orgs: []string{"acme", "globex"}}, time.Hour, mock, logger.Nop())

	s.Start(context.Background())
	time.Sleep(10 * time.Millisecond) // el ticker debe existir antes de avanzar el reloj
	mock.Add(time.Hour)

	for org, store := range audits {
		a := store
		assert.Eventually(t, func() bool { return len(a.All()) > 0 },
			time.Second, 5*time.Millisecond, "el tenant %s debe tener su reparación auditada", org)
	}
	s.Stop()
}

func TestScheduler_StopEsIdempotente(t *testing.T) {
	provider := memory.NewProvider()
	r := reconcile.NewReconciler(provider, logger.Nop())
	s := reconcile.NewScheduler(r, staticTenants{}, time.Hour, clock.NewMock(), logger.Nop())

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}
