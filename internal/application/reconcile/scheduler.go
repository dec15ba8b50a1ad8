package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// TenantLister enumera los tenants activos a reconciliar. Lo implementa el
// caso de uso del registro.
type TenantLister interface {
	ListActive(ctx context.Context) ([]*entity.RegistryEntry, error)
}

// Scheduler dispara el pase de reconciliación periódicamente sobre todos los
// tenants activos. El barrido es cooperativo (ticker), nunca interrumpe pases
// en vuelo; cada tenant corre en su propia goroutine sin estado compartido y
// el lock por tenant del Reconciler evita solaparse con pases on-demand.
type Scheduler struct {
	reconciler *Reconciler
	tenants    TenantLister
	interval   time.Duration
	clock      clock.Clock
	log        *logger.Logger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler construye el scheduler. Un clock inyectable permite testear el
// ticker sin esperas reales.
func NewScheduler(reconciler *Reconciler, tenants TenantLister, interval time.Duration, clk clock.Clock, log *logger.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		reconciler: reconciler,
		tenants:    tenants,
		interval:   interval,
		clock:      clk,
		log:        log,
		stop:       make(chan struct{}),
	}
}

// Start arranca el bucle en background.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := s.clock.Ticker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runAll(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop detiene el bucle y espera a que los pases en curso terminen.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// runAll lanza un pase por cada tenant activo; tenants independientes en
// paralelo, y un pase fallido se reintenta entero en la próxima invocación.
func (s *Scheduler) runAll(ctx context.Context) {
	entries, err := s.tenants.ListActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron listar tenants para reconciliar")
		return
	}
	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(organizationID string) {
			defer wg.Done()
			if _, err := s.reconciler.Run(ctx, organizationID); err != nil {
				s.log.Warn().Err(err).Str("organization_id", organizationID).
					Msg("pase de reconciliación con fallos por registro")
			}
		}(entry.OrganizationID)
	}
	wg.Wait()
}
