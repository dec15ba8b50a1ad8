package postgres

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/TalentoHR-api/internal/domain"
	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// Resolver resuelve un organizationId a su entrada del registro. En producción
// es el caso de uso del registro; en tests, un stub.
type Resolver interface {
	Resolve(ctx context.Context, organizationID string) (*entity.RegistryEntry, error)
}

// poolOpener abre un pool contra un DSN. Inyectable para que los tests de
// coalescing y desalojo no necesiten un PostgreSQL real.
type poolOpener func(ctx context.Context, dsn string) (Pool, error)

// tenantHandle pool abierto de un tenant más su marca de último uso.
type tenantHandle struct {
	pool       Pool
	lastUsedAt time.Time
}

// TenantManagerConfig parámetros del gestor de conexiones por tenant.
type TenantManagerConfig struct {
	IdleTTL        time.Duration // sin uso más allá de esto, el pool se cierra
	SweepEvery     time.Duration // periodo del barrido de desalojo
	MaxOpenStores  int           // tope de pools abiertos (LRU al excederse)
	ConnectRetries int           // intentos ante timeout
	ConnectBackoff time.Duration // backoff inicial, se duplica por intento
}

// TenantManager mantiene a lo sumo un pool abierto por tenant. Las peticiones
// concurrentes por el mismo tenant se coalescen en una sola apertura
// (singleflight); los pools ociosos se desalojan por TTL y el total abierto se
// acota con LRU. Los fallos de autenticación se devuelven de inmediato sin
// reintento; los timeouts se reintentan con backoff exponencial acotado.
type TenantManager struct {
	resolver Resolver
	dsnFor   func(storeName string) string
	open     poolOpener
	clk      clock.Clock
	cfg      TenantManagerConfig
	log      *logger.Logger

	group singleflight.Group

	mu      sync.Mutex
	handles map[string]*tenantHandle

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewTenantManager construye el gestor. dsnFor arma el connection string de un
// store (normalmente config.TenantDBConfig.DSN).
func NewTenantManager(resolver Resolver, dsnFor func(storeName string) string, cfg TenantManagerConfig, log *logger.Logger) *TenantManager {
	m := &TenantManager{
		resolver: resolver,
		dsnFor:   dsnFor,
		open: func(ctx context.Context, dsn string) (Pool, error) {
			return newPool(ctx, dsn)
		},
		clk:      clock.New(),
		cfg:      cfg,
		log:      log,
		handles:  make(map[string]*tenantHandle),
		stop:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop()
	return m
}

// newTenantManagerForTest variante sin goroutine de barrido, con opener y
// reloj inyectados. El barrido se dispara a mano con sweep().
func newTenantManagerForTest(resolver Resolver, dsnFor func(string) string, open poolOpener, clk clock.Clock, cfg TenantManagerConfig, log *logger.Logger) *TenantManager {
	return &TenantManager{
		resolver: resolver,
		dsnFor:   dsnFor,
		open:     open,
		clk:      clk,
		cfg:      cfg,
		log:      log,
		handles:  make(map[string]*tenantHandle),
		stop:     make(chan struct{}),
	}
}

// Acquire devuelve el pool del tenant, abriéndolo si hace falta. La resolución
// contra el registro ocurre SIEMPRE (un tenant archivado no usa pools cacheados),
// la apertura se coalesce por organizationId.
func (m *TenantManager) Acquire(ctx context.Context, organizationID string) (Pool, error) {
	entry, err := m.resolver.Resolve(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	// Camino rápido: pool ya abierto.
	m.mu.Lock()
	if h, ok := m.handles[organizationID]; ok {
		h.lastUsedAt = m.clk.Now()
		pool := h.pool
		m.mu.Unlock()
		return pool, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(organizationID, func() (interface{}, error) {
		// Otro vuelo pudo haber poblado el cache entre el check y el Do.
		m.mu.Lock()
		if h, ok := m.handles[organizationID]; ok {
			h.lastUsedAt = m.clk.Now()
			pool := h.pool
			m.mu.Unlock()
			return pool, nil
		}
		m.mu.Unlock()

		pool, err := m.openWithRetry(ctx, entry.StoreName)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.handles[organizationID] = &tenantHandle{pool: pool, lastUsedAt: m.clk.Now()}
		m.enforceMaxOpenLocked(organizationID)
		m.mu.Unlock()

		m.log.Info().Str("organization_id", organizationID).Str("store", entry.StoreName).Msg("pool de tenant abierto")
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Pool), nil
}

// openWithRetry clasifica los fallos de conexión: autenticación corta de
// inmediato, timeout reintenta con backoff duplicado hasta agotar intentos.
func (m *TenantManager) openWithRetry(ctx context.Context, storeName string) (Pool, error) {
	attempts := m.cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := m.cfg.ConnectBackoff

	var lastErr error
	for i := 0; i < attempts; i++ {
		pool, err := m.open(ctx, m.dsnFor(storeName))
		if err == nil {
			return pool, nil
		}
		if isAuthFailure(err) {
			return nil, fmt.Errorf("store %s: %w", storeName, domain.ErrConnectionAuthFailure)
		}
		if !isTimeout(err) {
			return nil, fmt.Errorf("conectar store %s: %w", storeName, err)
		}
		lastErr = err
		if i < attempts-1 {
			m.log.Warn().Str("store", storeName).Int("attempt", i+1).Err(err).Msg("timeout al abrir pool, reintentando")
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("store %s: %w", storeName, domain.ErrConnectionTimeout)
			case <-m.clk.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("store %s tras %d intentos (%v): %w", storeName, attempts, lastErr, domain.ErrConnectionTimeout)
}

// enforceMaxOpenLocked cierra los pools menos usados hasta respetar el tope.
// El tenant recién abierto (keep) nunca se desaloja. Requiere m.mu tomado.
func (m *TenantManager) enforceMaxOpenLocked(keep string) {
	if m.cfg.MaxOpenStores <= 0 || len(m.handles) <= m.cfg.MaxOpenStores {
		return
	}
	type cand struct {
		org string
		at  time.Time
	}
	var cands []cand
	for org, h := range m.handles {
		if org == keep {
			continue
		}
		cands = append(cands, cand{org: org, at: h.lastUsedAt})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].at.Before(cands[j].at) })
	for _, c := range cands {
		if len(m.handles) <= m.cfg.MaxOpenStores {
			break
		}
		m.closeLocked(c.org, "lru")
	}
}

// sweepLoop cierra periódicamente los pools ociosos por TTL.
func (m *TenantManager) sweepLoop() {
	defer m.wg.Done()
	ticker := m.clk.Ticker(m.cfg.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep un pase de desalojo por ociosidad.
func (m *TenantManager) sweep() {
	now := m.clk.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for org, h := range m.handles {
		if now.Sub(h.lastUsedAt) >= m.cfg.IdleTTL {
			m.closeLocked(org, "idle")
		}
	}
}

// closeLocked cierra y remueve el pool del tenant. Requiere m.mu tomado.
// pgxpool.Close espera a que las conexiones prestadas regresen, así que un
// desalojo no corta operaciones en vuelo.
func (m *TenantManager) closeLocked(organizationID, reason string) {
	h, ok := m.handles[organizationID]
	if !ok {
		return
	}
	delete(m.handles, organizationID)
	go h.pool.Close()
	m.log.Info().Str("organization_id", organizationID).Str("reason", reason).Msg("pool de tenant cerrado")
}

// OpenCount pools abiertos en este momento.
func (m *TenantManager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// Evict cierra el pool de un tenant si está abierto (p. ej. al archivarlo).
func (m *TenantManager) Evict(organizationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(organizationID, "evict")
}

// Shutdown detiene el barrido y cierra todos los pools abiertos.
func (m *TenantManager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	for org, h := range m.handles {
		delete(m.handles, org)
		h.pool.Close()
	}
}
