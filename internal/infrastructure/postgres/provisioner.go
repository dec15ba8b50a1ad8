package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// StoreProvisioner crea la base física de un tenant y le aplica el esquema.
// Usa el pool administrativo (la base del registro) para el CREATE DATABASE y
// abre una conexión efímera al store recién creado para el DDL.
type StoreProvisioner struct {
	admin  *pgxpool.Pool
	dsnFor func(storeName string) string
	log    *logger.Logger
}

// NewStoreProvisioner construye el provisionador de stores.
func NewStoreProvisioner(admin *pgxpool.Pool, dsnFor func(string) string, log *logger.Logger) *StoreProvisioner {
	return &StoreProvisioner{admin: admin, dsnFor: dsnFor, log: log}
}

// Provision crea la base del store (si no existe) y aplica el esquema. Es
// idempotente: re-ejecutarla sobre un store a medio provisionar lo completa.
func (p *StoreProvisioner) Provision(ctx context.Context, storeName string) error {
	exists, err := p.databaseExists(ctx, storeName)
	if err != nil {
		return err
	}
	if !exists {
		// CREATE DATABASE no acepta parámetros bind; storeName ya pasó la
		// validación de organizationId y el prefijo fijo, el Identifier lo
		// escapa de todos modos.
		stmt := fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{storeName}.Sanitize())
		if _, err := p.admin.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear base %s: %w", storeName, err)
		}
		p.log.Info().Str("store", storeName).Msg("base de tenant creada")
	}

	conn, err := pgx.Connect(ctx, p.dsnFor(storeName))
	if err != nil {
		return fmt.Errorf("conectar a %s para DDL: %w", storeName, err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, tenantSchema); err != nil {
		return fmt.Errorf("aplicar esquema en %s: %w", storeName, err)
	}
	p.log.Info().Str("store", storeName).Msg("esquema de tenant aplicado")
	return nil
}

func (p *StoreProvisioner) databaseExists(ctx context.Context, storeName string) (bool, error) {
	var one int
	err := p.admin.QueryRow(ctx, `SELECT 1 FROM pg_database WHERE datname = $1`, storeName).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("consultar pg_database: %w", err)
	}
	return true, nil
}

// EnsureRegistrySchema aplica el DDL de la base global del registro.
func EnsureRegistrySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, registrySchema); err != nil {
		return fmt.Errorf("aplicar esquema del registro: %w", err)
	}
	return nil
}
