package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB subconjunto de *pgxpool.Pool que usan los repositorios. Aceptar la
// interfaz permite atarlos a un pool real o a pgxmock en los tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool vista del pool de un tenant que manejan el TenantManager y el
// StoreProvider: lo que necesitan los repositorios más el cierre. La satisface
// *pgxpool.Pool; los tests del manager inyectan un fake.
type Pool interface {
	DB
	Close()
}
