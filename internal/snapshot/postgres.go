package snapshot

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/lib/pq"

	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
)

type sqlOpenFunc func(driverName, dsn string) (*sql.DB, error)

// OpenPostgres connects to PostgreSQL and creates the snapshot table if needed.
func OpenPostgres(ctx context.Context, dsn string) (Store, error) {
	store, err := openPostgres(ctx, dsn, sql.Open)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openPostgres(ctx context.Context, dsn string, open sqlOpenFunc) (*sqlStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.NewValidationError("dsn", dsn, "postgres dsn is required")
	}
	db, err := open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapResource("open", resource, "postgres", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("open", resource, "postgres", err)
	}

	store := &sqlStore{db: db, dialect: newDialect("postgres", "$")}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
