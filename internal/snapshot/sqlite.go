package snapshot

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
)

// OpenSQLite opens (creating if needed) a SQLite database file and the
// snapshot table inside it.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	if path == "" {
		path = constants.DefaultSnapshotPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapResource("create directory for", resource, path, err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, errors.WrapResource("open", resource, path, err)
	}
	// A single connection keeps writes serialized on the file.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("open", resource, path, err)
	}

	store := &sqlStore{db: db, dialect: newDialect("sqlite", "?")}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
