package snapshot

import (
	"context"
	"net/url"
	"strings"

	"github.com/agentstation/deskbridge/pkg/errors"
)

// Open builds a Store from a DSN:
//
//	postgres://..., postgresql://...  PostgreSQL
//	host=... dbname=...               PostgreSQL (key=value form)
//	sqlite://path, file:path, path    SQLite file
//	memory://                         in-process map
//
// An empty DSN disables snapshots and returns a nil Store.
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, nil
	}

	if isKeyValueDSN(dsn) {
		return OpenPostgres(ctx, dsn)
	}

	scheme, rest, found := strings.Cut(dsn, ":")
	if !found || strings.ContainsAny(scheme, `/\`) || len(scheme) == 1 {
		// bare path, including Windows drive letters
		return OpenSQLite(ctx, dsn)
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, sqlitePath(rest))
	case "file":
		return OpenSQLite(ctx, strings.TrimPrefix(rest, "//"))
	case "memory", "mem":
		return NewMemory(), nil
	default:
		return nil, errors.NewValidationError("dsn", redact(dsn), "unsupported snapshot store scheme: "+scheme)
	}
}

// isKeyValueDSN reports whether dsn is a libpq "key=value ..." connection
// string. Its first word must be a bare keyword followed by '='.
func isKeyValueDSN(dsn string) bool {
	if strings.Contains(dsn, "://") {
		return false
	}
	word := strings.Fields(dsn)[0]
	key, _, found := strings.Cut(word, "=")
	if !found || key == "" {
		return false
	}
	for _, r := range key {
		if r != '_' && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// sqlitePath turns the part after "sqlite:" into a file path.
// sqlite:///abs/path is absolute, sqlite://rel/path is relative.
func sqlitePath(rest string) string {
	rest = strings.TrimPrefix(rest, "//")
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// redact strips credentials from a DSN before it appears in an error.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
