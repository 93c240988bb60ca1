package snapshot

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
)

const resource = "snapshot store"

// dialect holds the statements that differ between database engines.
type dialect struct {
	name   string
	create string
	upsert string
	find   string
}

func newDialect(name, placeholder string) dialect {
	p := func(i int) string {
		if placeholder == "$" {
			return fmt.Sprintf("$%d", i)
		}
		return "?"
	}
	table := quoteIdentifier(constants.SnapshotTableName)
	return dialect{
		name: name,
		create: fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				login TEXT PRIMARY KEY,
				name TEXT,
				created_at TEXT
			)`, table),
		upsert: fmt.Sprintf(`
			INSERT INTO %s (login, name, created_at)
			VALUES (%s, %s, %s)
			ON CONFLICT (login)
			DO UPDATE SET name = excluded.name, created_at = excluded.created_at`,
			table, p(1), p(2), p(3)),
		find: fmt.Sprintf("SELECT login, name, created_at FROM %s WHERE login = %s", table, p(1)),
	}
}

// sqlStore implements Store on top of database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.dialect.create); err != nil {
		return errors.WrapResource("create schema", resource, s.dialect.name, err)
	}
	return nil
}

// Upsert implements Store.
func (s *sqlStore) Upsert(ctx context.Context, snap Snapshot) error {
	if snap.Login == "" {
		return errors.NewValidationError("login", snap.Login, "login is required")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, s.dialect.upsert, snap.Login, nullString(snap.Name), nullString(snap.CreatedAt))
	return errors.WrapResource("upsert", "snapshot", snap.Login, err)
}

// Find implements Store.
func (s *sqlStore) Find(ctx context.Context, login string) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	var (
		snap      Snapshot
		name      sql.NullString
		createdAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.dialect.find, login).Scan(&snap.Login, &name, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapResource("find", "snapshot", login, err)
	}
	snap.Name = name.String
	snap.CreatedAt = createdAt.String
	return &snap, nil
}

// Close implements Store.
func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func quoteIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return `""`
	}
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
