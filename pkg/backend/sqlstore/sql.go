// Package sqlstore keeps entries in a single SQL table ordered by a binary
// primary key. SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const (
	defaultTable   = "kv"
	defaultTimeout = 10 * time.Second
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Options struct {
	Table string
	// Timeout bounds every statement; zero means defaultTimeout.
	Timeout time.Duration
}

type queries struct {
	create string
	upsert string
	delete string
	clear  string
	scan   string
}

func buildQueries(d Dialect, table string) (queries, error) {
	switch d {
	case SQLite:
		return queries{
			create: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key BLOB PRIMARY KEY, value BLOB NOT NULL)`, table),
			upsert: fmt.Sprintf(`INSERT OR REPLACE INTO %s (key, value) VALUES (?, ?)`, table),
			delete: fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, table),
			clear:  fmt.Sprintf(`DELETE FROM %s`, table),
			scan:   fmt.Sprintf(`SELECT key, value FROM %s`, table),
		}, nil
	case Postgres:
		return queries{
			create: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key BYTEA PRIMARY KEY, value BYTEA NOT NULL)`, table),
			upsert: fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, table),
			delete: fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, table),
			clear:  fmt.Sprintf(`DELETE FROM %s`, table),
			scan:   fmt.Sprintf(`SELECT key, value FROM %s`, table),
		}, nil
	}
	return queries{}, fmt.Errorf("unsupported SQL dialect %q", d)
}

type Backend struct {
	db      *sql.DB
	dialect Dialect
	q       queries
	timeout time.Duration
}

var _ backend.Backend = (*Backend)(nil)

// Open connects with the dialect's driver and creates the table if needed.
// For SQLite the DSN is a file path or ":memory:".
func Open(d Dialect, dsn string, opts Options) (*Backend, error) {
	if opts.Table == "" {
		opts.Table = defaultTable
	}
	if !tableName.MatchString(opts.Table) {
		return nil, dberrors.New(dberrors.KindInvalidArgument, "sql open", fmt.Sprintf("invalid table name %q", opts.Table))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	q, err := buildQueries(d, opts.Table)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindInvalidArgument, "sql open", err)
	}

	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, dberrors.Backend("sql open", err)
	}
	if d == SQLite {
		// one connection keeps ":memory:" databases shared and serializes writers
		db.SetMaxOpenConns(1)
	}

	b := &Backend{db: db, dialect: d, q: q, timeout: opts.Timeout}
	ctx, cancel := b.ctx()
	defer cancel()
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		_ = db.Close()
		return nil, dberrors.Backend("sql create table", err)
	}
	return b, nil
}

func (b *Backend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) placeholder(n int) string {
	if b.dialect == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (b *Backend) scanQuery(start, end keys.Key) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if start != nil {
		args = append(args, []byte(start))
		conds = append(conds, "key >= "+b.placeholder(len(args)))
	}
	if end != nil {
		args = append(args, []byte(end))
		conds = append(conds, "key < "+b.placeholder(len(args)))
	}
	query := b.q.scan
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + " ORDER BY key ASC", args
}

func (b *Backend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	if backend.Empty(start, end) {
		return nil, nil
	}
	ctx, cancel := b.ctx()
	defer cancel()

	query, args := b.scanQuery(start, end)
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberrors.Backend("sql scan", err)
	}
	defer rows.Close()

	var out []backend.Entry
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, dberrors.Backend("sql scan", err)
		}
		out = append(out, backend.Entry{Key: keys.Key(k), Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Backend("sql scan", err)
	}
	return out, nil
}

func (b *Backend) Write(key keys.Key, value []byte) error {
	ctx, cancel := b.ctx()
	defer cancel()

	var err error
	if value == nil {
		_, err = b.db.ExecContext(ctx, b.q.delete, []byte(key))
	} else {
		_, err = b.db.ExecContext(ctx, b.q.upsert, []byte(key), value)
	}
	if err != nil {
		return dberrors.Backend("sql write", err)
	}
	return nil
}

func (b *Backend) Clear() error {
	ctx, cancel := b.ctx()
	defer cancel()
	if _, err := b.db.ExecContext(ctx, b.q.clear); err != nil {
		return dberrors.Backend("sql clear", err)
	}
	return nil
}
