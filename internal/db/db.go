package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour a store writes.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Open connects with driver ("pgx", "postgres" or "sqlite") and pings.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, "", err
	}
	var conn *sql.DB
	if driver == "pgx" {
		conn, err = openPgx(dsn)
	} else {
		conn, err = sql.Open(driver, dsn)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == SQLite {
		// one writer; also keeps :memory: databases on a single connection
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("ping %s: %w", driver, err)
	}
	return conn, dialect, nil
}

// Rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Like is the case-insensitive LIKE operator.
func (d Dialect) Like() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

// TimestampType is the column type used for instants.
func (d Dialect) TimestampType() string {
	if d == Postgres {
		return "TIMESTAMPTZ"
	}
	return "INTEGER"
}

// Stamp converts t into the value stored in a TimestampType column.
// SQLite keeps UTC unix nanoseconds so range comparisons stay numeric.
func (d Dialect) Stamp(t time.Time) any {
	if d == Postgres {
		return t.UTC()
	}
	return t.UTC().UnixNano()
}

// Timestamp scans either representation written by Stamp.
type Timestamp struct {
	T *time.Time
}

func (s Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.T = v.UTC()
	case int64:
		*s.T = time.Unix(0, v).UTC()
	case nil:
		*s.T = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}
	return nil
}
