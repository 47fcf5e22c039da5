package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax. Queries are written with "?" and rebound for postgres.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a db.driver config value to a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Rebind rewrites "?" placeholders to "$1..$n" for postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
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

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}
