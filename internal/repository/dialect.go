package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/Dan9191/credit-service/internal/config"
)

const table = "credit_info"

type dialect struct {
	driverName string
	schema     []string
	optimize   string
	// syncSequence realigns generated ids after a row is inserted with an
	// explicit id. Empty when the engine does it itself.
	syncSequence string
	positional   bool
	dsn          func(conn string) string
	isUniqueErr  func(err error) bool
}

var sqliteDialect = &dialect{
	driverName: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS credit_info (
			id INTEGER PRIMARY KEY,
			company_name TEXT NOT NULL,
			address TEXT NOT NULL,
			registration_date TEXT NOT NULL,
			number_of_employees INTEGER NOT NULL,
			raised_capital REAL NOT NULL,
			turnover REAL NOT NULL,
			net_profit REAL NOT NULL,
			contact_number TEXT NOT NULL,
			contact_email TEXT NOT NULL,
			company_website TEXT NOT NULL,
			loan_amount REAL NOT NULL,
			loan_interest REAL NOT NULL,
			account_status BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_credit_info_company_name ON credit_info (company_name)`,
	},
	optimize: `PRAGMA optimize`,
	dsn: func(conn string) string {
		sep := "?"
		if strings.Contains(conn, "?") {
			sep = "&"
		}
		return conn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	},
	isUniqueErr: func(err error) bool {
		var sqliteErr *msqlite.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.Code() {
			case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
				return true
			}
		}
		return false
	},
}

var postgresDialect = &dialect{
	driverName: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS credit_info (
			id BIGSERIAL PRIMARY KEY,
			company_name TEXT NOT NULL,
			address TEXT NOT NULL,
			registration_date TEXT NOT NULL,
			number_of_employees BIGINT NOT NULL,
			raised_capital DOUBLE PRECISION NOT NULL,
			turnover DOUBLE PRECISION NOT NULL,
			net_profit DOUBLE PRECISION NOT NULL,
			contact_number TEXT NOT NULL,
			contact_email TEXT NOT NULL,
			company_website TEXT NOT NULL,
			loan_amount DOUBLE PRECISION NOT NULL,
			loan_interest DOUBLE PRECISION NOT NULL,
			account_status BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_credit_info_company_name ON credit_info (company_name)`,
	},
	optimize:     `ANALYZE credit_info`,
	syncSequence: `SELECT setval(pg_get_serial_sequence('credit_info', 'id'), (SELECT MAX(id) FROM credit_info))`,
	positional:   true,
	dsn: func(conn string) string {
		return conn
	},
	isUniqueErr: func(err error) bool {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return pqErr.Code == "23505"
		}
		return false
	},
}

func dialectFor(driver string) (*dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteDialect, nil
	case config.DriverPostgres:
		return postgresDialect, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebind rewrites ? placeholders into $1..$n for drivers that need them
func (d *dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
