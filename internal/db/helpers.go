package db

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

// IsUniqueViolation reports a duplicate-key failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return true
	}
	var pe *pq.Error
	if errors.As(err, &pe) && string(pe.Code) == pgUniqueViolation {
		return true
	}
	return false
}

// IsPostgres reports whether db binds positional $n parameters.
func IsPostgres(db *sqlx.DB) bool {
	return sqlx.BindType(db.DriverName()) == sqlx.DOLLAR
}

// HasTable checks information_schema in the connection's current schema.
func HasTable(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	schemaFn := "DATABASE()"
	if IsPostgres(db) {
		schemaFn = "current_schema()"
	}
	var n int
	err := db.QueryRowxContext(ctx, db.Rebind(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = `+schemaFn+`
		  AND table_name = ?
	`), table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
