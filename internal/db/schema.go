package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const CoursesTable = "courses"

const mysqlCoursesDDL = `
CREATE TABLE IF NOT EXISTS courses (
	id          BIGINT AUTO_INCREMENT PRIMARY KEY,
	code        VARCHAR(20)    NOT NULL,
	name        VARCHAR(255)   NOT NULL,
	description TEXT           NULL,
	duration    INT            NOT NULL,
	type        VARCHAR(20)    NOT NULL,
	price       DECIMAL(10,2)  NOT NULL,
	CONSTRAINT uk_courses_code UNIQUE (code)
)`

const postgresCoursesDDL = `
CREATE TABLE IF NOT EXISTS courses (
	id          BIGSERIAL      PRIMARY KEY,
	code        VARCHAR(20)    NOT NULL,
	name        VARCHAR(255)   NOT NULL,
	description TEXT,
	duration    INTEGER        NOT NULL,
	type        VARCHAR(20)    NOT NULL,
	price       NUMERIC(10,2)  NOT NULL,
	CONSTRAINT uk_courses_code UNIQUE (code)
)`

// EnsureSchema creates the courses table when it is missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	exists, err := HasTable(ctx, db, CoursesTable)
	if err != nil {
		return fmt.Errorf("check %s table: %w", CoursesTable, err)
	}
	if exists {
		return nil
	}

	ddl := mysqlCoursesDDL
	if IsPostgres(db) {
		ddl = postgresCoursesDDL
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", CoursesTable, err)
	}
	zap.L().Info("schema created", zap.String("table", CoursesTable), zap.String("driver", db.DriverName()))
	return nil
}
