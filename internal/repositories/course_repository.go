package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "courses/internal/db"
	"courses/internal/domain"
	"courses/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const courseColumns = "id, code, name, description, duration, type, price"

// CourseRepository is the storage gateway for the courses table. The same SQL
// runs on MySQL and PostgreSQL; placeholders are rebound per driver.
type CourseRepository struct {
	DB *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindAll(ctx context.Context, req domain.PageRequest) (domain.Page[models.Course], error) {
	return r.findPage(ctx, "", nil, req)
}

func (r *CourseRepository) FindByType(ctx context.Context, t models.CourseType, req domain.PageRequest) (domain.Page[models.Course], error) {
	return r.findPage(ctx, "type = ?", []any{t}, req)
}

// FindByNameContains matches a case-insensitive substring of name.
func (r *CourseRepository) FindByNameContains(ctx context.Context, name string, req domain.PageRequest) (domain.Page[models.Course], error) {
	return r.findPage(ctx, "LOWER(name) LIKE ?", []any{containsPattern(name)}, req)
}

func (r *CourseRepository) FindByTypeAndNameContains(ctx context.Context, t models.CourseType, name string, req domain.PageRequest) (domain.Page[models.Course], error) {
	return r.findPage(ctx, "type = ? AND LOWER(name) LIKE ?", []any{t, containsPattern(name)}, req)
}

// FindByID returns found=false when no row has the id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (models.Course, bool, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CourseRepository) FindByCode(ctx context.Context, code string) (models.Course, bool, error) {
	return r.findOne(ctx, "code = ?", code)
}

func (r *CourseRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.count(ctx, "id = ?", id)
	return n > 0, err
}

func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	n, err := r.count(ctx, "code = ?", code)
	return n > 0, err
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "")
}

// Save inserts when c has no id and updates every mutable column otherwise.
func (r *CourseRepository) Save(ctx context.Context, c models.Course) (models.Course, error) {
	if c.ID == 0 {
		return r.insert(ctx, c)
	}
	return r.update(ctx, c)
}

// DeleteByID removes the row; it reports NotFound when nothing was deleted.
func (r *CourseRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM courses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.NotFoundError{Resource: "course", ID: id}
	}
	return nil
}

func (r *CourseRepository) insert(ctx context.Context, c models.Course) (models.Course, error) {
	query := `INSERT INTO courses (code, name, description, duration, type, price) VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{c.Code, c.Name, c.Description, c.Duration, c.Type, c.Price}

	if intdb.IsPostgres(r.DB) {
		if err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(query+` RETURNING id`), args...).Scan(&c.ID); err != nil {
			return c, r.writeError("insert", c, err)
		}
		return c, nil
	}

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return c, r.writeError("insert", c, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return c, fmt.Errorf("insert course: last insert id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *CourseRepository) update(ctx context.Context, c models.Course) (models.Course, error) {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE courses
		SET code = ?, name = ?, description = ?, duration = ?, type = ?, price = ?
		WHERE id = ?
	`), c.Code, c.Name, c.Description, c.Duration, c.Type, c.Price, c.ID)
	if err != nil {
		return c, r.writeError("update", c, err)
	}
	return c, nil
}

func (r *CourseRepository) writeError(action string, c models.Course, err error) error {
	if intdb.IsUniqueViolation(err) {
		return domain.ConflictError{
			Resource: "course",
			Msg:      fmt.Sprintf("code %q already exists", c.Code),
			Err:      err,
		}
	}
	return fmt.Errorf("%s course: %w", action, err)
}

func (r *CourseRepository) findOne(ctx context.Context, where string, arg any) (models.Course, bool, error) {
	var c models.Course
	err := r.DB.GetContext(ctx, &c, r.DB.Rebind(`SELECT `+courseColumns+` FROM courses WHERE `+where), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, false, nil
	}
	if err != nil {
		return models.Course{}, false, fmt.Errorf("get course: %w", err)
	}
	return c, true, nil
}

func (r *CourseRepository) count(ctx context.Context, where string, args ...any) (int64, error) {
	query := `SELECT COUNT(*) FROM courses`
	if where != "" {
		query += ` WHERE ` + where
	}
	var n int64
	if err := r.DB.GetContext(ctx, &n, r.DB.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

// findPage counts the matching rows, then loads the requested slice. The slice
// query is skipped when the page lies past the last row.
func (r *CourseRepository) findPage(ctx context.Context, where string, args []any, req domain.PageRequest) (domain.Page[models.Course], error) {
	total, err := r.count(ctx, where, args...)
	if err != nil {
		return domain.Page[models.Course]{}, err
	}
	if total == 0 || int64(req.Offset()) >= total {
		return domain.NewPage([]models.Course{}, req, total), nil
	}

	query := `SELECT ` + courseColumns + ` FROM courses`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY ` + orderBy(req.Sort) + ` LIMIT ? OFFSET ?`

	items := []models.Course{}
	pageArgs := append(append([]any{}, args...), req.Size, req.Offset())
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), pageArgs...); err != nil {
		return domain.Page[models.Course]{}, fmt.Errorf("list courses: %w", err)
	}
	return domain.NewPage(items, req, total), nil
}

func orderBy(s domain.Sort) string {
	col, ok := models.SortColumn(s.Field)
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if s.Descending() {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
