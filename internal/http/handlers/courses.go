package handlers

import (
	"context"
	"net/http"
	"strings"

	"courses/internal/domain"
	"courses/internal/domain/models"
	"courses/internal/services"

	"github.com/gin-gonic/gin"
)

// CourseService is what the handlers need from the service layer.
type CourseService interface {
	List(ctx context.Context, f services.CourseFilter, req domain.PageRequest) (domain.Page[models.CourseResponse], error)
	GetByID(ctx context.Context, id int64) (models.CourseResponse, error)
	Create(ctx context.Context, req models.CourseRequest) (models.CourseResponse, error)
	Update(ctx context.Context, id int64, req models.CourseRequest) (models.CourseResponse, error)
	Delete(ctx context.Context, id int64) error
}

type CourseHandler struct {
	Svc   CourseService
	Types models.CourseTypeSet
}

func NewCourseHandler(svc CourseService, types models.CourseTypeSet) *CourseHandler {
	if len(types) == 0 {
		types = models.DefaultCourseTypes
	}
	return &CourseHandler{Svc: svc, Types: types}
}

// Register mounts the course routes; guard runs before the write handlers.
func (h *CourseHandler) Register(g *gin.RouterGroup, guard ...gin.HandlerFunc) {
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), fn)
	}
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", with(h.Create)...)
	g.PUT("/:id", with(h.Update)...)
	g.DELETE("/:id", with(h.Delete)...)
}

// GET /api/courses?type=ONLINE&name=java&page=0&size=10&sort=name,desc
func (h *CourseHandler) List(c *gin.Context) {
	errs := map[string]string{}

	page := queryInt(c, "page", 0, errs)
	size := queryInt(c, "size", domain.DefaultPageSize, errs)
	sort := parseSort(c.DefaultQuery("sort", domain.DefaultSort), errs)

	var filter services.CourseFilter
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t, ok := h.Types.Parse(raw)
		if ok {
			filter.Type = &t
		} else {
			errs["type"] = "type must be one of: " + h.Types.String()
		}
	}
	filter.Name = c.Query("name")

	if err := domain.NewValidationError(errs); err != nil {
		RespondDomainError(c, err)
		return
	}

	result, err := h.Svc.List(c.Request.Context(), filter, domain.NewPageRequest(page, size, sort))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	req, ok := h.bindCourse(c)
	if !ok {
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// PUT /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bindCourse(c)
	if !ok {
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindCourse decodes and validates the body; the service is never reached on failure.
func (h *CourseHandler) bindCourse(c *gin.Context) (models.CourseRequest, bool) {
	var req models.CourseRequest
	if !BindJSONOrError(c, &req) {
		return req, false
	}
	if err := domain.NewValidationError(req.Validate(h.Types)); err != nil {
		RespondDomainError(c, err)
		return req, false
	}
	return req, true
}

// parseSort accepts "field" or "field,asc|desc".
func parseSort(raw string, errs map[string]string) domain.Sort {
	field, dir, _ := strings.Cut(raw, ",")
	field = strings.ToLower(strings.TrimSpace(field))
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir == "" {
		dir = "asc"
	}

	if _, ok := models.SortColumn(field); !ok {
		errs["sort"] = "unsupported sort field: " + field
		return domain.Sort{}
	}
	if dir != "asc" && dir != "desc" {
		errs["sort"] = "sort direction must be asc or desc"
		return domain.Sort{}
	}
	return domain.Sort{Field: field, Direction: dir}
}
