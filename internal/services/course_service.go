package services

import (
	"context"

	"courses/internal/domain"
	"courses/internal/domain/models"
	"courses/internal/utils"

	"go.uber.org/zap"
)

// CourseStore is the storage gateway the service depends on.
type CourseStore interface {
	FindAll(ctx context.Context, req domain.PageRequest) (domain.Page[models.Course], error)
	FindByType(ctx context.Context, t models.CourseType, req domain.PageRequest) (domain.Page[models.Course], error)
	FindByNameContains(ctx context.Context, name string, req domain.PageRequest) (domain.Page[models.Course], error)
	FindByTypeAndNameContains(ctx context.Context, t models.CourseType, name string, req domain.PageRequest) (domain.Page[models.Course], error)
	FindByID(ctx context.Context, id int64) (models.Course, bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Save(ctx context.Context, c models.Course) (models.Course, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// CourseFilter narrows a listing. A nil Type or a blank Name means "no filter".
type CourseFilter struct {
	Type *models.CourseType
	Name string
}

// CourseService owns listing dispatch, entity/response mapping and not-found checks.
type CourseService struct {
	Repo  CourseStore
	Types models.CourseTypeSet
}

func NewCourseService(repo CourseStore, types models.CourseTypeSet) *CourseService {
	if len(types) == 0 {
		types = models.DefaultCourseTypes
	}
	return &CourseService{Repo: repo, Types: types}
}

// List picks exactly one lookup shape from the filters present.
func (s *CourseService) List(ctx context.Context, f CourseFilter, req domain.PageRequest) (domain.Page[models.CourseResponse], error) {
	var (
		page domain.Page[models.Course]
		err  error
	)

	hasName := !utils.IsBlank(f.Name)
	switch {
	case f.Type != nil && hasName:
		page, err = s.Repo.FindByTypeAndNameContains(ctx, *f.Type, f.Name, req)
	case f.Type != nil:
		page, err = s.Repo.FindByType(ctx, *f.Type, req)
	case hasName:
		page, err = s.Repo.FindByNameContains(ctx, f.Name, req)
	default:
		page, err = s.Repo.FindAll(ctx, req)
	}
	if err != nil {
		return domain.Page[models.CourseResponse]{}, err
	}
	return domain.MapPage(page, models.Course.ToResponse), nil
}

func (s *CourseService) GetByID(ctx context.Context, id int64) (models.CourseResponse, error) {
	c, found, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.CourseResponse{}, err
	}
	if !found {
		return models.CourseResponse{}, notFound(id)
	}
	return c.ToResponse(), nil
}

// Create persists a new course; a duplicate code surfaces from the store.
func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (models.CourseResponse, error) {
	if err := domain.NewValidationError(req.Validate(s.Types)); err != nil {
		return models.CourseResponse{}, err
	}
	saved, err := s.Repo.Save(ctx, req.ToCourse(s.Types))
	if err != nil {
		return models.CourseResponse{}, err
	}
	utils.LogEvent(ctx, "course", "create", "course created", zap.Int64("id", saved.ID), zap.String("code", saved.Code))
	return saved.ToResponse(), nil
}

// Update replaces every mutable field of an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req models.CourseRequest) (models.CourseResponse, error) {
	if err := domain.NewValidationError(req.Validate(s.Types)); err != nil {
		return models.CourseResponse{}, err
	}
	c, found, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.CourseResponse{}, err
	}
	if !found {
		return models.CourseResponse{}, notFound(id)
	}

	req.ApplyTo(&c, s.Types)
	saved, err := s.Repo.Save(ctx, c)
	if err != nil {
		return models.CourseResponse{}, err
	}
	utils.LogEvent(ctx, "course", "update", "course updated", zap.Int64("id", saved.ID))
	return saved.ToResponse(), nil
}

func (s *CourseService) Delete(ctx context.Context, id int64) error {
	exists, err := s.Repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(id)
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(ctx, "course", "delete", "course deleted", zap.Int64("id", id))
	return nil
}

func (s *CourseService) Count(ctx context.Context) (int64, error) {
	return s.Repo.Count(ctx)
}

func notFound(id int64) error {
	return domain.NotFoundError{Resource: "course", ID: id}
}
