package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"courses/internal/domain"
	"courses/internal/domain/models"
	"courses/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory CourseStore that records which lookup ran and every write.
type fakeStore struct {
	rows    map[int64]models.Course
	nextID  int64
	lookups []string
	saves   int
	deletes int
	saveErr error
}

func newFakeStore(seed ...models.Course) *fakeStore {
	s := &fakeStore{rows: map[int64]models.Course{}}
	for _, c := range seed {
		s.nextID++
		c.ID = s.nextID
		s.rows[c.ID] = c
	}
	return s
}

func (s *fakeStore) page(req domain.PageRequest, keep func(models.Course) bool) domain.Page[models.Course] {
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := []models.Course{}
	for _, id := range ids {
		if keep(s.rows[id]) {
			matched = append(matched, s.rows[id])
		}
	}
	start := req.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return domain.NewPage(matched[start:end], req, int64(len(matched)))
}

func nameContains(c models.Course, name string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(name))
}

func (s *fakeStore) FindAll(_ context.Context, req domain.PageRequest) (domain.Page[models.Course], error) {
	s.lookups = append(s.lookups, "all")
	return s.page(req, func(models.Course) bool { return true }), nil
}

func (s *fakeStore) FindByType(_ context.Context, t models.CourseType, req domain.PageRequest) (domain.Page[models.Course], error) {
	s.lookups = append(s.lookups, "type")
	return s.page(req, func(c models.Course) bool { return c.Type == t }), nil
}

func (s *fakeStore) FindByNameContains(_ context.Context, name string, req domain.PageRequest) (domain.Page[models.Course], error) {
	s.lookups = append(s.lookups, "name")
	return s.page(req, func(c models.Course) bool { return nameContains(c, name) }), nil
}

func (s *fakeStore) FindByTypeAndNameContains(_ context.Context, t models.CourseType, name string, req domain.PageRequest) (domain.Page[models.Course], error) {
	s.lookups = append(s.lookups, "type+name")
	return s.page(req, func(c models.Course) bool { return c.Type == t && nameContains(c, name) }), nil
}

func (s *fakeStore) FindByID(_ context.Context, id int64) (models.Course, bool, error) {
	c, ok := s.rows[id]
	return c, ok, nil
}

func (s *fakeStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeStore) Save(_ context.Context, c models.Course) (models.Course, error) {
	s.saves++
	if s.saveErr != nil {
		return c, s.saveErr
	}
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
	}
	s.rows[c.ID] = c
	return c, nil
}

func (s *fakeStore) DeleteByID(_ context.Context, id int64) error {
	s.deletes++
	delete(s.rows, id)
	return nil
}

func (s *fakeStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func course(code, name string, t models.CourseType) models.Course {
	return models.Course{Code: code, Name: name, Duration: 10, Type: t, Price: utils.MustMoney("100.00")}
}

func seededStore() *fakeStore {
	return newFakeStore(
		course("JAVA-101", "Java Fundamentals", models.CourseTypePresencial),
		course("JAVA-201", "Advanced JAVA", models.CourseTypeOnline),
		course("GO-101", "Go Basics", models.CourseTypeOnline),
		course("PY-101", "Python", models.CourseTypePresencial),
	)
}

func moneyPtr(v string) *utils.Money {
	m := utils.MustMoney(v)
	return &m
}

func javaRequest() models.CourseRequest {
	desc := "Intro to Java"
	duration := 40
	price := utils.MustMoney("299.99")
	return models.CourseRequest{
		Code:        "JAVA-101",
		Name:        "Java Fundamentals",
		Description: &desc,
		Duration:    &duration,
		Type:        "PRESENCIAL",
		Price:       &price,
	}
}

func typePtr(t models.CourseType) *models.CourseType { return &t }

func firstPage() domain.PageRequest {
	return domain.NewPageRequest(0, 10, domain.Sort{})
}

func TestList_DispatchesOnFilters(t *testing.T) {
	cases := []struct {
		name   string
		filter CourseFilter
		lookup string
		codes  []string
	}{
		{"no filters", CourseFilter{}, "all", []string{"JAVA-101", "JAVA-201", "GO-101", "PY-101"}},
		{"type only", CourseFilter{Type: typePtr(models.CourseTypeOnline)}, "type", []string{"JAVA-201", "GO-101"}},
		{"name only", CourseFilter{Name: "java"}, "name", []string{"JAVA-101", "JAVA-201"}},
		{"type and name", CourseFilter{Type: typePtr(models.CourseTypeOnline), Name: "java"}, "type+name", []string{"JAVA-201"}},
		{"blank name ignored", CourseFilter{Name: "   "}, "all", []string{"JAVA-101", "JAVA-201", "GO-101", "PY-101"}},
		{"type with blank name", CourseFilter{Type: typePtr(models.CourseTypePresencial), Name: "\t"}, "type", []string{"JAVA-101", "PY-101"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore()
			svc := NewCourseService(store, nil)

			page, err := svc.List(context.Background(), tc.filter, firstPage())
			require.NoError(t, err)

			assert.Equal(t, []string{tc.lookup}, store.lookups)
			codes := []string{}
			for _, c := range page.Content {
				codes = append(codes, c.Code)
			}
			assert.Equal(t, tc.codes, codes)
		})
	}
}

func TestList_CopiesPaginationMetadata(t *testing.T) {
	seed := []models.Course{}
	for i := 0; i < 25; i++ {
		seed = append(seed, course("C", "Course", models.CourseTypeOnline))
	}
	svc := NewCourseService(newFakeStore(seed...), nil)

	page, err := svc.List(context.Background(), CourseFilter{}, firstPage())
	require.NoError(t, err)

	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.Last)
	assert.Len(t, page.Content, 10)

	last, err := svc.List(context.Background(), CourseFilter{}, domain.NewPageRequest(2, 10, domain.Sort{}))
	require.NoError(t, err)
	assert.True(t, last.Last)
	assert.Len(t, last.Content, 5)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewCourseService(newFakeStore(), nil)

	for _, id := range []int64{0, 1, 99, -3} {
		_, err := svc.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	}
	_, err := svc.GetByID(context.Background(), 99)
	assert.EqualError(t, err, "course not found with id: 99")
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	svc := NewCourseService(newFakeStore(), nil)
	req := javaRequest()

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, req.Code, got.Code)
	assert.Equal(t, req.Name, got.Name)
	assert.Equal(t, *req.Description, *got.Description)
	assert.Equal(t, *req.Duration, got.Duration)
	assert.Equal(t, models.CourseTypePresencial, got.Type)
	assert.True(t, req.Price.Equal(got.Price.Decimal))
}

func TestCreate_PropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.saveErr = domain.ConflictError{Resource: "course", Msg: `code "JAVA-101" already exists`}
	svc := NewCourseService(store, nil)

	_, err := svc.Create(context.Background(), javaRequest())
	assert.True(t, domain.IsConflict(err))
}

func TestCreate_RejectsInvalidRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewCourseService(store, nil)

	req := javaRequest()
	req.Price = nil
	req.Type = "HYBRID"

	_, err := svc.Create(context.Background(), req)
	v, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"price": "price is required",
		"type":  "type must be one of: ONLINE, PRESENCIAL",
	}, v.Fields)
	assert.Equal(t, "price: price is required; type: type must be one of: ONLINE, PRESENCIAL", err.Error())
	assert.Zero(t, store.saves)
}

func TestUpdate_RejectsInvalidRequest(t *testing.T) {
	store := seededStore()
	svc := NewCourseService(store, nil)

	req := javaRequest()
	req.Price = moneyPtr("0.001")

	_, err := svc.Update(context.Background(), 1, req)
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, store.saves)
	assert.Equal(t, "100.00", utils.FormatMoney(store.rows[1].Price))
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	store := seededStore()
	svc := NewCourseService(store, nil)

	req := javaRequest()
	req.Code = "JAVA-102"
	req.Description = nil
	req.Type = "online"

	updated, err := svc.Update(context.Background(), 2, req)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.ID)
	assert.Equal(t, "JAVA-102", updated.Code)
	assert.Equal(t, "Java Fundamentals", updated.Name)
	assert.Nil(t, updated.Description)
	assert.Equal(t, 40, updated.Duration)
	assert.Equal(t, models.CourseTypeOnline, updated.Type)
	assert.Equal(t, "299.99", utils.FormatMoney(updated.Price))
	assert.Equal(t, "JAVA-102", store.rows[2].Code)
}

func TestUpdate_NotFoundHasNoSideEffect(t *testing.T) {
	store := seededStore()
	svc := NewCourseService(store, nil)

	_, err := svc.Update(context.Background(), 99, javaRequest())
	assert.True(t, domain.IsNotFound(err))
	assert.Zero(t, store.saves)
}

func TestDelete(t *testing.T) {
	store := seededStore()
	svc := NewCourseService(store, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	_, err := svc.GetByID(context.Background(), 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestDelete_NotFoundHasNoSideEffect(t *testing.T) {
	store := seededStore()
	svc := NewCourseService(store, nil)

	err := svc.Delete(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err))
	assert.Zero(t, store.deletes)
	assert.Len(t, store.rows, 4)
}

type failingStore struct {
	fakeStore
}

func (failingStore) ExistsByID(context.Context, int64) (bool, error) {
	return false, errors.New("connection refused")
}

func TestDelete_PropagatesStoreFailure(t *testing.T) {
	svc := NewCourseService(&failingStore{}, nil)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, domain.IsNotFound(err))
	assert.EqualError(t, err, "connection refused")
}
