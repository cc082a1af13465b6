package models

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"courses/internal/utils"
)

const (
	CodeMaxLength = 20
	// TypeMaxLength is the width of the type column; longer configured names are dropped.
	TypeMaxLength = 20
	// DurationMax is the largest value the INT duration column holds.
	DurationMax = math.MaxInt32
)

// CourseType is a member of the configured closed set of delivery modes.
type CourseType string

const (
	CourseTypeOnline     CourseType = "ONLINE"
	CourseTypePresencial CourseType = "PRESENCIAL"
)

// CourseTypeSet is the closed set of accepted course types, in declaration order.
type CourseTypeSet []CourseType

// DefaultCourseTypes is used when configuration does not declare any.
var DefaultCourseTypes = CourseTypeSet{CourseTypeOnline, CourseTypePresencial}

// NewCourseTypeSet builds a set from raw names, dropping blanks and duplicates.
func NewCourseTypeSet(names ...string) CourseTypeSet {
	out := CourseTypeSet{}
	seen := map[CourseType]bool{}
	for _, n := range names {
		t := CourseType(strings.ToUpper(strings.TrimSpace(n)))
		if t == "" || seen[t] || utf8.RuneCountInString(string(t)) > TypeMaxLength {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return DefaultCourseTypes
	}
	return out
}

// Parse matches raw case-insensitively against the set.
func (s CourseTypeSet) Parse(raw string) (CourseType, bool) {
	raw = strings.TrimSpace(raw)
	for _, t := range s {
		if strings.EqualFold(string(t), raw) {
			return t, true
		}
	}
	return "", false
}

func (s CourseTypeSet) String() string {
	names := make([]string, 0, len(s))
	for _, t := range s {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// Course is the persisted row of the courses table.
type Course struct {
	ID          int64       `db:"id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	Description *string     `db:"description"`
	Duration    int         `db:"duration"`
	Type        CourseType  `db:"type"`
	Price       utils.Money `db:"price"`
}

// CourseRequest is the create/update body. Pointers distinguish "missing" from zero.
type CourseRequest struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Duration    *int         `json:"duration"`
	Type        string       `json:"type"`
	Price       *utils.Money `json:"price"`
}

type CourseResponse struct {
	ID          int64       `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Duration    int         `json:"duration"`
	Type        CourseType  `json:"type"`
	Price       utils.Money `json:"price"`
}

// Validate checks every rule and returns field -> message for each violation.
// An empty map means the request is acceptable.
func (r CourseRequest) Validate(types CourseTypeSet) map[string]string {
	errs := map[string]string{}

	switch {
	case utils.IsBlank(r.Code):
		errs["code"] = "code is required"
	case utf8.RuneCountInString(r.Code) > CodeMaxLength:
		errs["code"] = fmt.Sprintf("code must not exceed %d characters", CodeMaxLength)
	}

	if utils.IsBlank(r.Name) {
		errs["name"] = "name is required"
	}

	switch {
	case r.Duration == nil:
		errs["duration"] = "duration is required"
	case *r.Duration <= 0:
		errs["duration"] = "duration must be a positive number"
	case *r.Duration > DurationMax:
		errs["duration"] = fmt.Sprintf("duration must not exceed %d", DurationMax)
	}

	if utils.IsBlank(r.Type) {
		errs["type"] = "type is required"
	} else if _, ok := types.Parse(r.Type); !ok {
		errs["type"] = "type must be one of: " + types.String()
	}

	switch {
	case r.Price == nil:
		errs["price"] = "price is required"
	case !r.Price.Rounded().IsPositive():
		errs["price"] = "price must be a positive number"
	}

	return errs
}

// ToCourse builds the entity from an already validated request.
func (r CourseRequest) ToCourse(types CourseTypeSet) Course {
	var c Course
	r.ApplyTo(&c, types)
	return c
}

// ApplyTo overwrites every mutable field of c; the id is left untouched.
// r must have passed Validate against the same types.
func (r CourseRequest) ApplyTo(c *Course, types CourseTypeSet) {
	c.Code = r.Code
	c.Name = r.Name
	c.Description = r.Description
	if r.Duration != nil {
		c.Duration = *r.Duration
	}
	if t, ok := types.Parse(r.Type); ok {
		c.Type = t
	}
	if r.Price != nil {
		c.Price = r.Price.Rounded()
	}
}

func (c Course) ToResponse() CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Duration:    c.Duration,
		Type:        c.Type,
		Price:       c.Price,
	}
}

// sortColumns maps accepted sort fields to their column names.
var sortColumns = map[string]string{
	"id":       "id",
	"code":     "code",
	"name":     "name",
	"duration": "duration",
	"type":     "type",
	"price":    "price",
}

// SortColumn returns the column for a public sort field.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(field))]
	return col, ok
}
