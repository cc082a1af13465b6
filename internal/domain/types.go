package domain

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSort     = "id"
	// MaxPage keeps Page*Size within int32 so offsets never overflow.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

// Descending reports whether the direction asks for reverse order.
func (s Sort) Descending() bool {
	return strings.EqualFold(s.Direction, "desc")
}

// PageRequest carries a zero-based page index, the page size and the ordering.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest clamps page and size into the supported range.
func NewPageRequest(page, size int, sort Sort) PageRequest {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if sort.Field == "" {
		sort.Field = DefaultSort
	}
	if sort.Direction == "" {
		sort.Direction = "asc"
	}
	return PageRequest{Page: page, Size: size, Sort: sort}
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is a bounded slice of a larger result set plus its position metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// NewPage derives totalPages and last from the total element count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          req.Page >= totalPages-1,
	}
}

// MapPage converts the content of p while keeping its metadata.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[R]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Last:          p.Last,
	}
}
