package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest_Clamps(t *testing.T) {
	cases := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"negative page", -3, 5, 0, 5},
		{"oversized size", 500, 1000, 500, MaxPageSize},
		{"huge page", math.MaxInt64, 10, MaxPage, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := NewPageRequest(tc.page, tc.size, Sort{})
			assert.Equal(t, tc.wantPage, req.Page)
			assert.Equal(t, tc.wantSize, req.Size)
			assert.Equal(t, Sort{Field: DefaultSort, Direction: "asc"}, req.Sort)
			assert.GreaterOrEqual(t, req.Offset(), 0)
		})
	}
}

func TestNewPage_Metadata(t *testing.T) {
	p := NewPage([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, NewPageRequest(0, 10, Sort{}), 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.Last)

	p = NewPage([]int{1, 2, 3, 4, 5}, NewPageRequest(2, 10, Sort{}), 25)
	assert.True(t, p.Last)

	empty := NewPage[int](nil, NewPageRequest(0, 10, Sort{}), 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.True(t, empty.Last)
}

func TestNewPage_LastPastTheEnd(t *testing.T) {
	p := NewPage[int](nil, NewPageRequest(math.MaxInt64, 1, Sort{}), 5)
	assert.True(t, p.Last)
	assert.Empty(t, p.Content)

	p = NewPage[int](nil, PageRequest{Page: math.MaxInt, Size: 1}, 5)
	assert.True(t, p.Last)
}
