package pagination

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		page, limit string
		want        Params
	}{
		{"", "", Params{1, 10}},
		{"abc", "x", Params{1, 10}},
		{"0", "-3", Params{1, 10}},
		{"3", "25", Params{3, 25}},
		{"2", "1000", Params{2, MaxLimit}},
		{"-1", "5", Params{1, 5}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.page, tc.limit), "page=%q limit=%q", tc.page, tc.limit)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, New(1, 10).Offset())
	assert.Equal(t, 20, New(3, 10).Offset())
}

func TestOffset_HugePageDoesNotOverflow(t *testing.T) {
	p := Parse("922337203685477582", "10")
	assert.Positive(t, p.Offset())
	assert.Equal(t, math.MaxInt/10*10, p.Offset())

	p = Parse(strconv.Itoa(math.MaxInt), "1")
	assert.Equal(t, math.MaxInt, p.Offset())

	pg := NewPage[int](nil, p, 5)
	assert.False(t, pg.HasNextPage)
	assert.True(t, pg.HasPrevPage)
}

func TestNewPage_Bounds(t *testing.T) {
	cases := []struct {
		total      int64
		page, lim  int
		pages      int
		next, prev bool
	}{
		{0, 1, 10, 0, false, false},
		{1, 1, 10, 1, false, false},
		{10, 1, 10, 1, false, false},
		{11, 1, 10, 2, true, false},
		{11, 2, 10, 2, false, true},
		{25, 2, 10, 3, true, true},
		{25, 7, 10, 3, false, true},
	}
	for _, tc := range cases {
		p := NewPage[int](nil, New(tc.page, tc.lim), tc.total)
		assert.Equal(t, tc.pages, p.TotalPages, "total=%d", tc.total)
		assert.Equal(t, tc.next, p.HasNextPage, "total=%d page=%d", tc.total, tc.page)
		assert.Equal(t, tc.prev, p.HasPrevPage, "total=%d page=%d", tc.total, tc.page)
		assert.NotNil(t, p.Items)
		assert.Empty(t, p.Items)
	}
}
