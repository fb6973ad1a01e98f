package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MelonSeo/trendstream-tui/internal/pagination"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int
		total   int
		want    pagination.Window
	}{
		{
			name:    "centered window with shortcuts and gaps on both sides",
			current: 10,
			total:   20,
			want: pagination.Window{
				Pages:       []int{8, 9, 10, 11, 12},
				ShowFirst:   true,
				ShowPrev:    true,
				ShowNext:    true,
				ShowLast:    true,
				LeadingGap:  true,
				TrailingGap: true,
			},
		},
		{
			name:    "first page of three",
			current: 0,
			total:   3,
			want: pagination.Window{
				Pages:    []int{0, 1, 2},
				ShowNext: true,
				ShowLast: true,
			},
		},
		{
			name:    "last page of three",
			current: 2,
			total:   3,
			want: pagination.Window{
				Pages:     []int{0, 1, 2},
				ShowFirst: true,
				ShowPrev:  true,
			},
		},
		{
			name:    "window shifted at the start",
			current: 1,
			total:   20,
			want: pagination.Window{
				Pages:       []int{0, 1, 2, 3, 4},
				ShowPrev:    true,
				ShowNext:    true,
				ShowLast:    true,
				TrailingGap: true,
			},
		},
		{
			name:    "window shifted at the end",
			current: 19,
			total:   20,
			want: pagination.Window{
				Pages:      []int{15, 16, 17, 18, 19},
				ShowFirst:  true,
				ShowPrev:   true,
				LeadingGap: true,
			},
		},
		{
			name:    "second to last page keeps next but not last shortcut",
			current: 18,
			total:   20,
			want: pagination.Window{
				Pages:      []int{15, 16, 17, 18, 19},
				ShowFirst:  true,
				ShowPrev:   true,
				ShowNext:   true,
				LeadingGap: true,
			},
		},
		{
			name:    "single page renders nothing",
			current: 0,
			total:   1,
			want:    pagination.Window{},
		},
		{
			name:    "no pages renders nothing",
			current: 0,
			total:   0,
			want:    pagination.Window{},
		},
		{
			name:    "exactly window-size pages",
			current: 2,
			total:   5,
			want: pagination.Window{
				Pages:     []int{0, 1, 2, 3, 4},
				ShowFirst: true,
				ShowPrev:  true,
				ShowNext:  true,
				ShowLast:  true,
			},
		},
		{
			name:    "current clamped into range",
			current: 99,
			total:   3,
			want: pagination.Window{
				Pages:     []int{0, 1, 2},
				ShowFirst: true,
				ShowPrev:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagination.Compute(tt.current, tt.total))
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{total: 0, size: 10, want: 1},
		{total: 10, size: 10, want: 1},
		{total: 11, size: 10, want: 2},
		{total: 100, size: 9, want: 12},
		{total: 5, size: 0, want: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pagination.TotalPages(tt.total, tt.size),
			"total=%d size=%d", tt.total, tt.size)
	}
}
