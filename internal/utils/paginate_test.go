package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	src := seq(10)

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{"first page", 1, 3, []int{1, 2, 3}},
		{"middle page", 2, 3, []int{4, 5, 6}},
		{"last partial page", 4, 3, []int{10}},
		{"beyond end", 3, 10, []int{}},
		{"exact fit", 1, 10, src},
		{"zero page size", 1, 0, []int{}},
		{"zero page", 0, 5, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Paginate(src, tc.page, tc.pageSize))
		})
	}
}

func TestPaginate_PagesReconstructSource(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 23} {
		src := seq(n)
		for size := 1; size <= 12; size++ {
			var all []int
			for page := 1; ; page++ {
				chunk := Paginate(src, page, size)
				assert.LessOrEqual(t, len(chunk), size)
				if len(chunk) == 0 {
					assert.GreaterOrEqual(t, (page-1)*size, len(src))
					break
				}
				all = append(all, chunk...)
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, src, all, "n=%d size=%d", n, size)
		}
	}
}
