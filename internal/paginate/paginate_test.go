package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestTotalPages(t *testing.T) {
	for count := 0; count <= 50; count++ {
		for size := 1; size <= 12; size++ {
			want := (count + size - 1) / size
			if want < 1 {
				want = 1
			}
			assert.Equal(t, want, TotalPages(count, size), "count=%d size=%d", count, size)
		}
	}
	assert.Equal(t, 1, TotalPages(10, 0))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{1, 1, 1},
		{0, 3, 1},
		{-4, 3, 1},
		{2, 3, 2},
		{5, 2, 2},
		{7, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPage(tt.page, tt.total), "page=%d total=%d", tt.page, tt.total)
	}
}

func TestPaginate(t *testing.T) {
	items := seq(12)

	p := Paginate(items, 1, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Items)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, p.TotalCount)

	p = Paginate(items, 3, 5)
	assert.Equal(t, []int{11, 12}, p.Items)
	assert.Equal(t, 3, p.CurrentPage)
}

func TestPaginate_OutOfRangePageIsClamped(t *testing.T) {
	// 2 total pages, page 5 requested: page 2 comes back instead of an error
	p := Paginate(seq(8), 5, 5)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, []int{6, 7, 8}, p.Items)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 3, 5)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.TotalCount)

	p = Paginate[string](nil, 1, 5)
	assert.NotNil(t, p.Items)
}

func TestPaginate_CurrentPageAlwaysInRange(t *testing.T) {
	for count := 0; count <= 20; count++ {
		for size := 1; size <= 6; size++ {
			for page := -2; page <= 25; page++ {
				p := Paginate(seq(count), page, size)
				assert.GreaterOrEqual(t, p.CurrentPage, 1)
				assert.LessOrEqual(t, p.CurrentPage, p.TotalPages)
				assert.LessOrEqual(t, len(p.Items), size)
			}
		}
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := seq(4)
	p := Paginate(items, 1, 2)
	p.Items[0] = 99
	assert.Equal(t, 1, items[0])
}

func TestPaginate_NonPositivePageSize(t *testing.T) {
	p := Paginate(seq(7), 1, 0)
	assert.Len(t, p.Items, 7)
	assert.Equal(t, 1, p.TotalPages)
}
