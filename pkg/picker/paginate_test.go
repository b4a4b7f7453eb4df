package picker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_ShortListRendersEverything(t *testing.T) {
	var p Pager
	assert.Equal(t, []int{0, 1, 2}, p.Rows(3, 2, 10, true))
	assert.Nil(t, p.Rows(0, 0, 10, true))
}

func TestPager_NoLoopScrollsMinimally(t *testing.T) {
	var p Pager

	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Rows(20, 0, 5, false))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.Rows(20, 7, 5, false))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.Rows(20, 4, 5, false), "still visible")
	assert.Equal(t, []int{2, 3, 4, 5, 6}, p.Rows(20, 2, 5, false))
	assert.Equal(t, []int{15, 16, 17, 18, 19}, p.Rows(20, 19, 5, false))
}

func TestPager_LoopKeepsActiveInTheMiddle(t *testing.T) {
	var p Pager

	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Rows(20, 0, 5, true))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Rows(20, 1, 5, true))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Rows(20, 2, 5, true))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Rows(20, 3, 5, true))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, p.Rows(20, 10, 5, true))
}

func TestPager_LoopWrapsAround(t *testing.T) {
	var p Pager
	p.Rows(20, 0, 5, true)

	assert.Equal(t, []int{19, 0, 1, 2, 3}, p.Rows(20, 19, 5, true))
}

func TestPaginate_RendersActiveRow(t *testing.T) {
	lines := Paginate(4, 1, func(i int, active bool) string {
		if active {
			return fmt.Sprintf("> %d", i)
		}
		return fmt.Sprintf("  %d", i)
	}, 10, false)

	assert.Equal(t, []string{"  0", "> 1", "  2", "  3"}, lines)
}
