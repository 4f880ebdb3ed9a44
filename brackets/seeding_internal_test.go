package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedingOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, seedingOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, seedingOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, seedingOrder(8))

	for _, size := range []int{2, 4, 8, 16, 32} {
		order := seedingOrder(size)
		assert.Len(t, order, size)
		for i := 0; i < size; i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "slot %d of %d", i/2+1, size)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16, 12: 16} {
		assert.Equal(t, want, nextPowerOfTwo(n), "n=%d", n)
	}
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", roundName(3, 3))
	assert.Equal(t, "Semifinal", roundName(2, 3))
	assert.Equal(t, "Quarterfinal", roundName(1, 3))
	assert.Equal(t, "Round of 32", roundName(1, 5))
}
