package datastructure

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeap(t *testing.T) {
	for _, d := range []int{2, 4} {
		h := NewdAryHeap[Index](d)
		ranks := []float64{5, 3, 9, 1, 7, 2, 8, 2.5, 6}
		nodes := make([]*PriorityQueueNode[Index], len(ranks))
		for i, r := range ranks {
			nodes[i] = NewPriorityQueueNode(r, Index(i))
			assert.Equal(t, -1, nodes[i].GetPos())
			h.Insert(nodes[i])
		}

		require.NoError(t, h.DecreaseKey(nodes[2], 0.5))
		assert.Error(t, h.DecreaseKey(nodes[0], 10))
		assert.Equal(t, 0.5, h.GetMinrank())

		expected := append([]float64(nil), ranks...)
		expected[2] = 0.5
		sort.Float64s(expected)

		got := make([]float64, 0, len(ranks))
		for !h.IsEmpty() {
			n, err := h.ExtractMin()
			require.NoError(t, err)
			assert.Equal(t, -1, n.GetPos())
			got = append(got, n.GetRank())
		}
		assert.Equal(t, expected, got)

		_, err := h.ExtractMin()
		assert.ErrorIs(t, err, ErrEmptyHeap)
		assert.Error(t, h.DecreaseKey(nodes[1], 0))
	}
}
