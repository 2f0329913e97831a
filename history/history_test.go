package history

import (
	"testing"

	"firecalc/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryKeepsEveryFrame(t *testing.T) {
	h := New()
	assert.True(t, h.IsEmpty())

	field := []float64{20, 20, 20}
	for i := 0; i < 100; i++ {
		field[0] = 20 + float64(i)
		h.Append(i, float64(i)*0.5, field)
	}
	require.Equal(t, 100, h.Size())
	assert.False(t, h.IsFull())

	// 记录的是副本
	field[0] = -1
	assert.Equal(t, 119.0, h.Get(99, 0))

	first, ok := h.First()
	require.True(t, ok)
	assert.Equal(t, 0, first.Step)

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 99, last.Step)
	assert.Equal(t, 49.5, last.Time)

	assert.Equal(t, 119.0, h.Peak(0))
	assert.Equal(t, 20.0, h.Lowest(0))
	assert.Len(t, h.Node(2), 100)
}

func TestWindowDropsOldest(t *testing.T) {
	h := NewWindow(3)
	for i := 0; i < 5; i++ {
		h.Append(i, float64(i), []float64{float64(i)})
	}
	require.Equal(t, 3, h.Size())
	assert.True(t, h.IsFull())

	var steps []int
	h.Traverse(func(_ int, frame model.Frame) {
		steps = append(steps, frame.Step)
	})
	assert.Equal(t, []int{2, 3, 4}, steps)

	h.RemoveFirst()
	frames := h.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, 3, frames[0].Step)
}

func TestEmptyHistory(t *testing.T) {
	h := NewWindow(0)
	_, ok := h.Last()
	assert.False(t, ok)
	assert.Equal(t, 0.0, h.Peak(0))
	h.RemoveFirst()
	assert.Equal(t, 0, h.Size())
}
