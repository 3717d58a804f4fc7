package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReverseForEach(t *testing.T) {
	visited := make([]int, 0, 3)
	indexes := make([]int, 0, 3)
	ReverseForEach([]int{1, 2, 3}, func(index int, element int) {
		indexes = append(indexes, index)
		visited = append(visited, element)
	})
	assert.Equal(t, []int{3, 2, 1}, visited)
	assert.Equal(t, []int{2, 1, 0}, indexes)

	ReverseForEach([]int(nil), func(int, int) { t.Fatal("callback on empty slice") })
}

func TestCachedValue(t *testing.T) {
	var calls atomic.Int32
	getter := func() *int32 {
		value := calls.Add(1)
		return &value
	}

	forever := NewCachedValue(0, getter)
	assert.EqualValues(t, 1, *forever.GetValue())
	assert.EqualValues(t, 1, *forever.GetValue())

	forever.Reset()
	assert.EqualValues(t, 2, *forever.GetValue())

	short := NewCachedValue(time.Millisecond, getter)
	assert.EqualValues(t, 3, *short.GetValue())
	time.Sleep(5 * time.Millisecond)
	assert.EqualValues(t, 4, *short.GetValue())
}
