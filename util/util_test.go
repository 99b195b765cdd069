package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(6), Sum([]int{1, 2, 3}))
	assert.Equal(t, int64(0), Sum([]int64(nil)))
}
