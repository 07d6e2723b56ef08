package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndDone(t *testing.T) {
	j := New(19, 7, 8, 14, 3)
	assert.Equal(t, int64(19), j.TaskID)
	assert.False(t, j.Done())

	j.Computation = 0
	assert.True(t, j.Done())

	j.Computation = -1
	assert.True(t, j.Done())
}

func TestCloneIsIndependent(t *testing.T) {
	j := New(19, 7, 8, 14, 3)
	c := j.Clone()
	c.Computation = 0

	assert.Equal(t, int64(3), j.Computation)
	assert.Equal(t, int64(0), c.Computation)
	assert.NotSame(t, j, c)
}
