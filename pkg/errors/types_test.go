package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorFormatting(t *testing.T) {
	e := New(CodeUnknownTaskID, "task 404 not found")
	assert.Equal(t, "[UNKNOWN_TASK_ID] task 404 not found", e.Error())
	assert.Nil(t, e.Unwrap())
}

func TestWrapIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(CodeCheckpointIO, "writing checkpoint", cause)
	assert.Contains(t, e.Error(), "disk full")
	assert.Equal(t, cause, e.Unwrap())
}

func TestIsMatchesOnCode(t *testing.T) {
	a := New(CodeMalformedTaskSystem, "bad input")
	b := New(CodeMalformedTaskSystem, "different message, same code")
	c := New(CodeAllocation, "unrelated")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestErrorsAsUnwrapsThroughWrap(t *testing.T) {
	cause := errors.New("root cause")
	e := Wrap(CodeInvariantViolation, "broken invariant", cause)

	var target *SimError
	assert.True(t, errors.As(e, &target))
	assert.Equal(t, CodeInvariantViolation, target.Code)
}

func TestFatalIsAlwaysTrue(t *testing.T) {
	assert.True(t, New(CodeAllocation, "x").Fatal())
	assert.True(t, New(CodeUnknownTaskID, "x").Fatal())
}
