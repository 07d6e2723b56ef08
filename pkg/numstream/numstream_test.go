package numstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromJSONArray(t *testing.T) {
	nums, err := Extract(strings.NewReader(`[1, 2, -3, 4.5, 0.0]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, -3, 4.5, 0.0}, nums)
}

func TestExtractFromJSONObject(t *testing.T) {
	nums, err := Extract(strings.NewReader(`{"now": 7, "jobs": [[19, 0, 4, 7, 3]]}`))
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 19, 0, 4, 7, 3}, nums)
}

func TestExtractSkipsHashComments(t *testing.T) {
	nums, err := Extract(strings.NewReader("1 2 # this whole line is ignored\n3"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, nums)
}

func TestExtractSkipsQuotedText(t *testing.T) {
	nums, err := Extract(strings.NewReader(`"some label" 1 "another" 2`))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, nums)
}

func TestExtractEmptyInput(t *testing.T) {
	nums, err := Extract(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, nums)
}

func TestExtractScientificNotation(t *testing.T) {
	nums, err := Extract(strings.NewReader("1e3 -2.5E-2"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, -0.025}, nums)
}
