package checkpoint

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edfsim/edfsim/scheduler"
)

func TestWriteProducesCanonicalShape(t *testing.T) {
	snap := scheduler.Snapshot{
		Now: 7,
		Jobs: []scheduler.JobRecord{
			{TaskID: 19, Arrival: 7, OverrunDeadline: 8, AbsoluteDeadline: 14, Computation: 3},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))
	assert.JSONEq(t, `{"now":7,"jobs":[[19,7,8,14,3]]}`, buf.String())
}

func TestWriteEmptyJobs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, scheduler.Snapshot{Now: 0}))
	assert.JSONEq(t, `{"now":0,"jobs":[]}`, buf.String())
}

func TestReadStrictRoundTrip(t *testing.T) {
	snap := scheduler.Snapshot{
		Now: 7,
		Jobs: []scheduler.JobRecord{
			{TaskID: 19, Arrival: 7, OverrunDeadline: 8, AbsoluteDeadline: 14, Computation: 3},
			{TaskID: 2, Arrival: 0, OverrunDeadline: 4, AbsoluteDeadline: 10, Computation: 1},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestReadToleratesFlatNumberStream(t *testing.T) {
	got, err := Read(strings.NewReader("7 19 7 8 14 3"))
	require.NoError(t, err)
	assert.Equal(t, scheduler.Snapshot{
		Now: 7,
		Jobs: []scheduler.JobRecord{
			{TaskID: 19, Arrival: 7, OverrunDeadline: 8, AbsoluteDeadline: 14, Computation: 3},
		},
	}, got)
}

func TestReadRejectsTrailingIncompleteJob(t *testing.T) {
	_, err := Read(strings.NewReader("7 19 7 8"))
	assert.Error(t, err)
}

func TestReadRejectsEmptyStream(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}
