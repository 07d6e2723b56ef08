package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edfsim/edfsim/generator"
	"github.com/edfsim/edfsim/task"
)

func TestDumpLoadDumpRoundTripIsStable(t *testing.T) {
	sys := underutilizedSystem(t)
	gen := generator.New(sys, 978382, true)
	evl, err := New(gen, true)
	require.NoError(t, err)
	require.Equal(t, OK, evl.Run(21, 1, false))

	first := evl.Dump()

	resumedSys := underutilizedSystem(t)
	resumedGen := generator.New(resumedSys, 1, false)
	resumed, err := New(resumedGen, false)
	require.NoError(t, err)
	require.NoError(t, resumed.Load(first))

	second := resumed.Dump()
	assert.Equal(t, first, second, "a dump immediately followed by a load and a dump must be stable")
}

func TestLoadEmptySnapshotRefillsEveryTask(t *testing.T) {
	sys := underutilizedSystem(t)
	gen := generator.New(sys, 1, false)
	evl, err := New(gen, false)
	require.NoError(t, err)

	require.NoError(t, evl.Load(Snapshot{Now: 42}))
	assert.Equal(t, int64(42), evl.Now())

	result := evl.Run(100, 1, false)
	assert.Equal(t, OK, result)
}

func TestLoadRejectsRecordForUnknownTask(t *testing.T) {
	sys := underutilizedSystem(t)
	gen := generator.New(sys, 1, false)
	evl, err := New(gen, false)
	require.NoError(t, err)

	snap := Snapshot{
		Now: 0,
		Jobs: []JobRecord{
			{TaskID: 404, Arrival: 5, OverrunDeadline: 9, AbsoluteDeadline: 12, Computation: 3},
		},
	}
	assert.Error(t, evl.Load(snap))
}

func TestLoadRoutesJobsByArrivalAgainstNow(t *testing.T) {
	sys := task.NewSystem()
	tsk, err := task.New(1, 7, 7, [task.NumComp]int64{3, 3, 0, 0, 0, 0}, [2]float64{1, 0}, 0)
	require.NoError(t, err)
	require.NoError(t, sys.Add(tsk))

	gen := generator.New(sys, 1, false)
	evl, err := New(gen, false)
	require.NoError(t, err)

	snap := Snapshot{
		Now: 10,
		Jobs: []JobRecord{
			{TaskID: 1, Arrival: 3, OverrunDeadline: 7, AbsoluteDeadline: 10, Computation: 1},
			{TaskID: 1, Arrival: 14, OverrunDeadline: 18, AbsoluteDeadline: 21, Computation: 3},
		},
	}
	require.NoError(t, evl.Load(snap))
	assert.Equal(t, int64(10), evl.Now())
}
