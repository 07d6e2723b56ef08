package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCollectorAccumulates(t *testing.T) {
	c := NewInMemoryCollector()
	c.RecordJobDone(19)
	c.RecordJobDone(19)
	c.RecordEvent()
	c.RecordDeadlineMiss(19)
	c.RecordOverrun(2)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.JobsDone)
	assert.Equal(t, int64(1), stats.EventsDone)
	assert.Equal(t, int64(1), stats.DeadlineMisses)
	assert.Equal(t, int64(1), stats.Overruns)
}

func TestInMemoryCollectorReset(t *testing.T) {
	c := NewInMemoryCollector()
	c.RecordJobDone(1)
	c.Reset()
	assert.Equal(t, Stats{}, statsWithoutTiming(c.Stats()))
}

func TestNoOpCollectorDiscardsEverything(t *testing.T) {
	c := NoOpCollector{}
	c.RecordJobDone(1)
	c.RecordEvent()
	c.RecordDeadlineMiss(1)
	c.RecordOverrun(1)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestDefaultCollectorDefaultsToNoOp(t *testing.T) {
	SetDefaultCollector(nil)
	_, ok := DefaultCollector().(NoOpCollector)
	assert.True(t, ok)
}

func TestSetDefaultCollectorOverrides(t *testing.T) {
	custom := NewInMemoryCollector()
	SetDefaultCollector(custom)
	assert.Same(t, Collector(custom), DefaultCollector())
	SetDefaultCollector(nil)
}

func statsWithoutTiming(s Stats) Stats {
	s.StartTime = Stats{}.StartTime
	s.Elapsed = 0
	return s
}
