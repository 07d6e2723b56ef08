package scheduler

import (
	"fmt"

	"github.com/edfsim/edfsim/job"
	"github.com/edfsim/edfsim/jobqueue"
)

// Snapshot is the combined, de-duplicated state needed to resume a
// simulation: the clock and every job currently resident in either the
// ready queue or the generator's pending-arrivals queue.
//
// Jobs are listed in priority order as they emerge from the queue dumps:
// ready-queue items first (deadline order), then pending-arrival items
// (arrival order), in source order after de-duplication.
type Snapshot struct {
	Now  int64
	Jobs []JobRecord
}

// JobRecord is the flat five-field encoding of one job, matching the
// checkpoint file's per-job tuple.
type JobRecord struct {
	TaskID           int64
	Arrival          int64
	OverrunDeadline  int64
	AbsoluteDeadline int64
	Computation      int64
}

func recordOf(j *job.Job) JobRecord {
	return JobRecord{
		TaskID:           j.TaskID,
		Arrival:          j.Arrival,
		OverrunDeadline:  j.OverrunDeadline,
		AbsoluteDeadline: j.AbsoluteDeadline,
		Computation:      j.Computation,
	}
}

// Dump captures the event loop's state as a Snapshot. A job that happens to
// be resident in both the ready queue and the generator's pending-arrivals
// queue (only possible transiently, around Rise/Insert) is emitted once.
func (e *EventLoop) Dump() Snapshot {
	readyJobs := e.ready.Dump()
	pendingJobs := e.gen.Pending().Dump()

	seen := make(map[*job.Job]bool, len(readyJobs)+len(pendingJobs))
	records := make([]JobRecord, 0, len(readyJobs)+len(pendingJobs))
	for _, j := range readyJobs {
		if seen[j] {
			continue
		}
		seen[j] = true
		records = append(records, recordOf(j))
	}
	for _, j := range pendingJobs {
		if seen[j] {
			continue
		}
		seen[j] = true
		records = append(records, recordOf(j))
	}

	return Snapshot{Now: e.now, Jobs: records}
}

// Load restores the event loop from a Snapshot. The event loop must have
// been constructed with New(gen, init=false).
//
// Each job record is routed by comparing its arrival against snap.Now: jobs
// not yet arrived go to a fresh pending-arrivals queue (and the owning
// task's phase is advanced past them, with inter-arrival jitter on the
// resumed segment treated as zero, since the RNG's internal state is not
// part of the checkpoint); already-arrived, not-yet-finished jobs go to a
// fresh ready queue.
func (e *EventLoop) Load(snap Snapshot) error {
	e.now = snap.Now

	freshReady := jobqueue.New()
	freshPending := jobqueue.New()
	phase := make(map[int64]int64)

	for _, rec := range snap.Jobs {
		j := job.New(rec.TaskID, rec.Arrival, rec.OverrunDeadline, rec.AbsoluteDeadline, rec.Computation)
		if rec.Arrival > snap.Now {
			freshPending.Insert(j, jobqueue.ByArrival)
			t, _, err := e.gen.TaskSystem().ByID(rec.TaskID)
			if err != nil {
				return fmt.Errorf("scheduler: load checkpoint: %w", err)
			}
			delta := t.Period() - rec.Computation
			phase[rec.TaskID] = rec.Arrival + rec.Computation + delta
		} else {
			freshReady.Insert(j, jobqueue.ByDeadline)
		}
	}

	e.ready = freshReady
	e.gen.ReplacePending(freshPending)

	if len(snap.Jobs) == 0 {
		for _, t := range e.gen.TaskSystem().All() {
			phase[t.ID()] = snap.Now
		}
		if err := e.gen.SetSimTime(phase); err != nil {
			return fmt.Errorf("scheduler: load checkpoint: %w", err)
		}
		e.gen.RefillAll()
	} else {
		if err := e.gen.SetSimTime(phase); err != nil {
			return fmt.Errorf("scheduler: load checkpoint: %w", err)
		}
	}

	current, ok1 := e.gen.Rise()
	next, ok2 := e.gen.Rise()
	if ok1 && ok2 {
		if current.Arrival > next.Arrival {
			return fmt.Errorf("scheduler: broken generator after checkpoint restore: first job arrives at %d after second job at %d",
				current.Arrival, next.Arrival)
		}
		e.ready.Insert(current, jobqueue.ByDeadline)
	}
	if ok1 {
		e.currentJob = current
	}
	if ok2 {
		e.nextJob = next
	}
	return nil
}
