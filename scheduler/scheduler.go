// Package scheduler implements the time-advancing EDF event loop: the
// two-queue core that interleaves a job generator's arrival stream with
// preemptive earliest-deadline-first execution on a single processor.
package scheduler

import (
	"fmt"

	"github.com/edfsim/edfsim/generator"
	"github.com/edfsim/edfsim/job"
	"github.com/edfsim/edfsim/jobqueue"
	"github.com/edfsim/edfsim/pkg/logging"
	"github.com/edfsim/edfsim/pkg/metrics"
)

// Result is the outcome of a Run call.
type Result int

const (
	// OK means the simulation reached breakTime (or ran out of ready work
	// exactly at breakTime) without missing a deadline or overrunning.
	OK Result = iota
	// DeadlineMiss means the currently executing job ran past its absolute
	// deadline; Now() is exactly that deadline.
	DeadlineMiss
	// Overrun means, with overrun checking enabled, a high-criticality job
	// ran past its low-criticality budget.
	Overrun
	// Pass is returned by hosts (not by Run itself) when breakTime <= Now()
	// on entry; Run accepts and returns OK for the degenerate breakTime ==
	// Now() case.
	Pass
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case DeadlineMiss:
		return "DEADLINE_MISS"
	case Overrun:
		return "OVERRUN"
	case Pass:
		return "PASS"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// noOverrunSentinel is added to the next arrival time to produce the overrun
// threshold used when the ready queue is empty. The reference
// implementation uses the same magic constant; any positive offset keeps
// the threshold above the arrival, so the overrun cap is never applied and
// the overrun check cannot match while the processor is idle.
const noOverrunSentinel = 123

// EventLoop advances a virtual clock through job arrivals and EDF
// execution. It owns the ready queue and the job generator that feeds it,
// plus the two "in-flight" handles used to pre-fetch arrivals one step
// ahead of the clock.
type EventLoop struct {
	gen   *generator.Generator
	ready *jobqueue.Queue

	now        int64
	jobsDone   int64
	eventsDone int64

	currentJob *job.Job
	nextJob    *job.Job

	metrics metrics.Collector
	log     logging.Logger
}

// SetObservers attaches a metrics collector and logger the loop reports
// through during Run. Either may be nil, in which case that observer is a
// no-op.
func (e *EventLoop) SetObservers(collector metrics.Collector, log logging.Logger) {
	e.metrics = collector
	e.log = log
}

// New constructs an event loop around gen. If init is true, the loop
// pre-fetches the first two arrivals from gen, seeds the clock at the first
// arrival, and inserts it into the ready queue. If init is false, only the
// (empty) ready queue is allocated; full state is expected to arrive via
// Load.
func New(gen *generator.Generator, init bool) (*EventLoop, error) {
	evl := &EventLoop{
		gen:   gen,
		ready: jobqueue.New(),
	}
	if !init {
		return evl, nil
	}

	current, ok := gen.Rise()
	if !ok {
		return nil, fmt.Errorf("scheduler: cannot initialize event loop from an exhausted generator")
	}
	next, ok := gen.Rise()
	if !ok {
		return nil, fmt.Errorf("scheduler: cannot initialize event loop: generator exhausted after one job")
	}
	if current.Arrival > next.Arrival {
		return nil, fmt.Errorf("scheduler: broken generator: first job arrives at %d after second job at %d",
			current.Arrival, next.Arrival)
	}

	evl.currentJob = current
	evl.nextJob = next
	evl.now = current.Arrival
	evl.ready.Insert(current, jobqueue.ByDeadline)
	return evl, nil
}

// Now returns the current simulated time.
func (e *EventLoop) Now() int64 { return e.now }

// JobsDone returns the number of jobs completed so far.
func (e *EventLoop) JobsDone() int64 { return e.jobsDone }

// EventsDone returns the number of scheduling events processed so far: each
// arrival, and each execution step of the ready-queue head whether or not
// it completes the job (the step that misses a deadline included).
func (e *EventLoop) EventsDone() int64 { return e.eventsDone }

// Run advances the clock from Now() towards breakTime, executing the ready
// queue under EDF and admitting arrivals from the generator as they come
// due. speed is the amount of work the processor completes per time tick.
//
// If breakTime <= Now(), Run returns OK immediately (callers that need to
// distinguish "nothing to do" from "ran and succeeded" should check
// breakTime against Now() themselves and report Pass, per the contract
// described in the package-level Result docs).
func (e *EventLoop) Run(breakTime, speed int64, overrunBreak bool) Result {
	current := e.currentJob
	next := e.nextJob

	for e.now < breakTime {
		arrival := next.Arrival
		var runtime int64
		if arrival < breakTime {
			runtime = arrival - e.now
		} else {
			runtime = breakTime - e.now
		}

		current, _ = e.ready.Peek()
		var overrunAt int64
		if current != nil {
			overrunAt = current.OverrunDeadline
		} else {
			overrunAt = arrival + noOverrunSentinel
		}
		if overrunBreak && overrunAt < arrival {
			runtime = overrunAt - e.now
		}

		for runtime > 0 {
			cur, ok := e.ready.Peek()
			if !ok {
				break
			}
			current = cur
			deadline := cur.AbsoluteDeadline
			c := cur.Computation
			work := runtime * speed

			if work <= c {
				e.now += runtime
				cur.Computation = c - work
				runtime = 0
			} else {
				timeSpent := c / speed
				if c%speed > 0 {
					runtime--
					e.now++
				}
				e.now += timeSpent
				runtime -= timeSpent

				e.ready.Pop()
				e.jobsDone++
				if e.metrics != nil {
					e.metrics.RecordJobDone(cur.TaskID)
				}
			}
			e.eventsDone++
			if e.metrics != nil {
				e.metrics.RecordEvent()
			}

			if e.now > deadline {
				e.now = deadline
				e.currentJob = cur
				e.nextJob = next
				if e.metrics != nil {
					e.metrics.RecordDeadlineMiss(cur.TaskID)
				}
				if e.log != nil {
					e.log.Warn("deadline miss", "task_id", cur.TaskID, "now", e.now, "deadline", deadline)
				}
				return DeadlineMiss
			}
		}

		if e.now == breakTime || e.now+runtime == breakTime {
			e.now = breakTime
			break
		}
		if overrunBreak && e.now == overrunAt {
			e.currentJob = current
			e.nextJob = next
			if e.metrics != nil && current != nil {
				e.metrics.RecordOverrun(current.TaskID)
			}
			if e.log != nil && current != nil {
				e.log.Warn("overrun", "task_id", current.TaskID, "now", e.now)
			}
			return Overrun
		}
		if arrival >= breakTime {
			// Reached only when the overrun cap shortened runtime: the
			// clock stops at breakTime instead of moving past it.
			e.now = breakTime
			break
		}

		e.now = arrival
		e.ready.Insert(next, jobqueue.ByDeadline)
		risen, ok := e.gen.Rise()
		if !ok {
			// Every task has a positive period, so the generator never
			// runs out of future arrivals; reaching this would mean the
			// generator itself is broken.
			panic("scheduler: job generator unexpectedly exhausted mid-run")
		}
		next = risen
		e.eventsDone++
		if e.metrics != nil {
			e.metrics.RecordEvent()
		}
	}

	e.currentJob = current
	e.nextJob = next
	return OK
}
