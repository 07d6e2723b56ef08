// Package generator produces the deterministically-seeded stream of jobs
// consumed by the event loop, one future job per task always staged on an
// arrival-time-keyed queue.
package generator

import (
	"fmt"
	"math"

	"github.com/edfsim/edfsim/job"
	"github.com/edfsim/edfsim/jobqueue"
	"github.com/edfsim/edfsim/random"
	"github.com/edfsim/edfsim/task"
)

// Generator produces jobs for a task system from a seeded random stream. It
// holds a non-owning reference to the task system and owns its
// pending-arrivals queue, per-task phase vector, and random source.
type Generator struct {
	system  *task.System
	pending *jobqueue.Queue
	simTime map[int64]int64 // task id -> absolute time of next release
	rng     random.Source
}

// New constructs a Generator for system, seeded with seed. If refill is
// true, one future job per task is staged immediately; otherwise the
// pending-arrivals queue starts empty and must be populated by RefillAll or
// by a checkpoint restore.
func New(system *task.System, seed uint32, refill bool) *Generator {
	g := &Generator{
		system:  system,
		pending: jobqueue.New(),
		simTime: make(map[int64]int64, system.Len()),
		rng:     random.New(seed),
	}
	for _, t := range system.All() {
		g.simTime[t.ID()] = 0
	}
	if refill {
		g.RefillAll()
	}
	return g
}

// TaskSystem returns the task system this generator draws jobs from.
func (g *Generator) TaskSystem() *task.System { return g.system }

// Pending returns the generator's pending-arrivals queue, for inspection by
// a checkpoint dump. Callers must not mutate the returned queue.
func (g *Generator) Pending() *jobqueue.Queue { return g.pending }

// SetSimTime overwrites the per-task phase vector, used when restoring a
// checkpoint. times must contain exactly one entry per task id present in
// the task system.
func (g *Generator) SetSimTime(times map[int64]int64) error {
	if len(times) != g.system.Len() {
		return fmt.Errorf("generator: phase vector length mismatch: got %d, want %d", len(times), g.system.Len())
	}
	for id, t := range times {
		if _, _, err := g.system.ByID(id); err != nil {
			return err
		}
		g.simTime[id] = t
	}
	return nil
}

// ReplacePending swaps in a freshly built pending-arrivals queue, used when
// restoring a checkpoint.
func (g *Generator) ReplacePending(q *jobqueue.Queue) {
	g.pending = q
}

// Rise pops the earliest pending-arrival job and stages the next job of its
// task before returning it. Rise returns (nil, false) once the task
// system's mission is exhausted (which never happens for tasks with a
// positive period, but keeps the contract total).
func (g *Generator) Rise() (*job.Job, bool) {
	j, ok := g.pending.Pop()
	if !ok {
		return nil, false
	}
	g.refill(j.TaskID)
	return j, true
}

// RefillAll stages one future job for every task in the system. Used at
// construction with refill=true and when resuming from an empty
// checkpoint.
func (g *Generator) RefillAll() {
	for _, t := range g.system.All() {
		g.refill(t.ID())
	}
}

// refill draws the next job of the task with the given id and enqueues it
// on the pending-arrivals queue, keyed by arrival.
//
// Grounded on the reference implementation's refill_generator: jitter and
// computation demand are drawn in that order so that two runs seeded
// identically draw an identical sequence of random numbers regardless of
// which task happens to refill when.
func (g *Generator) refill(taskID int64) {
	t, _, err := g.system.ByID(taskID)
	if err != nil {
		// The task system is immutable after construction and every job
		// carries a task id drawn from it; an unknown id here means the
		// generator was misconstructed.
		panic(err)
	}

	jitter := int64(math.Floor(g.rng.Exponential(t.Beta()) * float64(t.Period())))
	demand := g.drawComputation(t)

	arrival := g.simTime[taskID]
	deadline := arrival + t.RelativeDeadline()
	g.simTime[taskID] = arrival + t.Period() + jitter

	overrunDeadline := g.overrunDeadline(t, arrival, demand)

	j := job.New(taskID, arrival, overrunDeadline, deadline, demand)
	g.pending.Insert(j, jobqueue.ByArrival)
}

// drawComputation draws the computation demand for a job of task t: a
// three-way segment choice followed by a uniform draw within the chosen
// segment, ceiled to an integer. The result is always at least 1.
func (g *Generator) drawComputation(t *task.Task) int64 {
	y := g.rng.Uniform(0.0, 1.0)
	p0, p1 := t.Prob(0), t.Prob(1)

	segment := 0
	switch {
	case y > p0+p1:
		segment = 2
	case y > p0:
		segment = 1
	default:
		segment = 0
	}

	low := float64(t.Comp(2 * segment))
	high := float64(t.Comp(2*segment + 1))
	demand := int64(math.Ceil(g.rng.Uniform(low, high)))
	if demand < 1 {
		demand = 1
	}
	return demand
}

// overrunDeadline computes the absolute time at which a job of task t,
// arriving at the given time, has exceeded its low-criticality budget. For
// tasks that cannot meaningfully overrun, it returns a threshold beyond the
// job's own demand so the event loop's overrun check never fires.
func (g *Generator) overrunDeadline(t *task.Task, arrival, demand int64) int64 {
	if t.CanOverrun() {
		return arrival + t.Comp(1) + 1
	}
	return arrival + demand + 1
}
