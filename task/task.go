// SPDX-License-Identifier: CC0-1.0

// Package task describes the sporadic tasks that a simulated task system is
// built from.
package task

import "fmt"

// NumComp is the number of computation-demand bounds carried by a Task (three
// [low,high] segments).
const NumComp = 6

// Task is an immutable description of one periodic task's parameters. Once
// constructed by New, none of its fields may change; the simulator only ever
// reads a Task through its accessors.
type Task struct {
	id               int64
	period           int64
	relativeDeadline int64
	comp             [NumComp]int64
	prob             [2]float64
	beta             float64
}

// New validates the parameters of a task and returns an immutable Task.
//
// comp holds three [low,high] segments in order: (comp[0],comp[1]),
// (comp[2],comp[3]), (comp[4],comp[5]). prob[0] and prob[1] are the
// probabilities of drawing from the first and second segment respectively;
// the remaining probability mass selects the third segment. beta is the
// scale parameter of the exponential inter-arrival jitter.
func New(id, period, relativeDeadline int64, comp [NumComp]int64, prob [2]float64, beta float64) (*Task, error) {
	if period <= 0 {
		return nil, fmt.Errorf("task %d: period must be positive, got %d", id, period)
	}
	if relativeDeadline <= 0 {
		return nil, fmt.Errorf("task %d: relative deadline must be positive, got %d", id, relativeDeadline)
	}
	if prob[0] < 0 || prob[1] < 0 || prob[0]+prob[1] > 1.0 {
		return nil, fmt.Errorf("task %d: prob[0]+prob[1] must be in [0,1], got %v", id, prob)
	}
	if beta < 0 {
		return nil, fmt.Errorf("task %d: beta must be non-negative, got %v", id, beta)
	}
	return &Task{
		id:               id,
		period:           period,
		relativeDeadline: relativeDeadline,
		comp:             comp,
		prob:             prob,
		beta:             beta,
	}, nil
}

// ID returns the task's identifier. Identifiers are caller-assigned and may
// be negative; uniqueness is enforced by the owning TaskSystem.
func (t *Task) ID() int64 { return t.id }

// Period returns the task's nominal inter-arrival time.
func (t *Task) Period() int64 { return t.period }

// RelativeDeadline returns the offset from arrival at which a job of this
// task must complete.
func (t *Task) RelativeDeadline() int64 { return t.relativeDeadline }

// Comp returns bound i (0..5) of the three computation-demand segments.
func (t *Task) Comp(i int) int64 { return t.comp[i] }

// Prob returns probability i (0 or 1) of selecting the corresponding
// computation-demand segment.
func (t *Task) Prob(i int) float64 { return t.prob[i] }

// Beta returns the scale parameter of the exponential jitter distribution.
func (t *Task) Beta() float64 { return t.beta }

// CanOverrun reports whether this task mixes a low-criticality segment with
// a reachable higher-criticality segment, i.e. whether jobs of this task
// carry a meaningful overrun threshold (see generator.Generator).
func (t *Task) CanOverrun() bool {
	return t.comp[2] > 0 && t.prob[0] < 1.0
}

func (t *Task) String() string {
	return fmt.Sprintf("Task{id:%d period:%d reldead:%d comp:%v prob:%v beta:%v}",
		t.id, t.period, t.relativeDeadline, t.comp, t.prob, t.beta)
}
