// SPDX-License-Identifier: Apache-2.0

// Package taskfile loads a task.System from the flat numeric task-system
// input file described by the simulator's external interfaces: a sequence
// of per-task 12-tuples (id, period, reldead, c0..c5, p0, p1, beta),
// wrapped in arbitrary JSON-like structure that carries no meaning beyond
// ordering the numbers, with YAML-style "#" comments permitted.
//
// Parsing this format is explicitly an external concern: the simulator
// core only ever consumes a constructed task.System.
package taskfile

import (
	"fmt"
	"io"

	"github.com/edfsim/edfsim/pkg/numstream"
	"github.com/edfsim/edfsim/task"
)

// numbersPerTask is the width of one task's flat tuple: id, period,
// reldead, c0..c5 (6 values), p0, p1, beta.
const numbersPerTask = 12

// Load reads a task-system file from r and builds the corresponding
// task.System, in input order.
func Load(r io.Reader) (*task.System, error) {
	nums, err := numstream.Extract(r)
	if err != nil {
		return nil, fmt.Errorf("taskfile: %w", err)
	}
	return FromNumbers(nums)
}

// FromNumbers builds a task.System from a flat sequence of numbers, as
// already extracted by Load or supplied directly by a caller that owns its
// own parsing (e.g. a config-file layer built on a richer format).
func FromNumbers(nums []float64) (*task.System, error) {
	if len(nums)%numbersPerTask != 0 {
		return nil, fmt.Errorf("taskfile: expected a multiple of %d numbers, got %d", numbersPerTask, len(nums))
	}

	sys := task.NewSystem()
	for i := 0; i < len(nums); i += numbersPerTask {
		tuple := nums[i : i+numbersPerTask]
		id := int64(tuple[0])
		period := int64(tuple[1])
		reldead := int64(tuple[2])
		var comp [task.NumComp]int64
		for j := 0; j < task.NumComp; j++ {
			comp[j] = int64(tuple[3+j])
		}
		prob := [2]float64{tuple[9], tuple[10]}
		beta := tuple[11]

		t, err := task.New(id, period, reldead, comp, prob, beta)
		if err != nil {
			return nil, fmt.Errorf("taskfile: task %d: %w", i/numbersPerTask, err)
		}
		if err := sys.Add(t); err != nil {
			return nil, fmt.Errorf("taskfile: task %d: %w", i/numbersPerTask, err)
		}
	}
	return sys, nil
}
