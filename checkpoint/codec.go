// Package checkpoint encodes and decodes the simulator's checkpoint file:
// a JSON object carrying the clock and the de-duplicated union of jobs
// resident in the ready queue and the pending-arrivals queue.
//
// JSON encoding and decoding are, per the simulator's scope, external
// collaborators: this package is the thin glue between a
// scheduler.Snapshot and the on-disk representation described in the
// external interfaces. Reading tolerates any equivalent flat number stream
// (structure is irrelevant, only order matters); writing always emits the
// canonical shape.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/edfsim/edfsim/pkg/numstream"
	"github.com/edfsim/edfsim/pkg/schema"
	"github.com/edfsim/edfsim/scheduler"
)

// fileFormat is the canonical on-disk shape: {"now": <int>, "jobs": [[tid,
// arr, ot, dl, c], ...]}.
type fileFormat struct {
	Now  int64      `json:"now"`
	Jobs [][5]int64 `json:"jobs"`
}

// Write serializes snap to w in the canonical checkpoint shape.
func Write(w io.Writer, snap scheduler.Snapshot) error {
	ff := fileFormat{
		Now:  snap.Now,
		Jobs: make([][5]int64, len(snap.Jobs)),
	}
	for i, rec := range snap.Jobs {
		ff.Jobs[i] = [5]int64{rec.TaskID, rec.Arrival, rec.OverrunDeadline, rec.AbsoluteDeadline, rec.Computation}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(ff); err != nil {
		return fmt.Errorf("checkpoint: encode: %w", err)
	}
	return nil
}

// Read decodes a checkpoint from r. It first attempts a strict, schema-
// validated JSON decode of the canonical shape; if that fails (because the
// stream is some other equivalent flat number arrangement), it falls back
// to extracting a flat number stream: the first number is Now, and every
// group of five that follows is one job record, in order.
func Read(r io.Reader) (scheduler.Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return scheduler.Snapshot{}, fmt.Errorf("checkpoint: read: %w", err)
	}

	if snap, err := readStrict(raw); err == nil {
		return snap, nil
	}
	return readFlat(raw)
}

func readStrict(raw []byte) (scheduler.Snapshot, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return scheduler.Snapshot{}, err
	}
	if err := schema.ValidateCheckpoint(doc); err != nil {
		return scheduler.Snapshot{}, err
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return scheduler.Snapshot{}, err
	}

	snap := scheduler.Snapshot{Now: ff.Now, Jobs: make([]scheduler.JobRecord, len(ff.Jobs))}
	for i, j := range ff.Jobs {
		snap.Jobs[i] = scheduler.JobRecord{
			TaskID:           j[0],
			Arrival:          j[1],
			OverrunDeadline:  j[2],
			AbsoluteDeadline: j[3],
			Computation:      j[4],
		}
	}
	return snap, nil
}

func readFlat(raw []byte) (scheduler.Snapshot, error) {
	nums, err := numstream.Extract(bytes.NewReader(raw))
	if err != nil {
		return scheduler.Snapshot{}, fmt.Errorf("checkpoint: %w", err)
	}
	if len(nums) == 0 {
		return scheduler.Snapshot{}, fmt.Errorf("checkpoint: empty stream, expected at least a clock value")
	}
	rest := nums[1:]
	if len(rest)%5 != 0 {
		return scheduler.Snapshot{}, fmt.Errorf("checkpoint: expected now followed by groups of 5, got %d trailing numbers", len(rest))
	}

	snap := scheduler.Snapshot{Now: int64(nums[0])}
	for i := 0; i < len(rest); i += 5 {
		snap.Jobs = append(snap.Jobs, scheduler.JobRecord{
			TaskID:           int64(rest[i]),
			Arrival:          int64(rest[i+1]),
			OverrunDeadline:  int64(rest[i+2]),
			AbsoluteDeadline: int64(rest[i+3]),
			Computation:      int64(rest[i+4]),
		})
	}
	return snap, nil
}
