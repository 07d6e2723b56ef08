// Package jobqueue implements the min-keyed priority queue of jobs shared by
// the job generator's pending-arrivals queue and the event loop's ready
// queue.
//
// The reference implementation parameterises its queue with a function
// pointer that extracts a priority from a job at insertion time. This
// package models the same contract with a KeyFunc chosen by the caller per
// Insert call (ByArrival and ByDeadline are the two the simulator uses);
// the key is computed once, at insertion time, and never recomputed.
package jobqueue

import (
	"container/heap"

	"github.com/edfsim/edfsim/job"
)

// KeyFunc extracts the priority key of j. The queue orders by ascending key
// (smaller key is higher priority).
type KeyFunc func(j *job.Job) int64

// ByArrival keys a job by its arrival time. Used by the job generator's
// pending-arrivals queue.
func ByArrival(j *job.Job) int64 { return j.Arrival }

// ByDeadline keys a job by its absolute deadline. Used by the event loop's
// EDF ready queue.
func ByDeadline(j *job.Job) int64 { return j.AbsoluteDeadline }

type item struct {
	job *job.Job
	key int64
}

type itemHeap []*item

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(*item)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is a min-keyed priority queue of jobs.
type Queue struct {
	h itemHeap
}

// New returns an empty queue.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Insert adds j to the queue, keyed by key(j). The key is captured now and
// is not recomputed even if the job is later mutated; inserting the same
// job into two queues with different KeyFuncs is legal.
func (q *Queue) Insert(j *job.Job, key KeyFunc) {
	heap.Push(&q.h, &item{job: j, key: key(j)})
}

// Peek returns the job with the smallest key without removing it, and
// whether the queue was non-empty.
func (q *Queue) Peek() (*job.Job, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	return q.h[0].job, true
}

// Pop removes and returns the job with the smallest key, and whether the
// queue was non-empty.
func (q *Queue) Pop() (*job.Job, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	it := heap.Pop(&q.h).(*item)
	return it.job, true
}

// Len returns the number of jobs in the queue.
func (q *Queue) Len() int { return len(q.h) }

// Dump returns the contained jobs in key order without disturbing the
// queue.
func (q *Queue) Dump() []*job.Job {
	cp := make(itemHeap, len(q.h))
	copy(cp, q.h)
	heap.Init(&cp)

	out := make([]*job.Job, 0, len(cp))
	for cp.Len() > 0 {
		it := heap.Pop(&cp).(*item)
		out = append(out, it.job)
	}
	return out
}
