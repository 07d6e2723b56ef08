package task

import "fmt"

// System is an ordered collection of Tasks. Lookup by position is O(1);
// lookup by id goes through an id-to-position index that is built on the
// first lookup and rebuilt after each Add.
type System struct {
	tasks []*Task
	byID  map[int64]int // lazily built index, invalidated on Add
}

// NewSystem returns an empty task system.
func NewSystem() *System {
	return &System{}
}

// Add appends t to the system. It returns an error if a task with the same
// id is already present; ids must be unique but are otherwise arbitrary
// (including negative) integers.
func (s *System) Add(t *Task) error {
	if _, pos, ok := s.lookupID(t.ID()); ok {
		return fmt.Errorf("tasksystem: duplicate task id %d (already at position %d)", t.ID(), pos)
	}
	s.tasks = append(s.tasks, t)
	s.byID = nil
	return nil
}

// Len returns the number of tasks in the system.
func (s *System) Len() int { return len(s.tasks) }

// ByPosition returns the task at position pos (0-indexed).
func (s *System) ByPosition(pos int) (*Task, error) {
	if pos < 0 || pos >= len(s.tasks) {
		return nil, fmt.Errorf("tasksystem: position %d out of range [0,%d)", pos, len(s.tasks))
	}
	return s.tasks[pos], nil
}

// ByID returns the task with the given id, and its position.
func (s *System) ByID(id int64) (*Task, int, error) {
	t, pos, ok := s.lookupID(id)
	if !ok {
		return nil, 0, fmt.Errorf("tasksystem: unknown task id %d", id)
	}
	return t, pos, nil
}

// PositionByID returns the position of the task with the given id.
func (s *System) PositionByID(id int64) (int, error) {
	_, pos, err := s.ByID(id)
	return pos, err
}

// All returns the tasks in system order. The returned slice must not be
// mutated by the caller.
func (s *System) All() []*Task { return s.tasks }

func (s *System) lookupID(id int64) (*Task, int, bool) {
	if s.byID == nil {
		s.byID = make(map[int64]int, len(s.tasks))
		for i, t := range s.tasks {
			s.byID[t.ID()] = i
		}
	}
	pos, ok := s.byID[id]
	if !ok {
		return nil, 0, false
	}
	return s.tasks[pos], pos, true
}
