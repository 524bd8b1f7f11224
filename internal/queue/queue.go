package queue

import "github.com/rzbill/taskqd/internal/task"

// Queue holds the tasks of one named queue in insertion order. Lookups are
// linear scans: per-queue depth is expected to stay small, so an id index is
// not worth the bookkeeping. A task lives in at most one queue, at most once.
type Queue struct {
	Name  string       `json:"name"`
	Tasks []*task.Task `json:"tasks"`
}

// NewQueue creates an empty queue for the given name.
func NewQueue(name string) *Queue { return &Queue{Name: name} }

// Add appends t to the end of the queue.
func (q *Queue) Add(t *task.Task) { q.Tasks = append(q.Tasks, t) }

// NextAvailable dispatches the first task that is not waiting, in insertion
// order, marking it waiting before returning. A still-waiting older task is
// skipped in favor of a younger available one, so ordering is first-fit by
// insertion, not strict FIFO. Returns nil when no task qualifies.
func (q *Queue) NextAvailable() *task.Task {
	for _, t := range q.Tasks {
		t.Refresh()
		if !t.Waiting {
			t.StartWait()
			return t
		}
	}
	return nil
}

// Contains reports whether a task with the given id is present, regardless of
// its waiting status. It does not mutate state.
func (q *Queue) Contains(id string) bool {
	for _, t := range q.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Acknowledge removes the task with the given id, but only while it is still
// inside its visibility window from the last dispatch. A late ack is refused:
// the task may already have been redelivered to another consumer.
func (q *Queue) Acknowledge(id string) bool {
	for i, t := range q.Tasks {
		if t.ID != id {
			continue
		}
		t.Refresh()
		if !t.Waiting {
			return false
		}
		q.Tasks = append(q.Tasks[:i], q.Tasks[i+1:]...)
		return true
	}
	return false
}
