package task

import (
	"time"

	"github.com/google/uuid"
)

// NowMs returns the current wall-clock time in milliseconds since the Unix
// epoch. Tests override it to drive visibility-timeout expiry.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Task is one unit of work held by a queue. A task is either available for
// dispatch or waiting on a consumer; a waiting task becomes available again
// once its visibility timeout elapses without an acknowledgment.
//
// Invariant: WaitStartedMs is non-zero iff Waiting is true. The only
// transitions are StartWait (available -> waiting) and Refresh or an
// acknowledgment (waiting -> gone/available).
type Task struct {
	ID            string `json:"id"`
	DeclaredLen   int    `json:"declaredLen"`
	Payload       string `json:"payload"`
	TimeoutSec    int64  `json:"timeoutSec"`
	Waiting       bool   `json:"waiting"`
	WaitStartedMs int64  `json:"waitStartedMs,omitempty"`
}

// New creates an available task with a fresh identifier. The declared length
// is whatever the producer asserted; it is carried, not enforced.
func New(declaredLen int, payload string, timeoutSec int64) *Task {
	return &Task{
		ID:          uuid.NewString(),
		DeclaredLen: declaredLen,
		Payload:     payload,
		TimeoutSec:  timeoutSec,
	}
}

// StartWait marks the task as dispatched and records when the visibility
// window opened. Until the window lapses or the task is acknowledged it is
// ineligible for dispatch to another consumer.
func (t *Task) StartWait() {
	t.Waiting = true
	t.WaitStartedMs = NowMs()
}

// Refresh lazily observes visibility-timeout expiry. There is no background
// timer; expiry becomes visible on the next access of the task.
func (t *Task) Refresh() {
	if !t.Waiting {
		return
	}
	if NowMs()-t.WaitStartedMs >= t.TimeoutSec*1000 {
		t.Waiting = false
		t.WaitStartedMs = 0
	}
}
