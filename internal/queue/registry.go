package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rzbill/taskqd/internal/snapshot"
	"github.com/rzbill/taskqd/internal/task"
)

// ErrUnknownQueue reports an operation against a queue name no ADD has
// created. It is a routing outcome, not a failure of the server.
var ErrUnknownQueue = errors.New("unknown queue")

const snapshotVersion = 1

// snapshotDoc is the on-disk shape of the registry. It round-trips every
// task field, including the waiting flag and the absolute wall-clock wait
// start, so a restored task resumes its original visibility countdown.
type snapshotDoc struct {
	Version int               `json:"version"`
	Queues  map[string]*Queue `json:"queues"`
}

// Delivery is the consumer-facing view of a dispatched task.
type Delivery struct {
	ID      string
	Length  int
	Payload string
}

// Registry maps queue names to queues, creating them lazily on first Add and
// never deleting them implicitly. Names are case-sensitive exact strings.
//
// Every operation holds one mutex: dispatch (refresh-then-mark) and
// acknowledge (refresh-then-check-then-remove) are compound read-modify-write
// sequences that must be atomic with respect to all other queue operations,
// including ones on other queue names sharing the same snapshot.
type Registry struct {
	mu         sync.Mutex
	queues     map[string]*Queue
	timeoutSec int64
	store      snapshot.Store
}

// NewRegistry creates an empty registry. Tasks added through it get the given
// visibility timeout; snapshots go through store.
func NewRegistry(timeoutSec int64, store snapshot.Store) *Registry {
	return &Registry{
		queues:     make(map[string]*Queue),
		timeoutSec: timeoutSec,
		store:      store,
	}
}

// Add creates the queue on first use, appends a new task, and returns its id.
// Add always succeeds.
func (r *Registry) Add(queueName string, declaredLen int, payload string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[queueName]
	if !ok {
		q = NewQueue(queueName)
		r.queues[queueName] = q
	}
	t := task.New(declaredLen, payload, r.timeoutSec)
	q.Add(t)
	return t.ID
}

// NextAvailable dispatches the next available task of the named queue.
// It returns ErrUnknownQueue when no ADD has created the queue, and a nil
// Delivery when every task is still inside its visibility window.
func (r *Registry) NextAvailable(queueName string) (*Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[queueName]
	if !ok {
		return nil, ErrUnknownQueue
	}
	t := q.NextAvailable()
	if t == nil {
		return nil, nil
	}
	return &Delivery{ID: t.ID, Length: t.DeclaredLen, Payload: t.Payload}, nil
}

// Contains reports whether the named queue holds a task with the given id.
func (r *Registry) Contains(queueName, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[queueName]
	if !ok {
		return false, ErrUnknownQueue
	}
	return q.Contains(id), nil
}

// Acknowledge removes the task with the given id from the named queue if it
// is still within its visibility window.
func (r *Registry) Acknowledge(queueName, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[queueName]
	if !ok {
		return false, ErrUnknownQueue
	}
	return q.Acknowledge(id), nil
}

// Save serializes the whole name-to-queue mapping through the snapshot
// store, overwriting any prior snapshot. On failure the in-memory state
// stays authoritative and unchanged.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(snapshotDoc{Version: snapshotVersion, Queues: r.queues})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.store.Write(b); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory mapping with the stored snapshot. A missing or
// empty snapshot is a first run: Load returns (false, nil) and leaves the
// registry empty. A snapshot that cannot be decoded is returned as an error
// so startup can abort instead of running with partially understood state.
func (r *Registry) Load() (bool, error) {
	b, err := r.store.Read()
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read snapshot: %w", err)
	}
	var doc snapshotDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != snapshotVersion {
		return false, fmt.Errorf("decode snapshot: unsupported version %d", doc.Version)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues = doc.Queues
	if r.queues == nil {
		r.queues = make(map[string]*Queue)
	}
	return true, nil
}
