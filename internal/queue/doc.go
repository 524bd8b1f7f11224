// Package queue implements the in-memory task queue engine: per-queue task
// ordering, the visibility state machine driven lazily on access, and the
// registry that routes operations by queue name and owns the persistence
// snapshot.
//
// Example:
//
//	store, _ := snapshot.NewFileStore(dir)
//	reg := queue.NewRegistry(300, store)
//	_, _ = reg.Load()
//	id := reg.Add("orders", 5, "12345")
//	d, _ := reg.NextAvailable("orders")
//	_, _ = reg.Acknowledge("orders", d.ID)
//	_ = reg.Save()
package queue
