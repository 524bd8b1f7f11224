// Package runtime wires config, snapshot store, and the task registry into a
// single-node taskqd instance. It exposes Open/Close, a health check, and
// Save for on-demand snapshots.
//
// Example:
//
//	cfg := config.Default()
//	cfg.CheckpointDir = "./checkpoints"
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	id := rt.Registry().Add("orders", 5, "12345")
//	_ = rt.Save()
package runtime
