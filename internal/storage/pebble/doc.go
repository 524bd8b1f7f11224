// Package pebblestore provides a thin wrapper around Pebble with fsync
// policy and the key/value surface used by the pebble snapshot backend.
//
// Usage:
//
//	db, _ := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
//	defer db.Close()
//	_ = db.Set([]byte("k"), []byte("v"))
//	v, _ := db.Get([]byte("k"))
package pebblestore
