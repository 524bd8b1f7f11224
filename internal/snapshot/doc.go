// Package snapshot persists the encoded registry state as one opaque blob.
// The Store interface hides the backend: a single atomically-replaced file
// (the default) or a Pebble database under the checkpoint directory.
package snapshot
