// Package serverrun boots the taskqd server from a Config: it opens the
// runtime (restoring any snapshot), serves the TCP protocol until shutdown,
// and writes a final snapshot on the way out.
package serverrun
