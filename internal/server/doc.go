// Package server hosts the TCP front of taskqd: a one-request-per-connection
// listener that parses wire commands, assembles fragmented ADD payloads, and
// delegates to the queue registry.
//
// Example:
//
//	srv := server.New(reg, logger, 10)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = srv.ListenAndServe(ctx, "0.0.0.0:5555")
package server
