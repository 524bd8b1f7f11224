package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/rzbill/taskqd/internal/config"
	"github.com/rzbill/taskqd/internal/runtime"
	"github.com/rzbill/taskqd/internal/server"
)

// Run starts the TCP server and blocks until ctx is cancelled or a signal
// arrives. On the way out it writes a final snapshot so a restart resumes
// with the current state.
func Run(ctx context.Context, cfg cfgpkg.Config) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.WithFields(logrus.Fields{
		"addr":               cfg.Addr(),
		"visibility_timeout": cfg.VisibilityTimeoutSec,
		"max_pending":        cfg.MaxPendingConns,
		"snapshot_backend":   cfg.SnapshotBackend,
	}).Info("starting taskqd server")

	srv := server.New(rt.Registry(), logger, cfg.MaxPendingConns)
	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Addr()) })
	err = g.Wait()

	if saveErr := rt.Save(); saveErr != nil {
		logger.WithError(saveErr).Error("final snapshot failed")
	} else {
		logger.Info("final snapshot written")
	}
	return err
}

// newLogger builds the process-wide logger from config.
func newLogger(cfg cfgpkg.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
