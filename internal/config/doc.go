// Package config provides loading and environment overlay for taskqd
// configuration. It exposes a Default() baseline, JSON file loading, and a
// TASKQD_* env overlay; flags applied by the CLI win last.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/taskqd.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
