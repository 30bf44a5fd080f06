package main

import (
	"log/slog"

	"tzvalidate/internal/config"
	"tzvalidate/internal/sink"
)

// newSinks sets up the secondary writers from config, flags and env vars.
// It returns the fan-out writer and a cleanup function closing any files.
func newSinks(cfg *config.Config, printOnly bool, log *slog.Logger) (*sink.MultiWriter, func(), error) {
	cleanup := func() {}
	var writers []sink.ZoneWriter

	if path := cfg.Output.JSONL; path != "" {
		fw, err := sink.NewFileWriter(path)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		cleanup = func() {
			if err := fw.Close(); err != nil {
				log.Warn("close sample log", "path", path, "error", err)
			}
		}
		log.Info("sample log enabled", "path", path)
	}

	g := cfg.Output.Greptime
	switch {
	case printOnly:
		log.Debug("print-only mode: GreptimeDB disabled")
	case g.Endpoint == "":
		log.Debug("GREPTIMEDB_ENDPOINT not set: GreptimeDB disabled")
	default:
		w, err := sink.NewGreptimeDBWriter(g.Endpoint, g.Database, g.Table, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writers = append(writers, w)
		log.Info("GreptimeDB sink enabled", "endpoint", g.Endpoint)
	}

	return sink.NewMultiWriter(writers...), cleanup, nil
}
