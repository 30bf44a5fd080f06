package main

import (
	"log/slog"

	"github.com/spf13/pflag"

	"tzvalidate/internal/logging"
)

// levelValue lets --log-level accept the prefixes logging.ParseLevel knows.
type levelValue struct {
	raw   string
	level slog.Level
}

var _ pflag.Value = (*levelValue)(nil)

func (v *levelValue) String() string {
	if v.raw == "" {
		return "info"
	}
	return v.raw
}

func (v *levelValue) Set(s string) error {
	lv, err := logging.ParseLevel(s)
	if err != nil {
		return err
	}
	v.raw, v.level = s, lv
	return nil
}

func (v *levelValue) Type() string { return "level" }

func addLogLevelFlag(fs *pflag.FlagSet, v *levelValue) {
	v.level = slog.LevelInfo
	fs.Var(v, "log-level", "log level: trace, debug, info, warning or error (prefixes accepted)")
}
