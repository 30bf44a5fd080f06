package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tzvalidate/internal/config"
	"tzvalidate/internal/fixture"
	"tzvalidate/internal/logging"
	"tzvalidate/internal/oracle"
	"tzvalidate/internal/report"
	"tzvalidate/internal/scan"
)

type generateOptions struct {
	startYear  int
	untilYear  int
	epochYear  int
	interval   int
	backend    string
	zoneinfo   string
	configPath string
	schemaPath string
	sort       bool
	workers    int
	logFile    string
	printOnly  bool
	level      levelValue
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate validation data for the zones read from stdin",
		Long: "generate reads zone names from stdin, one per line, scans each for offset " +
			"transitions and canary samples, and writes the JSON report to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&o.startYear, "start-year", 0, "first year to scan")
	fs.IntVar(&o.untilYear, "until-year", 0, "year to stop at (exclusive)")
	fs.IntVar(&o.epochYear, "epoch-year", 0, "year whose Jan 1 00:00 UTC is epoch 0 in the report")
	fs.IntVar(&o.interval, "sampling-interval", scan.DefaultProbeIntervalHours, "probe interval in hours")
	fs.StringVar(&o.backend, "oracle", config.BackendGoTime, "offset backend: gotime or table")
	fs.StringVar(&o.zoneinfo, "zoneinfo", "", "directory holding a compiled zone database")
	fs.StringVar(&o.configPath, "config", "", "path to a YAML run configuration")
	fs.StringVar(&o.schemaPath, "schema", "", "path to a CUE schema replacing the embedded one")
	fs.BoolVar(&o.sort, "sort", false, "sort each item list by epoch")
	fs.IntVar(&o.workers, "workers", 1, "zones processed concurrently")
	fs.StringVar(&o.logFile, "log-file", "", "path to export samples as JSONL")
	fs.BoolVar(&o.printOnly, "print-only", false, "disable the GreptimeDB sink")
	addLogLevelFlag(fs, &o.level)
	return cmd
}

// resolve merges config and flags; flags set on the command line win.
func (o *generateOptions) resolve(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath, o.schemaPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	setInt := func(name string, dst *int, v int) {
		if fs.Changed(name) || *dst == 0 {
			*dst = v
		}
	}
	setString := func(name string, dst *string, v string) {
		if fs.Changed(name) || *dst == "" {
			*dst = v
		}
	}
	setInt("start-year", &cfg.StartYear, o.startYear)
	setInt("until-year", &cfg.UntilYear, o.untilYear)
	setInt("epoch-year", &cfg.EpochYear, o.epochYear)
	setInt("sampling-interval", &cfg.SamplingIntervalHours, o.interval)
	setInt("workers", &cfg.Workers, o.workers)
	setString("oracle", &cfg.Oracle.Backend, o.backend)
	setString("zoneinfo", &cfg.Oracle.Zoneinfo, o.zoneinfo)
	setString("log-file", &cfg.Output.JSONL, o.logFile)
	if fs.Changed("sort") {
		cfg.Sort = o.sort
	}

	var missing []string
	for name, v := range map[string]int{"--start-year": cfg.StartYear, "--until-year": cfg.UntilYear, "--epoch-year": cfg.EpochYear} {
		if v == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required flag(s) not set: %v", sortedStrings(missing))
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newBackend(cfg *config.Config) (oracle.Backend, error) {
	switch cfg.Oracle.Backend {
	case config.BackendGoTime:
		return oracle.NewGoTimeBackend(cfg.Oracle.Zoneinfo), nil
	case config.BackendTable:
		tables, err := cfg.Tables()
		if err != nil {
			return nil, err
		}
		return oracle.NewTableBackend(tables...), nil
	}
	return nil, fmt.Errorf("unknown oracle backend %q", cfg.Oracle.Backend)
}

func (o *generateOptions) run(cmd *cobra.Command) error {
	cfg, err := o.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), o.level.level)
	ctx := logging.NewContext(cmd.Context(), log)

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	zones, err := readZones(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read zones: %w", err)
	}
	sinks, cleanup, err := newSinks(cfg, o.printOnly, log)
	if err != nil {
		return err
	}
	defer cleanup()

	runID := uuid.NewString()
	info := backend.Info()
	log.Info("generate", "run_id", runID, "source", info.Source, "version", info.Version,
		"tz_version", info.TzVersion, "zones", len(zones), "start_year", cfg.StartYear, "until_year", cfg.UntilYear)

	res, err := fixture.Run(ctx, backend, zones, fixture.Options{
		Options: scan.Options{
			StartYear:          cfg.StartYear,
			UntilYear:          cfg.UntilYear,
			ProbeIntervalHours: cfg.SamplingIntervalHours,
		},
		Workers: cfg.Workers,
	})
	if err != nil {
		return err
	}

	vd := report.Build(report.Header{
		StartYear: cfg.StartYear,
		UntilYear: cfg.UntilYear,
		EpochYear: cfg.EpochYear,
		RunID:     runID,
		Source:    info,
	}, res, cfg.Sort)
	if err := report.Encode(cmd.OutOrStdout(), vd); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	var sinkErr error
	if sinks.Len() > 0 {
		for _, z := range res.Zones {
			if err := sinks.WriteZone(runID, z.Name, z.Store.Items()); err != nil {
				log.Error("sink write failed", "zone", z.Name, "error", err)
				sinkErr = fmt.Errorf("sink: %w", err)
				break
			}
		}
	}

	for _, f := range res.Failures {
		log.Error("zone excluded", "name", f.Name, "error", f.Err)
	}
	return errors.Join(res.Err(), sinkErr)
}
