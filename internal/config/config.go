// Package config loads the YAML run configuration and validates it against
// a CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tzvalidate/internal/oracle"
)

//go:embed schema.cue
var defaultSchema []byte

// ErrInvalidConfig wraps every schema or consistency failure.
var ErrInvalidConfig = errors.New("invalid config")

// Backend names accepted by oracle.backend and --oracle.
const (
	BackendGoTime = "gotime"
	BackendTable  = "table"
)

// Period is one offset state of a synthetic zone.
type Period struct {
	StdOffset int    `yaml:"std_offset"`
	DSTOffset int    `yaml:"dst_offset"`
	Abbrev    string `yaml:"abbrev"`
}

// Transition switches a synthetic zone to a new period at an RFC 3339 instant.
type Transition struct {
	At     string `yaml:"at"`
	Period `yaml:",inline"`
}

// SyntheticZone is a zone served by the table backend.
type SyntheticZone struct {
	Name        string       `yaml:"name"`
	Initial     Period       `yaml:"initial"`
	Transitions []Transition `yaml:"transitions"`
}

// OracleConfig selects the offset backend.
type OracleConfig struct {
	Backend  string `yaml:"backend"`
	Zoneinfo string `yaml:"zoneinfo"`
}

// GreptimeConfig configures the GreptimeDB sink.
type GreptimeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// OutputConfig lists the secondary sinks.
type OutputConfig struct {
	JSONL    string         `yaml:"jsonl"`
	Greptime GreptimeConfig `yaml:"greptime"`
}

// Config is the root run configuration.
type Config struct {
	StartYear             int             `yaml:"start_year"`
	UntilYear             int             `yaml:"until_year"`
	EpochYear             int             `yaml:"epoch_year"`
	SamplingIntervalHours int             `yaml:"sampling_interval_hours"`
	Sort                  bool            `yaml:"sort"`
	Workers               int             `yaml:"workers"`
	Oracle                OracleConfig    `yaml:"oracle"`
	Output                OutputConfig    `yaml:"output"`
	SyntheticZones        []SyntheticZone `yaml:"synthetic_zones"`
}

// Load reads path, validates it against the schema at schemaPath (or the
// embedded schema when empty) and applies environment overrides.
func Load(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	schema := defaultSchema
	if schemaPath != "" {
		if schema, err = os.ReadFile(schemaPath); err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
	}
	return Parse(path, data, schema)
}

// Parse validates and decodes a YAML document. A nil schema selects the
// embedded one.
func Parse(name string, data, schema []byte) (*Config, error) {
	if schema == nil {
		schema = defaultSchema
	}
	if err := ValidateWithCue(name, data, schema); err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.ApplyEnv()
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv lets GREPTIMEDB_* variables override the GreptimeDB sink.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		c.Output.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_DATABASE"); v != "" {
		c.Output.Greptime.Database = v
	}
	if v := os.Getenv("GREPTIMEDB_TABLE"); v != "" {
		c.Output.Greptime.Table = v
	}
}

// Check enforces the cross-field rules the schema cannot express.
func (c *Config) Check() error {
	if c.StartYear != 0 && c.UntilYear != 0 && c.StartYear >= c.UntilYear {
		return fmt.Errorf("%w: start_year %d must be before until_year %d", ErrInvalidConfig, c.StartYear, c.UntilYear)
	}
	seen := make(map[string]bool, len(c.SyntheticZones))
	for _, z := range c.SyntheticZones {
		if seen[z.Name] {
			return fmt.Errorf("%w: synthetic zone %q defined twice", ErrInvalidConfig, z.Name)
		}
		seen[z.Name] = true
	}
	return nil
}

// Tables converts the synthetic zones into oracle tables.
func (c *Config) Tables() ([]*oracle.Table, error) {
	tables := make([]*oracle.Table, 0, len(c.SyntheticZones))
	for _, z := range c.SyntheticZones {
		tx := make([]oracle.Transition, 0, len(z.Transitions))
		for i, t := range z.Transitions {
			at, err := time.Parse(time.RFC3339, t.At)
			if err != nil {
				return nil, fmt.Errorf("%w: zone %s transition %d: %v", ErrInvalidConfig, z.Name, i, err)
			}
			tx = append(tx, oracle.Transition{At: at.Unix(), Period: t.Period.oracle()})
		}
		tables = append(tables, oracle.NewTable(z.Name, z.Initial.oracle(), tx))
	}
	return tables, nil
}

func (p Period) oracle() oracle.Period {
	return oracle.Period{Std: p.StdOffset, DST: p.DSTOffset, Abbrev: p.Abbrev}
}
