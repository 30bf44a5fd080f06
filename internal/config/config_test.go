package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tzvalidate/internal/oracle"
)

const validYAML = `
start_year: 2000
until_year: 2010
epoch_year: 1970
sampling_interval_hours: 22
sort: true
workers: 4
oracle:
  backend: table
output:
  jsonl: samples.jsonl
  greptime:
    endpoint: localhost:4001
synthetic_zones:
  - name: Test/Shift
    initial:
      std_offset: 0
      abbrev: UTC
    transitions:
      - at: "2005-06-01T00:00:00Z"
        std_offset: 3600
        abbrev: CET
  - name: Test/Silent
    initial:
      std_offset: 0
      dst_offset: 3600
      abbrev: XST
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeFile(t, "run.yaml", validYAML)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.StartYear != 2000 || cfg.UntilYear != 2010 || cfg.Workers != 4 || !cfg.Sort {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Oracle.Backend != BackendTable {
		t.Fatalf("backend = %q", cfg.Oracle.Backend)
	}
	if len(cfg.SyntheticZones) != 2 || cfg.SyntheticZones[0].Transitions[0].StdOffset != 3600 {
		t.Fatalf("unexpected synthetic zones: %+v", cfg.SyntheticZones)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "start_year: 2000\nfleets: []\n",
		"bad backend":     "oracle:\n  backend: icu\n",
		"bad interval":    "sampling_interval_hours: 0\n",
		"offset too big":  "synthetic_zones:\n  - name: X\n    initial:\n      std_offset: 90000\n",
		"wrong year type": "start_year: soon\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name+".yaml", []byte(doc), nil)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseCrossFieldChecks(t *testing.T) {
	_, err := Parse("years.yaml", []byte("start_year: 2010\nuntil_year: 2000\n"), nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	dup := "synthetic_zones:\n  - name: X\n    initial: {std_offset: 0}\n  - name: X\n    initial: {std_offset: 0}\n"
	if _, err := Parse("dup.yaml", []byte(dup), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadCustomSchema(t *testing.T) {
	schema := writeFile(t, "strict.cue", "#Config: {start_year: 2000}\n")
	ok := writeFile(t, "ok.yaml", "start_year: 2000\n")
	if _, err := Load(ok, schema); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	bad := writeFile(t, "bad.yaml", "start_year: 2001\n")
	if _, err := Load(bad, schema); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	noDef := writeFile(t, "nodef.cue", "x: 1\n")
	if _, err := Load(ok, noDef); err == nil {
		t.Fatalf("expected error for schema without #Config")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "db:5001")
	t.Setenv("GREPTIMEDB_DATABASE", "tz")
	t.Setenv("GREPTIMEDB_TABLE", "samples")
	cfg, err := Parse("env.yaml", []byte(validYAML), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := cfg.Output.Greptime
	if g.Endpoint != "db:5001" || g.Database != "tz" || g.Table != "samples" {
		t.Fatalf("env not applied: %+v", g)
	}
}

func TestTables(t *testing.T) {
	cfg, err := Parse("run.yaml", []byte(validYAML), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tables, err := cfg.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 2 || tables[0].Name() != "Test/Shift" {
		t.Fatalf("unexpected tables")
	}
	const shift = 1117584000 // 2005-06-01T00:00:00Z
	before, _ := tables[0].OffsetsAt(shift - 1)
	after, _ := tables[0].OffsetsAt(shift)
	if before != (oracle.Offsets{Total: 0, Abbrev: "UTC"}) || after != (oracle.Offsets{Total: 3600, Abbrev: "CET"}) {
		t.Fatalf("offsets = %+v / %+v", before, after)
	}
	silent, _ := tables[1].OffsetsAt(0)
	if silent.DST != 3600 || silent.Total != 3600 {
		t.Fatalf("silent offsets = %+v", silent)
	}
}

func TestTablesBadInstant(t *testing.T) {
	cfg := &Config{SyntheticZones: []SyntheticZone{{
		Name:        "X",
		Transitions: []Transition{{At: "2005-06-01T00:00:00"}},
	}}}
	if _, err := cfg.Tables(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
