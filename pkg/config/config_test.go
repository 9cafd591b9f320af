package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ballotgrid.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvRedisURL, EnvMongoURI, EnvAddr} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[ballot]
paper = "legal"
columns = 2

[rotation]
strategy = "statutory"
start_letter = "K"
advance = true
cycle = 1

[calibration]
offset_mm_x = 1.5
offset_mm_y = -0.5

[cache]
backend = "none"
prefix = "county:franklin:"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ballot.Paper != "legal" || cfg.Ballot.Columns != 2 {
		t.Errorf("ballot = %+v", cfg.Ballot)
	}
	if cfg.Ballot.MeasureColumns != Default().Ballot.MeasureColumns {
		t.Errorf("unset measure_columns lost its default: %d", cfg.Ballot.MeasureColumns)
	}
	if cfg.Cache.Prefix != "county:franklin:" {
		t.Errorf("cache prefix = %q", cfg.Cache.Prefix)
	}
	if want := (grid.Calibration{OffsetMmX: 1.5, OffsetMmY: -0.5}); cfg.Calibration != want {
		t.Errorf("calibration = %+v, want %+v", cfg.Calibration, want)
	}

	s, err := cfg.RotationStrategy()
	if err != nil {
		t.Fatalf("RotationStrategy: %v", err)
	}
	st, ok := s.(*rotation.Statutory)
	if !ok {
		t.Fatalf("strategy = %T, want *rotation.Statutory", s)
	}
	if want := (rotation.CycleOffsetRule{Letter: "K", Cycle: 1}); st.Rule != want {
		t.Errorf("rule = %#v, want %#v", st.Rule, want)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvAddr, ":9090")

	cfg, err := Load(writeConfig(t, "[cache]\nbackend = \"redis\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" || cfg.Server.Addr != ":9090" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Cache, cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[ballot]\ncolour = \"red\"\n"},
		{"bad paper", "[ballot]\npaper = \"a4\"\n"},
		{"bad strategy", "[rotation]\nstrategy = \"random\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n"},
		{"unknown store", "[store]\nbackend = \"s3\"\n"},
		{"zero capacity", "[oracle]\ncapacity = 0\n"},
		{"syntax", "[ballot\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config file accepted")
	}
}
