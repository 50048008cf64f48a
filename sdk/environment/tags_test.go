package environment_test

import (
	"testing"
	"time"

	"github.com/jrazmi/tasktracker/sdk/environment"
)

type nestedConfig struct {
	Window time.Duration `env:"WINDOW" default:"1m"`
}

type testConfig struct {
	Name    string        `env:"NAME" default:"tasks"`
	Port    int           `env:"PORT" default:"8080"`
	Debug   bool          `env:"DEBUG"`
	Timeout time.Duration `env:"TIMEOUT" default:"5s"`
	Origins []string      `env:"ORIGINS" separator:";"`
	Ratio   float64       `env:"RATIO" default:"0.5"`
	Nested  nestedConfig
	skipped string
}

func TestParseEnvTagsDefaults(t *testing.T) {
	var cfg testConfig
	if err := environment.ParseEnvTags("TT_DEFAULTS", &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Name != "tasks" || cfg.Port != 8080 || cfg.Debug {
		t.Fatalf("unexpected scalar defaults: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Origins != nil {
		t.Errorf("origins = %v, want nil", cfg.Origins)
	}
	if cfg.Ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", cfg.Ratio)
	}
	if cfg.Nested.Window != time.Minute {
		t.Errorf("nested window = %v, want 1m", cfg.Nested.Window)
	}
}

func TestParseEnvTagsFromEnvironment(t *testing.T) {
	t.Setenv("TT_ENV_NAME", "tracker")
	t.Setenv("TT_ENV_PORT", "9000")
	t.Setenv("TT_ENV_DEBUG", "true")
	t.Setenv("TT_ENV_ORIGINS", "http://a.test; http://b.test")
	t.Setenv("TT_ENV_WINDOW", "30s")

	var cfg testConfig
	if err := environment.ParseEnvTags("TT_ENV", &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Name != "tracker" || cfg.Port != 9000 || !cfg.Debug {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.Origins)
	}
	if cfg.Nested.Window != 30*time.Second {
		t.Errorf("nested window = %v, want 30s", cfg.Nested.Window)
	}
}

func TestParseEnvTagsRequired(t *testing.T) {
	var cfg struct {
		Secret string `env:"SECRET" required:"true"`
	}
	if err := environment.ParseEnvTags("TT_REQUIRED", &cfg); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestParseEnvTagsRejectsNonPointer(t *testing.T) {
	if err := environment.ParseEnvTags("", testConfig{}); err == nil {
		t.Fatal("expected error for non-pointer config")
	}
}
