package space_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/space/observability"
	"github.com/tailored-agentic-units/space/space"
	"github.com/tailored-agentic-units/space/value"
)

func TestDefaultConfig(t *testing.T) {
	cfg := space.DefaultConfig()

	if cfg.Observer != "noop" {
		t.Errorf("Observer = %q, want noop", cfg.Observer)
	}
	if cfg.Notify != "propagate" {
		t.Errorf("Notify = %q, want propagate", cfg.Notify)
	}
}

func TestConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		source space.Config
		want   space.Config
	}{
		{
			name:   "empty source keeps defaults",
			source: space.Config{},
			want:   space.Config{Observer: "noop", Notify: "propagate"},
		},
		{
			name:   "observer override",
			source: space.Config{Observer: "slog"},
			want:   space.Config{Observer: "slog", Notify: "propagate"},
		},
		{
			name:   "notify override",
			source: space.Config{Notify: "origin"},
			want:   space.Config{Observer: "noop", Notify: "origin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := space.DefaultConfig()
			cfg.Merge(&tt.source)
			if cfg != tt.want {
				t.Errorf("Merge = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestParseNotifyPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    space.NotifyPolicy
		wantErr bool
	}{
		{in: "", want: space.NotifyPropagate},
		{in: "propagate", want: space.NotifyPropagate},
		{in: "origin", want: space.NotifyOrigin},
		{in: "everywhere", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := space.ParseNotifyPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNotifyPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseNotifyPolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "space.json")
	if err := os.WriteFile(path, []byte(`{"notify":"origin"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := space.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Observer != "noop" || cfg.Notify != "origin" {
		t.Errorf("LoadConfig = %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := space.LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadConfig should fail for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := space.LoadConfig(bad); err == nil {
		t.Error("LoadConfig should fail for invalid JSON")
	}
}

func TestNewFromConfig(t *testing.T) {
	rec := observability.NewRecorder()
	observability.Register("space-config-test", rec)

	cfg := space.Config{Observer: "space-config-test"}
	s, err := space.NewFromConfig(&cfg, value.MustParse(`{"a":1}`))
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	assertState(t, s, `{"a":1}`)
	if len(rec.OfType(space.EventSpaceCreate)) != 1 {
		t.Error("configured observer should receive space.create")
	}
}

func TestNewFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  space.Config
	}{
		{name: "unknown observer", cfg: space.Config{Observer: "does-not-exist"}},
		{name: "unknown policy", cfg: space.Config{Notify: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := space.NewFromConfig(&tt.cfg, value.Null()); err == nil {
				t.Error("NewFromConfig should fail")
			}
		})
	}
}
