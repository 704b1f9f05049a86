package docs

import (
	"testing"

	"github.com/rhuss/aichat/pkg/config"
)

type staticFlags bool

func (f staticFlags) UseLocalDocs() bool { return bool(f) }

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  string
	}{
		{"local", staticFlags(true), LocalURL},
		{"remote", staticFlags(false), RemoteURL},
		{"nil flags", nil, RemoteURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Endpoint(tt.flags); got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEndpoint_ConfigStore(t *testing.T) {
	tests := []struct {
		useLocal string
		want     string
	}{
		{"1", LocalURL},
		{"true", LocalURL},
		{"", RemoteURL},
		{"0", RemoteURL},
		{"false", RemoteURL},
	}
	for _, tt := range tests {
		t.Run(tt.useLocal, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Docs.UseLocal = tt.useLocal
			if got := Endpoint(config.NewStore(&cfg)); got != tt.want {
				t.Errorf("Endpoint(use_local=%q) = %q, want %q", tt.useLocal, got, tt.want)
			}
		})
	}
}

func TestEndpoint_ReadsFlagEachCall(t *testing.T) {
	f := &toggle{}
	if got := Endpoint(f); got != RemoteURL {
		t.Errorf("first call = %q, want remote", got)
	}
	f.on = true
	if got := Endpoint(f); got != LocalURL {
		t.Errorf("second call = %q, want local", got)
	}
	if f.reads != 2 {
		t.Errorf("flag read %d times, want 2", f.reads)
	}
}

type toggle struct {
	on    bool
	reads int
}

func (t *toggle) UseLocalDocs() bool {
	t.reads++
	return t.on
}
