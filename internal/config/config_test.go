package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Prediction.Interval != 15*time.Minute {
		t.Errorf("default interval = %v, want 15m", cfg.Prediction.Interval)
	}
	if len(cfg.Prediction.Areas) != len(defaultAreas) {
		t.Errorf("expected default monitored areas, got %d", len(cfg.Prediction.Areas))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PREDICTION_INTERVAL", "5m")
	t.Setenv("MONITORED_AREAS", "Pune,18.5204,73.8567; Surat,21.1702,72.8311")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Prediction.Interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", cfg.Prediction.Interval)
	}
	if len(cfg.Prediction.Areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(cfg.Prediction.Areas))
	}
	if cfg.Prediction.Areas[1].Name != "Surat" || cfg.Prediction.Areas[1].Lat != 21.1702 {
		t.Errorf("unexpected second area: %+v", cfg.Prediction.Areas[1])
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"interval too short", "PREDICTION_INTERVAL", "10s"},
		{"malformed area", "MONITORED_AREAS", "Pune,18.5204"},
		{"non-numeric latitude", "MONITORED_AREAS", "Pune,north,73.8567"},
		{"sid without AC prefix", "TWILIO_ACCOUNT_SID", "XX123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestParseAreasEmptyEntriesSkipped(t *testing.T) {
	areas, err := parseAreas("Pune,18.5204,73.8567;;")
	if err != nil {
		t.Fatalf("parseAreas: %v", err)
	}
	if len(areas) != 1 || areas[0].Name != "Pune" {
		t.Errorf("unexpected areas: %+v", areas)
	}
}

func TestParseAreasOnlySeparators(t *testing.T) {
	if _, err := parseAreas(";;"); err == nil {
		t.Error("expected error when no areas parse")
	}
}
