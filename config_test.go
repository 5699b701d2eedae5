package main

import (
	"flag"
	"io"
	"testing"
	"time"
)

func parseFlags(t *testing.T, args ...string) (*config, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("sidetone", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg := newConfig(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cfg, fs
}

func TestConfigDefaults(t *testing.T) {
	cfg, _ := parseFlags(t)
	if cfg.sink != "portaudio" || cfg.freq != 800 || cfg.ctrlChan != 1 || cfg.cwChan != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.speedPin != -1 || cfg.volPin != -1 || cfg.pitchPin != -1 {
		t.Error("pots should be disabled by default")
	}
	if want, got := 6*time.Millisecond, cfg.hang; want != got {
		t.Errorf("want hang %v, got %v", want, got)
	}
}

func TestApplyProfile(t *testing.T) {
	cfg, fs := parseFlags(t, "-profile", "teensy4-mqs", "-vol-steps", "21", "-sink", "null")
	if err := applyProfile(cfg.profile, fs); err != nil {
		t.Fatal(err)
	}
	if want, got := 21, cfg.volSteps; want != got {
		t.Errorf("explicit flag should win over the profile: want %v, got %v", want, got)
	}
	if want, got := "null", cfg.sink; want != got {
		t.Errorf("explicit flag should win over the profile: want %v, got %v", want, got)
	}
	if cfg.speedPin != 0 || cfg.volPin != 1 || !cfg.muteOnPTT {
		t.Errorf("profile values not applied: %+v", cfg)
	}
}

func TestApplyUnknownProfile(t *testing.T) {
	_, fs := parseFlags(t)
	if err := applyProfile("nope", fs); err == nil {
		t.Error("want error for an unknown profile")
	}
}

func TestProfilesValid(t *testing.T) {
	for _, name := range profileNames() {
		_, fs := parseFlags(t)
		if err := applyProfile(name, fs); err != nil {
			t.Errorf("profile %s: %v", name, err)
		}
	}
}
