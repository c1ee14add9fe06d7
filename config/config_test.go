package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPresets(t *testing.T) {
	if DefaultConfig().FPSTarget != 50 || LowPower().FPSTarget != 30 || HighPerformance().FPSTarget != 60 {
		t.Fatalf("unexpected preset targets: %d %d %d", DefaultConfig().FPSTarget, LowPower().FPSTarget, HighPerformance().FPSTarget)
	}
	if got := LowPower().FrameDropThreshold(); got != 1.0/30.0 {
		t.Fatalf("expected 1/30 threshold, got %v", got)
	}
}

func TestHealthFor(t *testing.T) {
	c := DefaultConfig()
	cases := []struct {
		fps  float64
		want Health
	}{
		{50, HealthGood},
		{45, HealthGood},
		{40, HealthWarning},
		{15, HealthCritical},
	}
	for _, tc := range cases {
		if got := c.HealthFor(tc.fps); got != tc.want {
			t.Fatalf("HealthFor(%v) = %v, want %v", tc.fps, got, tc.want)
		}
	}
}

func TestValidateClamps(t *testing.T) {
	c := &Config{FPSTarget: -1, RefreshRate: 0, JPEGQuality: 500, MaxSnapshotDimension: -5}
	_ = c.Validate()
	if c.FPSTarget != DefaultFPSTarget || c.RefreshRate != 60 || c.JPEGQuality != 70 || c.MaxSnapshotDimension != 0 {
		t.Fatalf("validate did not clamp: %+v", c)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framewatch.yaml")
	body := "fps_target: 30\ncapture_screenshots: false\nscreenshot_directory: /data/shots\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRAMEWATCH_FPS_TARGET", "60")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FPSTarget != 60 {
		t.Fatalf("env should override file, got fps_target=%d", cfg.FPSTarget)
	}
	if cfg.CaptureScreenshots || cfg.ScreenshotDirectory != "/data/shots" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.ShowOverlay {
		t.Fatalf("defaults lost for unset keys: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framewatch.yaml")
	want := LowPower()
	want.PrintFPS = false
	want.JPEGQuality = 85
	if err := want.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestResolveDirectory(t *testing.T) {
	base := t.TempDir()
	c := DefaultConfig()
	c.ScreenshotDirectory = base
	dir, err := ResolveDirectory(c)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dir != filepath.Join(base, DirName) {
		t.Fatalf("unexpected dir %q", dir)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
