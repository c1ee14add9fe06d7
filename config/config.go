package config

// Config holds runtime configuration for frame monitoring and capture.
// Fields may be loaded from a YAML file and overridden by FRAMEWATCH_* env vars
// (see Load).
type Config struct {
	Debug bool `koanf:"debug"`

	// Sampling
	FPSTarget   int  `koanf:"fps_target"`   // frames per second a healthy window should reach
	RefreshRate int  `koanf:"refresh_rate"` // Hz of the software refresh source
	PrintFPS    bool `koanf:"print_fps"`
	ShowOverlay bool `koanf:"show_overlay"`

	// Capture
	CaptureScreenshots   bool   `koanf:"capture_screenshots"`
	ScreenshotDirectory  string `koanf:"screenshot_directory"` // empty selects the XDG data dir
	JPEGQuality          int    `koanf:"jpeg_quality"`
	MaxSnapshotDimension int    `koanf:"max_snapshot_dimension"` // 0 keeps the native size
}

// Preset targets.
const (
	DefaultFPSTarget         = 50
	HighPerformanceFPSTarget = 60
	LowPowerFPSTarget        = 30
)

// DefaultConfig returns a Config balanced for modern displays (50 FPS budget).
func DefaultConfig() *Config {
	return &Config{
		Debug:                false,
		FPSTarget:            DefaultFPSTarget,
		RefreshRate:          60,
		PrintFPS:             true,
		ShowOverlay:          true,
		CaptureScreenshots:   true,
		ScreenshotDirectory:  "",
		JPEGQuality:          70,
		MaxSnapshotDimension: 0,
	}
}

// HighPerformance targets animation-heavy hosts (60 FPS).
func HighPerformance() *Config {
	c := DefaultConfig()
	c.FPSTarget = HighPerformanceFPSTarget
	return c
}

// LowPower relaxes the budget for low-end devices (30 FPS).
func LowPower() *Config {
	c := DefaultConfig()
	c.FPSTarget = LowPowerFPSTarget
	return c
}

// FrameDropThreshold is the per-frame time budget in seconds.
func (c *Config) FrameDropThreshold() float64 {
	if c == nil || c.FPSTarget <= 0 {
		return 1.0 / DefaultFPSTarget
	}
	return 1.0 / float64(c.FPSTarget)
}

// Health grades a measured frame rate against the target.
type Health int

const (
	HealthGood Health = iota
	HealthWarning
	HealthCritical
)

func (h Health) String() string {
	switch h {
	case HealthGood:
		return "good"
	case HealthWarning:
		return "warning"
	default:
		return "critical"
	}
}

// HealthFor grades fps: at least 90% of target is good, at least 75% a warning.
func (c *Config) HealthFor(fps float64) Health {
	target := DefaultFPSTarget
	if c != nil && c.FPSTarget > 0 {
		target = c.FPSTarget
	}
	p := fps / float64(target)
	switch {
	case p >= 0.9:
		return HealthGood
	case p >= 0.75:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.FPSTarget <= 0 {
		c.FPSTarget = DefaultFPSTarget
	}
	if c.RefreshRate <= 0 {
		c.RefreshRate = 60
	}
	if c.RefreshRate > 1000 {
		c.RefreshRate = 1000
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 70
	}
	if c.MaxSnapshotDimension < 0 {
		c.MaxSnapshotDimension = 0
	}
	return nil
}
