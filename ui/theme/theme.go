package theme

// Palette and style initialization for the FrameWatch windows.

import (
	"github.com/soocke/framewatch/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981"
	ColorWarning   = "#f59e0b"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"

	// HUD colours are fixed: the overlay floats above arbitrary content.
	ColorHUDBg = "#000000"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Warning   string
	Text      string
	TextMuted string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Border:    "#334155",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Accent:    "#10b981",
			Warning:   "#fbbf24",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Accent:    ColorAccent,
		Warning:   ColorWarning,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

// HealthColor maps a frame rate grade to its foreground colour.
func HealthColor(h config.Health) string {
	p := CurrentPalette()
	switch h {
	case config.HealthGood:
		return p.Accent
	case config.HealthWarning:
		return p.Warning
	default:
		return p.Danger
	}
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

// internal flag for current mode
var darkMode bool

// InitStyles (re)applies styles for the current darkMode value.
func InitStyles() { applyStyles() }

// SetDark toggles dark mode and reapplies styles. Returns new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles()
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles() {
	p := CurrentPalette()
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
