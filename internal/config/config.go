package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"
)

// Telemetry source names.
const (
	SourceSynthetic = "synthetic"
	SourceGRPC      = "grpc"
)

// Config holds all application configuration.
type Config struct {
	Window    WindowConfig
	HUD       HUDConfig
	Telemetry TelemetryConfig
}

// WindowConfig describes the output surface.
type WindowConfig struct {
	Width       int
	Height      int
	Title       string
	TPS         int // fixed frame rate target
	Decorated   bool
	Transparent bool
}

// HUDConfig holds the renderer's color, scales and layout offsets (pixels
// unless noted).
type HUDConfig struct {
	Color color.RGBA

	// Pitch ladder
	PitchScale         float64 // pixels per degree
	PitchMin           int
	PitchMax           int
	PitchStep          int
	MajorRungHalfWidth float64
	MinorRungHalfWidth float64
	RungThickness      float64
	LabelGapRight      float64
	LabelGapLeft       float64
	FontSize           float64
	HorizonHalfLength  float64
	HorizonThickness   float64

	// Heading tape
	HeadingScale        float64 // pixels per degree
	TapeInset           float64 // baseline distance from the bottom edge
	HeadingMin          int
	HeadingMax          int
	HeadingStep         int
	MajorTickLength     float64
	MinorTickLength     float64
	HeadingLabelEvery   int
	HeadingLabelOffsetX float64
	HeadingLabelOffsetY float64
	LineThickness       float64

	// Flight path marker
	MarkerRadius    float64
	MarkerWingSpan  float64
	MarkerStemSpan  float64
	MarkerThickness float64
}

// TelemetryConfig selects and tunes the attitude source.
type TelemetryConfig struct {
	Source         string
	RatePerTick    float64 // degrees added per tick by the synthetic source
	Addr           string
	StaleThreshold time.Duration
	StreamInterval time.Duration
}

// Green is the default HUD color.
var Green = color.RGBA{R: 0, G: 228, B: 48, A: 255}

// Default returns the built-in configuration: a 1920x1080 undecorated,
// transparent window at 60 TPS driven by the synthetic source.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:       1920,
			Height:      1080,
			Title:       "HUD",
			TPS:         60,
			Decorated:   false,
			Transparent: true,
		},
		HUD: HUDConfig{
			Color:               Green,
			PitchScale:          8,
			PitchMin:            -90,
			PitchMax:            90,
			PitchStep:           5,
			MajorRungHalfWidth:  60,
			MinorRungHalfWidth:  30,
			RungThickness:       2,
			LabelGapRight:       5,
			LabelGapLeft:        25,
			FontSize:            16,
			HorizonHalfLength:   2000,
			HorizonThickness:    3,
			HeadingScale:        5,
			TapeInset:           60,
			HeadingMin:          -180,
			HeadingMax:          180,
			HeadingStep:         5,
			MajorTickLength:     15,
			MinorTickLength:     8,
			HeadingLabelEvery:   30,
			HeadingLabelOffsetX: 10,
			HeadingLabelOffsetY: 30,
			LineThickness:       1,
			MarkerRadius:        20,
			MarkerWingSpan:      20,
			MarkerStemSpan:      10,
			MarkerThickness:     2,
		},
		Telemetry: TelemetryConfig{
			Source:         SourceSynthetic,
			RatePerTick:    0.01,
			Addr:           "localhost:10000",
			StaleThreshold: 2 * time.Second,
			StreamInterval: 16 * time.Millisecond,
		},
	}
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() Config {
	cfg := Default()

	cfg.Window.Width = getEnvInt("HUD_WIDTH", cfg.Window.Width)
	cfg.Window.Height = getEnvInt("HUD_HEIGHT", cfg.Window.Height)
	cfg.Window.Title = getEnvString("HUD_TITLE", cfg.Window.Title)
	cfg.Window.TPS = getEnvInt("HUD_TPS", cfg.Window.TPS)
	cfg.Window.Decorated = getEnvBool("HUD_DECORATED", cfg.Window.Decorated)
	cfg.Window.Transparent = getEnvBool("HUD_TRANSPARENT", cfg.Window.Transparent)

	cfg.HUD.Color = getEnvColor("HUD_COLOR", cfg.HUD.Color)
	cfg.HUD.PitchScale = getEnvFloat("HUD_PITCH_SCALE", cfg.HUD.PitchScale)
	cfg.HUD.HeadingScale = getEnvFloat("HUD_HEADING_SCALE", cfg.HUD.HeadingScale)

	cfg.Telemetry.Source = getEnvString("TELEMETRY_SOURCE", cfg.Telemetry.Source)
	cfg.Telemetry.RatePerTick = getEnvFloat("HUD_RATE", cfg.Telemetry.RatePerTick)
	cfg.Telemetry.Addr = getEnvString("TELEMETRY_ADDR", cfg.Telemetry.Addr)
	cfg.Telemetry.StaleThreshold = getEnvDuration("TELEMETRY_STALE_THRESHOLD", cfg.Telemetry.StaleThreshold)
	cfg.Telemetry.StreamInterval = getEnvDuration("TELEMETRY_INTERVAL", cfg.Telemetry.StreamInterval)

	return cfg
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate reports the first setting the application cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	}
	if c.HUD.PitchStep <= 0 || c.HUD.HeadingStep <= 0 || c.HUD.HeadingLabelEvery <= 0 {
		return fmt.Errorf("%w: ladder and tape steps must be positive", ErrInvalid)
	}
	switch c.Telemetry.Source {
	case SourceSynthetic, SourceGRPC:
	default:
		return fmt.Errorf("%w: telemetry source %q", ErrInvalid, c.Telemetry.Source)
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("config: color %q: want 6 or 8 hex digits", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvColor(key string, defaultVal color.RGBA) color.RGBA {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	c, err := ParseColor(v)
	if err != nil {
		return defaultVal
	}
	return c
}
