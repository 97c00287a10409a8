package dicebox

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/restartfu/gophig"
	"github.com/smell-of-curry/dicebox/dicebox/die"
	"github.com/smell-of-curry/dicebox/dicebox/internal"
	"github.com/smell-of-curry/dicebox/dicebox/physics"
	"github.com/smell-of-curry/dicebox/dicebox/stats"
	"github.com/smell-of-curry/dicebox/dicebox/util"
)

// Config holds the dice box configuration, including the dice, the roll
// session and the physics of the arena.
type Config struct {
	DiceBox struct {
		SentryDsn    string
		LogLevel     string // Can be "debug", "info", "warn", "error"
		HTTPAddress  string
		Language     string
		Seed         int64 // 0 picks a fresh seed on every start
		AskDiceCount bool
	}
	Dice struct {
		Count    int
		MaxCount int

		Mass          float64
		Size          float64
		ThrowStrength float64
		ThrowTarget   PositionConfig

		SettleLinear  float64
		SettleAngular float64
		Margin        float64

		Spacing     float64
		SpawnHeight float64
	}
	Session struct {
		Debounce util.Duration
	}
	Physics physics.Config
}

// PositionConfig ...
type PositionConfig struct {
	X float64
	Y float64
	Z float64
}

// vec3 ...
func (x PositionConfig) vec3() mgl64.Vec3 {
	return mgl64.Vec3{x.X, x.Y, x.Z}
}

// DefaultConfig returns a config with prefilled default values.
func DefaultConfig() Config {
	c := Config{}

	c.DiceBox.SentryDsn = ""
	c.DiceBox.LogLevel = "info"
	c.DiceBox.HTTPAddress = ":8080"
	c.DiceBox.Language = "en"

	d := die.DefaultConfig()
	c.Dice.Count = 2
	c.Dice.MaxCount = 6
	c.Dice.Mass = d.Mass
	c.Dice.Size = d.Size
	c.Dice.ThrowStrength = d.ThrowStrength
	c.Dice.ThrowTarget = PositionConfig{X: d.ThrowTarget[0], Y: d.ThrowTarget[1], Z: d.ThrowTarget[2]}
	c.Dice.SettleLinear = d.SettleLinear
	c.Dice.SettleAngular = d.SettleAngular
	c.Dice.Margin = d.Margin
	c.Dice.Spacing = 3
	c.Dice.SpawnHeight = 1

	c.Session.Debounce = util.Duration(500 * time.Millisecond)

	c.Physics = physics.DefaultConfig()

	return c
}

// DieConfig returns the part of the configuration every die is built from.
func (c Config) DieConfig() die.Config {
	return die.Config{
		Mass:          c.Dice.Mass,
		Size:          c.Dice.Size,
		ThrowStrength: c.Dice.ThrowStrength,
		ThrowTarget:   c.Dice.ThrowTarget.vec3(),
		SettleLinear:  c.Dice.SettleLinear,
		SettleAngular: c.Dice.SettleAngular,
		Margin:        c.Dice.Margin,
	}
}

// SimulationConfig returns the configuration of a headless run with the same
// dice and arena.
func (c Config) SimulationConfig() stats.Config {
	return stats.Config{
		Physics:     c.Physics,
		Die:         c.DieConfig(),
		Count:       c.Dice.Count,
		Spacing:     c.Dice.Spacing,
		SpawnHeight: c.Dice.SpawnHeight,
		Debounce:    c.Session.Debounce.Seconds(),
		MaxSteps:    internal.SimulationStepBudget,
	}
}

// ParseLogLevel returns the appropriate slog.Level based on string configuration.
// Returns an error if the provided log level string is not recognized.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unrecognized log level: %q", level)
	}
}

// ReadConfig loads the configuration from config.toml.
// If the file doesn't exist, it creates a new one with default values.
func ReadConfig() (Config, error) {
	return readConfig("./config.toml")
}

// readConfig ...
func readConfig(path string) (Config, error) {
	g := gophig.NewGophig[Config](path, gophig.TOMLMarshaler{}, os.ModePerm)
	_, err := g.LoadConf()
	if os.IsNotExist(err) {
		if err = g.SaveConf(DefaultConfig()); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
	}
	c, err := g.LoadConf()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return c, nil
}
