package dicebox

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/dicebox/dicebox/die"
	"github.com/smell-of-curry/dicebox/dicebox/util"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaultConfig_DieConfig(t *testing.T) {
	if got := DefaultConfig().DieConfig(); got != die.DefaultConfig() {
		t.Errorf("expected default die config, got %+v", got)
	}
}

func TestConfig_SimulationConfig(t *testing.T) {
	c := DefaultConfig()
	c.Dice.Count = 4
	c.Dice.ThrowTarget = PositionConfig{X: 1, Y: 2, Z: 3}

	s := c.SimulationConfig()
	if s.Count != 4 || s.Debounce != 0.5 {
		t.Errorf("expected 4 dice and 0.5s debounce, got %d and %v", s.Count, s.Debounce)
	}
	if s.Die.ThrowTarget != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("expected throw target carried over, got %v", s.Die.ThrowTarget)
	}
	if s.MaxSteps <= 0 {
		t.Error("expected a step budget")
	}
}

func TestReadConfig_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	c, err := readConfig(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if c.Dice.Count != 2 || c.DiceBox.HTTPAddress != ":8080" {
		t.Errorf("expected defaults, got %+v", c.DiceBox)
	}
	if c.Session.Debounce != util.Duration(500*time.Millisecond) {
		t.Errorf("expected 500ms debounce, got %v", time.Duration(c.Session.Debounce))
	}
	if c.Physics.StepRate != 120 {
		t.Errorf("expected physics defaults, got %+v", c.Physics)
	}
}
