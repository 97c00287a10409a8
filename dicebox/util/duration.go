package util

import (
	"fmt"
	"strings"
	"time"
)

// Duration is a time.Duration stored as text, "500ms", in config files.
type Duration time.Duration

// UnmarshalText ...
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: cannot parse %q: %w", s, err)
	}
	if dur < 0 {
		return fmt.Errorf("duration: %q is negative", s)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText ...
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Seconds returns d as floating-point seconds, the time unit the simulation
// steps in.
func (d Duration) Seconds() float64 {
	return time.Duration(d).Seconds()
}
