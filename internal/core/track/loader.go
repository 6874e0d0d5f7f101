package track

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/racetracks/internal/core/physics"
)

// Track loading errors
var (
	ErrNoWaypoints        = errors.New("track has no waypoints")
	ErrInvalidReachRadius = errors.New("track reach radius must be positive")
	ErrInvalidPoint       = errors.New("track point must have exactly two coordinates")
)

// Config is the on-disk description of a track.
type Config struct {
	Name         string      `yaml:"name"`
	ReachRadius  float64     `yaml:"reach_radius"`
	Start        []float64   `yaml:"start,omitempty"`
	StartHeading float64     `yaml:"start_heading,omitempty"`
	Waypoints    [][]float64 `yaml:"waypoints"`
}

// LoadYAML reads a track from r.
func LoadYAML(r io.Reader) (*Track, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode track: %w", err)
	}
	return c.Build()
}

// LoadFile reads a YAML track from path.
func LoadFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Build validates the config and converts it to a Track. Without an explicit
// start the cars line up on the first waypoint.
func (c *Config) Build() (*Track, error) {
	if len(c.Waypoints) == 0 {
		return nil, ErrNoWaypoints
	}
	if c.ReachRadius <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReachRadius, c.ReachRadius)
	}

	pts := make([]physics.Vec2, len(c.Waypoints))
	for i, p := range c.Waypoints {
		v, err := point(p)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		pts[i] = v
	}

	start := pts[0]
	if c.Start != nil {
		v, err := point(c.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		start = v
	}

	return &Track{
		Name:         c.Name,
		Points:       pts,
		ReachRadius:  c.ReachRadius,
		Start:        start,
		StartHeading: c.StartHeading,
	}, nil
}

func point(p []float64) (physics.Vec2, error) {
	if len(p) != 2 {
		return physics.Vec2{}, fmt.Errorf("%w: got %d", ErrInvalidPoint, len(p))
	}
	return physics.V(p[0], p[1]), nil
}
