package orrery

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSceneYAML []byte

// Vec3 is a YAML-friendly float64 triple in high precision units.
type Vec3 [3]float64

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Log        LogConfig        `yaml:"log"`
	Shader     ShaderConfig     `yaml:"shader"`
	Bodies     []BodyConfig     `yaml:"bodies"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type SimulationConfig struct {
	TickRate     float64 `yaml:"tick_rate"`
	MaxFrameTime float64 `yaml:"max_frame_time"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	// TimeScale is simulated seconds per wall-clock second.
	TimeScale float64 `yaml:"time_scale"`
}

type CameraConfig struct {
	FovDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Position   Vec3       `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	Prefix   string `yaml:"prefix"`
}

type ShaderConfig struct {
	// Path overrides the embedded WGSL source when set.
	Path string `yaml:"path"`
}

type SamplerConfig struct {
	WrapU     string `yaml:"wrap_u"`
	WrapV     string `yaml:"wrap_v"`
	MinFilter string `yaml:"min_filter"`
	MagFilter string `yaml:"mag_filter"`
}

type OrbitConfig struct {
	Parent string  `yaml:"parent"`
	Radius float64 `yaml:"radius"`
	// Period in seconds; negative periods orbit clockwise.
	Period      float64 `yaml:"period"`
	Phase       float64 `yaml:"phase"`       // degrees
	Inclination float64 `yaml:"inclination"` // degrees
}

type BodyConfig struct {
	Name         string        `yaml:"name"`
	Radius       float64       `yaml:"radius"`
	Mass         float64       `yaml:"mass"`
	Position     Vec3          `yaml:"position"`
	Rotation     Vec3          `yaml:"rotation"`
	Stacks       int           `yaml:"stacks"`
	Sectors      int           `yaml:"sectors"`
	DisplayScale float64       `yaml:"display_scale"`
	Color        [4]float32    `yaml:"color"`
	Emissive     bool          `yaml:"emissive"`
	Texture      string        `yaml:"texture"`
	Sampler      SamplerConfig `yaml:"sampler"`
	SpinPeriod   float64       `yaml:"spin_period"`
	Orbit        *OrbitConfig  `yaml:"orbit"`
}

const (
	DefaultTickRate     = 50.0
	DefaultMaxFrameTime = 0.25
	DefaultStacks       = 32
	DefaultSectors      = 64
)

// DefaultConfig is the base every file is decoded onto.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "Real Time Solar System",
		},
		Simulation: SimulationConfig{
			TickRate:     DefaultTickRate,
			MaxFrameTime: DefaultMaxFrameTime,
			ScaleFactor:  10000,
			TimeScale:    1,
		},
		Camera: CameraConfig{
			FovDegrees: 45,
			Near:       0.1,
			Far:        100000,
			Position:   Vec3{0, 0, 100000},
			Up:         [3]float32{0, 1, 0},
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			Prefix:   "orrery",
		},
	}
}

// DefaultSceneConfig parses the embedded default scene.
func DefaultSceneConfig() (*Config, error) {
	return ParseConfig(bytes.NewReader(defaultSceneYAML))
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewResourceError(ResourceConfig, path, err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		var re *ResourceError
		if errors.As(err, &re) {
			re.Name = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes YAML onto DefaultConfig, fills per-body defaults and
// validates the result.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, NewResourceError(ResourceConfig, "<reader>", err)
	}
	cfg.applyBodyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyBodyDefaults() {
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if b.Stacks == 0 {
			b.Stacks = DefaultStacks
		}
		if b.Sectors == 0 {
			b.Sectors = DefaultSectors
		}
		if b.DisplayScale == 0 {
			b.DisplayScale = 1
		}
		if b.Color == ([4]float32{}) {
			b.Color = [4]float32{1, 1, 1, 1}
		}
	}
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return InvalidArgumentf("window size %dx%d", c.Window.Width, c.Window.Height)
	}

	s := c.Simulation
	if !(s.TickRate > 0) || math.IsInf(s.TickRate, 0) {
		return InvalidArgumentf("simulation.tick_rate %v must be > 0", s.TickRate)
	}
	if !(s.MaxFrameTime > 0) {
		return InvalidArgumentf("simulation.max_frame_time %v must be > 0", s.MaxFrameTime)
	}
	if !(s.ScaleFactor >= 1) {
		return InvalidArgumentf("simulation.scale_factor %v must be >= 1", s.ScaleFactor)
	}
	if !(s.TimeScale > 0) {
		return InvalidArgumentf("simulation.time_scale %v must be > 0", s.TimeScale)
	}

	cam := c.Camera
	if !(cam.FovDegrees > 0 && cam.FovDegrees < 180) {
		return InvalidArgumentf("camera.fov_degrees %v out of (0, 180)", cam.FovDegrees)
	}
	if !(cam.Near > 0) || !(cam.Far > cam.Near) {
		return InvalidArgumentf("camera clip planes near=%v far=%v", cam.Near, cam.Far)
	}
	if cam.Up == ([3]float32{}) {
		return InvalidArgumentf("camera.up must be non-zero")
	}
	// Target is in render units; the eye is compared after scaling.
	eye := [3]float32{
		float32(cam.Position[0] / s.ScaleFactor),
		float32(cam.Position[1] / s.ScaleFactor),
		float32(cam.Position[2] / s.ScaleFactor),
	}
	if eye == cam.Target {
		return InvalidArgumentf("camera.position %v looks at itself", cam.Position)
	}

	switch c.Log.Level {
	case "", "debug", "info":
	default:
		return InvalidArgumentf("log.level %q (want debug or info)", c.Log.Level)
	}

	return c.validateBodies()
}

func (c *Config) validateBodies() error {
	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return InvalidArgumentf("bodies[%d] has no name", i)
		}
		if seen[b.Name] {
			return InvalidArgumentf("duplicate body name %q", b.Name)
		}
		seen[b.Name] = true

		if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
			return InvalidArgumentf("body %q radius %v must be finite and > 0", b.Name, b.Radius)
		}
		if b.Mass < 0 {
			return InvalidArgumentf("body %q mass %v must be >= 0", b.Name, b.Mass)
		}
		if b.Stacks < 3 {
			return InvalidArgumentf("body %q stacks %d must be >= 3", b.Name, b.Stacks)
		}
		if b.Sectors < 2 {
			return InvalidArgumentf("body %q sectors %d must be >= 2", b.Name, b.Sectors)
		}
		if !(b.DisplayScale > 0) || math.IsInf(b.DisplayScale, 0) {
			return InvalidArgumentf("body %q display_scale %v must be finite and > 0", b.Name, b.DisplayScale)
		}
		if err := validateSampler(b.Name, b.Sampler); err != nil {
			return err
		}
	}

	for _, b := range c.Bodies {
		if b.Orbit == nil {
			continue
		}
		o := b.Orbit
		if o.Parent == b.Name {
			return InvalidArgumentf("body %q orbits itself", b.Name)
		}
		if c.BodyIndex(o.Parent) < 0 {
			return InvalidArgumentf("body %q orbits unknown parent %q", b.Name, o.Parent)
		}
		if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
			return InvalidArgumentf("body %q orbit radius %v must be finite and > 0", b.Name, o.Radius)
		}
		if o.Period == 0 {
			return InvalidArgumentf("body %q orbit period must be non-zero", b.Name)
		}
	}

	// Parent chains must terminate.
	for _, b := range c.Bodies {
		cur := b
		for hops := 0; cur.Orbit != nil; hops++ {
			if hops >= len(c.Bodies) {
				return InvalidArgumentf("orbit cycle through body %q", b.Name)
			}
			cur = c.Bodies[c.BodyIndex(cur.Orbit.Parent)]
		}
	}
	return nil
}

func validateSampler(body string, s SamplerConfig) error {
	for _, w := range []string{s.WrapU, s.WrapV} {
		switch w {
		case "", "repeat", "mirror", "clamp":
		default:
			return InvalidArgumentf("body %q wrap mode %q", body, w)
		}
	}
	for _, f := range []string{s.MinFilter, s.MagFilter} {
		switch f {
		case "", "nearest", "linear":
		default:
			return InvalidArgumentf("body %q filter mode %q", body, f)
		}
	}
	return nil
}

// BodyIndex returns the position of the named body or -1.
func (c *Config) BodyIndex(name string) int {
	for i, b := range c.Bodies {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func (c *Config) String() string {
	return fmt.Sprintf("window=%dx%d tick=%vHz scale=%v bodies=%d",
		c.Window.Width, c.Window.Height, c.Simulation.TickRate, c.Simulation.ScaleFactor, len(c.Bodies))
}
