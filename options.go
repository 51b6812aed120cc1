package meshview

import (
	"fmt"
	"time"
)

// Frame buffering limits. Two is double buffering, three triple.
const (
	MinFrameCount = 2
	MaxFrameCount = 4
)

// Config holds everything the viewer needs to start.
// The zero value is not usable; start from DefaultConfig or NewConfig.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// FrameCount is the number of frames in flight (N).
	FrameCount int `yaml:"frames"`

	// Backend names a registered backend. Empty selects the best one.
	Backend string `yaml:"backend"`

	// Model is the path of the model file. Empty uses the built-in cube.
	Model string `yaml:"model"`

	// ShaderDir overrides the directory searched for shader sources.
	ShaderDir string `yaml:"shader_dir"`

	ClearColor [4]float64 `yaml:"clear_color"`

	// FenceTimeout bounds every blocking fence wait. Expiry is reported
	// as a device-lost failure. Zero waits forever.
	FenceTimeout time.Duration `yaml:"fence_timeout"`

	// RotateStep and MoveStep are the per-tick increments applied while
	// a key is held.
	RotateStep float32 `yaml:"rotate_step"`
	MoveStep   float32 `yaml:"move_step"`

	// DeltaTime scales the increments by elapsed wall time, normalized to
	// a 60 Hz tick. Off by default.
	DeltaTime bool `yaml:"delta_time"`

	// MaxFrames stops the loop after this many ticks. Zero runs until
	// the window closes.
	MaxFrames int `yaml:"max_frames"`
}

// Option configures a Config.
//
// Example:
//
//	cfg := meshview.NewConfig(
//	    meshview.WithSize(1280, 720),
//	    meshview.WithFrameCount(3),
//	)
type Option func(*Config)

// DefaultConfig returns the default configuration: an 800x600 window,
// double buffering and a 5 second fence timeout.
func DefaultConfig() Config {
	return Config{
		Title:        "meshview",
		Width:        800,
		Height:       600,
		FrameCount:   2,
		ClearColor:   [4]float64{0.0, 0.2, 0.4, 1.0},
		FenceTimeout: 5 * time.Second,
		RotateStep:   0.02,
		MoveStep:     0.05,
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithSize sets the surface size in pixels.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFrameCount sets the number of frames in flight.
func WithFrameCount(n int) Option {
	return func(c *Config) {
		c.FrameCount = n
	}
}

// WithBackend selects a backend by name.
func WithBackend(name string) Option {
	return func(c *Config) {
		c.Backend = name
	}
}

// WithModel sets the model file path.
func WithModel(path string) Option {
	return func(c *Config) {
		c.Model = path
	}
}

// WithFenceTimeout bounds fence waits.
func WithFenceTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.FenceTimeout = d
	}
}

// WithClearColor sets the background color.
func WithClearColor(r, g, b, a float64) Option {
	return func(c *Config) {
		c.ClearColor = [4]float64{r, g, b, a}
	}
}

// WithShaderDir sets the shader search directory.
func WithShaderDir(dir string) Option {
	return func(c *Config) {
		c.ShaderDir = dir
	}
}

// WithSteps sets the per-tick rotation and movement increments.
func WithSteps(rotate, move float32) Option {
	return func(c *Config) {
		c.RotateStep = rotate
		c.MoveStep = move
	}
}

// WithDeltaTime enables wall-clock scaling of input increments.
func WithDeltaTime(enabled bool) Option {
	return func(c *Config) {
		c.DeltaTime = enabled
	}
}

// WithMaxFrames stops the render loop after n ticks.
func WithMaxFrames(n int) Option {
	return func(c *Config) {
		c.MaxFrames = n
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FrameCount < MinFrameCount || c.FrameCount > MaxFrameCount:
		return fmt.Errorf("%w: frames %d not in [%d, %d]", ErrInvalidConfig, c.FrameCount, MinFrameCount, MaxFrameCount)
	case c.FenceTimeout < 0:
		return fmt.Errorf("%w: negative fence timeout %v", ErrInvalidConfig, c.FenceTimeout)
	case c.RotateStep < 0 || c.MoveStep < 0:
		return fmt.Errorf("%w: negative step", ErrInvalidConfig)
	case c.MaxFrames < 0:
		return fmt.Errorf("%w: negative max frames", ErrInvalidConfig)
	}
	return nil
}
