// Package options defines the wind layer's configuration record and the
// merge of partial updates onto it.
package options

import (
	"fmt"
	"log/slog"

	"github.com/brunoga/deep"
)

// Range is a closed [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp restricts x to the range.
func (r Range) Clamp(x float64) float64 {
	if x < r.Min {
		return r.Min
	}
	if x > r.Max {
		return r.Max
	}
	return x
}

// Lerp maps t in [0,1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// Options is an immutable snapshot of the layer configuration. Snapshots
// are replaced, never edited: use Merge to derive a new one.
type Options struct {
	// ParticlesTextureSize is the side of the particle state texture;
	// the particle count is its square.
	ParticlesTextureSize int `yaml:"particles_texture_size"`
	// ParticleHeight is the vertical offset of particles above the
	// surface, in meters.
	ParticleHeight float64 `yaml:"particle_height"`
	// DropRate is the per-step probability that a particle respawns.
	DropRate float64 `yaml:"drop_rate"`
	// DropRateBump is added to DropRate in slow cells.
	DropRateBump float64 `yaml:"drop_rate_bump"`
	SpeedFactor  float64 `yaml:"speed_factor"`
	LineWidth    Range   `yaml:"line_width"`
	LineLength   Range   `yaml:"line_length"`
	// Colors is the color ramp, slowest first.
	Colors          []string `yaml:"colors"`
	FlipY           bool     `yaml:"flip_y"`
	UseViewerBounds bool     `yaml:"use_viewer_bounds"`
	// Domain is the speed range mapped onto the color ramp. Nil means the
	// field's own speed range.
	Domain *Range `yaml:"domain,omitempty"`
	// DisplayRange hides particles whose speed falls outside it.
	DisplayRange *Range `yaml:"display_range,omitempty"`
	// Dynamic animates particles; false freezes them in place.
	Dynamic bool `yaml:"dynamic"`
}

// Defaults returns the default option snapshot.
func Defaults() Options {
	return Options{
		ParticlesTextureSize: 100,
		ParticleHeight:       1000,
		DropRate:             0.003,
		DropRateBump:         0.001,
		SpeedFactor:          1.0,
		LineWidth:            Range{Min: 1, Max: 2},
		LineLength:           Range{Min: 20, Max: 100},
		Colors:               []string{"white"},
		FlipY:                false,
		UseViewerBounds:      false,
		Dynamic:              true,
	}
}

// Clone returns a deep copy so the snapshot can be handed to another owner.
func (o Options) Clone() Options {
	return deep.MustCopy(o)
}

// ParticleCount returns the number of particles implied by the texture size.
func (o Options) ParticleCount() int {
	return o.ParticlesTextureSize * o.ParticlesTextureSize
}

// Validate reports option values the engine cannot honor.
func (o Options) Validate() error {
	if o.ParticlesTextureSize <= 0 {
		return fmt.Errorf("particles_texture_size must be positive, got %d", o.ParticlesTextureSize)
	}
	if o.DropRate < 0 || o.DropRate > 1 {
		return fmt.Errorf("drop_rate must be in [0, 1], got %g", o.DropRate)
	}
	if o.DropRateBump < 0 {
		return fmt.Errorf("drop_rate_bump must not be negative, got %g", o.DropRateBump)
	}
	if o.SpeedFactor < 0 {
		return fmt.Errorf("speed_factor must not be negative, got %g", o.SpeedFactor)
	}
	if o.LineWidth.Min > o.LineWidth.Max {
		return fmt.Errorf("line_width min %g exceeds max %g", o.LineWidth.Min, o.LineWidth.Max)
	}
	if o.LineLength.Min > o.LineLength.Max {
		return fmt.Errorf("line_length min %g exceeds max %g", o.LineLength.Min, o.LineLength.Max)
	}
	if len(o.Colors) == 0 {
		return fmt.Errorf("colors must not be empty")
	}
	if _, err := o.Ramp(); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	if o.Domain != nil && o.Domain.Min >= o.Domain.Max {
		return fmt.Errorf("domain min %g must be below max %g", o.Domain.Min, o.Domain.Max)
	}
	if o.DisplayRange != nil && o.DisplayRange.Min > o.DisplayRange.Max {
		return fmt.Errorf("display_range min %g exceeds max %g", o.DisplayRange.Min, o.DisplayRange.Max)
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (o Options) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("particles_texture_size", o.ParticlesTextureSize),
		slog.Float64("drop_rate", o.DropRate),
		slog.Float64("drop_rate_bump", o.DropRateBump),
		slog.Float64("speed_factor", o.SpeedFactor),
		slog.Any("colors", o.Colors),
		slog.Bool("flip_y", o.FlipY),
		slog.Bool("use_viewer_bounds", o.UseViewerBounds),
		slog.Bool("dynamic", o.Dynamic),
	}
	if o.Domain != nil {
		attrs = append(attrs, slog.Float64("domain_min", o.Domain.Min), slog.Float64("domain_max", o.Domain.Max))
	}
	return slog.GroupValue(attrs...)
}
