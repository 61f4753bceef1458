package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RangePartial is a partial Range; nil keys are left unchanged.
type RangePartial struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Partial is a partial options update. Nil fields keep the previous value.
type Partial struct {
	ParticlesTextureSize *int          `yaml:"particles_texture_size,omitempty"`
	ParticleHeight       *float64      `yaml:"particle_height,omitempty"`
	DropRate             *float64      `yaml:"drop_rate,omitempty"`
	DropRateBump         *float64      `yaml:"drop_rate_bump,omitempty"`
	SpeedFactor          *float64      `yaml:"speed_factor,omitempty"`
	LineWidth            *RangePartial `yaml:"line_width,omitempty"`
	LineLength           *RangePartial `yaml:"line_length,omitempty"`
	Colors               []string      `yaml:"colors,omitempty"`
	FlipY                *bool         `yaml:"flip_y,omitempty"`
	UseViewerBounds      *bool         `yaml:"use_viewer_bounds,omitempty"`
	Domain               *RangePartial `yaml:"domain,omitempty"`
	DisplayRange         *RangePartial `yaml:"display_range,omitempty"`
	Dynamic              *bool         `yaml:"dynamic,omitempty"`

	// ClearDomain and ClearDisplayRange drop the optional clamps. They are
	// applied before Domain/DisplayRange.
	ClearDomain       bool `yaml:"clear_domain,omitempty"`
	ClearDisplayRange bool `yaml:"clear_display_range,omitempty"`
}

// Ptr returns a pointer to v, for building partials inline.
func Ptr[T any](v T) *T { return &v }

// Merge returns a new snapshot with p applied over base. Scalars replace,
// nested ranges merge key by key, and Colors replaces the whole ramp. base
// is not modified.
func Merge(base Options, p Partial) Options {
	out := base.Clone()

	setIf(&out.ParticlesTextureSize, p.ParticlesTextureSize)
	setIf(&out.ParticleHeight, p.ParticleHeight)
	setIf(&out.DropRate, p.DropRate)
	setIf(&out.DropRateBump, p.DropRateBump)
	setIf(&out.SpeedFactor, p.SpeedFactor)
	out.LineWidth = mergeRange(out.LineWidth, p.LineWidth)
	out.LineLength = mergeRange(out.LineLength, p.LineLength)
	if p.Colors != nil {
		out.Colors = append([]string(nil), p.Colors...)
	}
	setIf(&out.FlipY, p.FlipY)
	setIf(&out.UseViewerBounds, p.UseViewerBounds)
	setIf(&out.Dynamic, p.Dynamic)

	if p.ClearDomain {
		out.Domain = nil
	}
	out.Domain = mergeOptionalRange(out.Domain, p.Domain)
	if p.ClearDisplayRange {
		out.DisplayRange = nil
	}
	out.DisplayRange = mergeOptionalRange(out.DisplayRange, p.DisplayRange)

	return out
}

// FromDefaults merges p over Defaults().
func FromDefaults(p Partial) Options {
	return Merge(Defaults(), p)
}

// LoadPartial reads a partial update from a YAML file.
func LoadPartial(path string) (Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Partial{}, fmt.Errorf("reading options file: %w", err)
	}
	var p Partial
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Partial{}, fmt.Errorf("parsing options file: %w", err)
	}
	return p, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func mergeRange(r Range, p *RangePartial) Range {
	if p == nil {
		return r
	}
	setIf(&r.Min, p.Min)
	setIf(&r.Max, p.Max)
	return r
}

// mergeOptionalRange starts an absent range from {0, 0}.
func mergeOptionalRange(r *Range, p *RangePartial) *Range {
	if p == nil {
		return r
	}
	var base Range
	if r != nil {
		base = *r
	}
	merged := mergeRange(base, p)
	return &merged
}
