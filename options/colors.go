package options

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor accepts a CSS color name or a #rgb / #rrggbb hex string.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// Ramp parses Colors.
func (o Options) Ramp() ([]color.RGBA, error) {
	ramp := make([]color.RGBA, len(o.Colors))
	for i, s := range o.Colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		ramp[i] = c
	}
	return ramp, nil
}

// Blend interpolates the ramp in Lab space at t in [0, 1].
func Blend(ramp []color.RGBA, t float64) color.RGBA {
	switch len(ramp) {
	case 0:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case 1:
		return ramp[0]
	}
	t = Range{Min: 0, Max: 1}.Clamp(t)
	pos := t * float64(len(ramp)-1)
	i := min(int(pos), len(ramp)-2)
	a, _ := colorful.MakeColor(ramp[i])
	b, _ := colorful.MakeColor(ramp[i+1])
	r, g, bl := a.BlendLab(b, pos-float64(i)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}
