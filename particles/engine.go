// Package particles is a CPU particle engine for the wind layer. Particles
// are ECS entities advected through the current field.
package particles

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/windlayer/components"
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/layer"
	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/scene"
	"github.com/pthm-cable/windlayer/viewport"
)

const (
	// DegreesPerUnit is how far one unit of wind moves a particle per step
	// at full zoom-out with SpeedFactor 1.
	DegreesPerUnit = 0.01

	// TrailSpacing is the nominal screen distance between trail points,
	// used to turn LineLength into a point count.
	TrailSpacing = 4.0

	spawnAttempts = 8
	minCosLat     = 0.2
)

// Context configures engine creation through the layer's render context.
type Context struct {
	Seed int64
}

// Counters tally respawn causes since the engine was created.
type Counters struct {
	Steps       int
	Drops       int
	OutOfBounds int
	Masked      int
}

// Engine advects particles through a wind field.
type Engine struct {
	world    *ecs.World
	mapper   *ecs.Map5[components.Position, components.Wind, components.Trail, components.Style, components.Age]
	filter   *ecs.Filter5[components.Position, components.Wind, components.Trail, components.Style, components.Age]
	entities []ecs.Entity

	field *field.Field
	opts  options.Options
	vp    viewport.State
	rng   *rand.Rand

	trails  *Trails
	outline *Outline

	counters  Counters
	destroyed bool
}

// Factory builds engines for layer.New. ctx may be nil or a Context.
func Factory(ctx layer.RenderContext, f *field.Field, o options.Options, vp viewport.State, _ scene.Host) (layer.Engine, error) {
	seed := time.Now().UnixNano()
	switch c := ctx.(type) {
	case nil:
	case Context:
		seed = c.Seed
	case *Context:
		seed = c.Seed
	default:
		return nil, fmt.Errorf("unsupported render context %T", ctx)
	}
	return New(f, o, vp, seed), nil
}

// New creates an engine with o.ParticleCount() particles spawned over the
// field.
func New(f *field.Field, o options.Options, vp viewport.State, seed int64) *Engine {
	world := ecs.NewWorld()
	e := &Engine{
		world:   world,
		mapper:  ecs.NewMap5[components.Position, components.Wind, components.Trail, components.Style, components.Age](world),
		filter:  ecs.NewFilter5[components.Position, components.Wind, components.Trail, components.Style, components.Age](world),
		field:   f,
		opts:    o,
		vp:      vp,
		rng:     rand.New(rand.NewSource(seed)),
		trails:  &Trails{show: true, Colors: o.Colors, Height: o.ParticleHeight},
		outline: &Outline{show: true, Bounds: f.Bounds},
	}
	e.resize(o.ParticleCount())
	e.render()
	return e
}

// Drawables returns the trail and outline drawables.
func (e *Engine) Drawables() []scene.Drawable {
	return []scene.Drawable{e.trails, e.outline}
}

// Trails returns the trail drawable.
func (e *Engine) Trails() *Trails {
	return e.trails
}

// Count returns the number of live particles.
func (e *Engine) Count() int {
	return len(e.entities)
}

// Counters returns the respawn tallies.
func (e *Engine) Counters() Counters {
	return e.counters
}

// Positions appends every particle position to dst and returns it.
func (e *Engine) Positions(dst []components.Position) []components.Position {
	query := e.filter.Query()
	for query.Next() {
		pos, _, _, _, _ := query.Get()
		dst = append(dst, *pos)
	}
	return dst
}

// Speeds appends the wind speed under every particle to dst.
func (e *Engine) Speeds(dst []float64) []float64 {
	query := e.filter.Query()
	for query.Next() {
		_, wind, _, _, _ := query.Get()
		dst = append(dst, wind.Speed)
	}
	return dst
}

// Step advances every particle one step and rebuilds the trails. With
// Dynamic off only the trails are rebuilt.
func (e *Engine) Step() {
	if e.destroyed {
		return
	}
	if e.opts.Dynamic {
		scale := e.stepScale()
		query := e.filter.Query()
		for query.Next() {
			pos, wind, trail, _, age := query.Get()
			e.advance(pos, wind, trail, age, scale)
		}
		e.counters.Steps++
	}
	e.render()
}

// stepScale is degrees moved per wind unit this step. It shrinks as the
// visible fraction of the field shrinks so screen speed stays steady.
func (e *Engine) stepScale() float64 {
	ps := e.vp.PixelSize
	if ps <= 0 {
		ps = viewport.MaxPixelSize
	}
	return DegreesPerUnit * e.opts.SpeedFactor * ps / viewport.MaxPixelSize
}

func (e *Engine) advance(pos *components.Position, wind *components.Wind, trail *components.Trail, age *components.Age, scale float64) {
	r, ok := field.Query(e.field, e.opts.FlipY, pos.Lon, pos.Lat)
	if !ok {
		e.counters.OutOfBounds++
		e.respawn(pos, wind, trail, age)
		return
	}
	if r.Mask == 0 {
		e.counters.Masked++
		e.respawn(pos, wind, trail, age)
		return
	}
	e.setWind(wind, r.Interpolated)

	drop := e.opts.DropRate + e.opts.DropRateBump*(1-wind.SpeedT)
	if e.rng.Float64() < drop {
		e.counters.Drops++
		e.respawn(pos, wind, trail, age)
		return
	}

	trail.Push(*pos)
	cos := math.Max(math.Cos(pos.Lat*math.Pi/180), minCosLat)
	pos.Lon += wind.U * scale / cos
	pos.Lat += wind.V * scale
	age.Steps++

	if !e.field.Bounds.Contains(pos.Lon, pos.Lat) {
		e.counters.OutOfBounds++
		e.respawn(pos, wind, trail, age)
	}
}

func (e *Engine) setWind(w *components.Wind, v field.Value) {
	w.U, w.V, w.Speed = v.U, v.V, v.Speed
	w.SpeedT = e.speedT(v.Speed)
}

// speedT maps speed onto [0, 1] over the color domain.
func (e *Engine) speedT(speed float64) float64 {
	lo, hi := float64(e.field.Speed.Min), float64(e.field.Speed.Max)
	if e.opts.Domain != nil {
		lo, hi = e.opts.Domain.Min, e.opts.Domain.Max
	}
	if !(hi > lo) {
		return 0
	}
	return math.Max(0, math.Min(1, (speed-lo)/(hi-lo)))
}

// spawnArea is the field bounds, or its intersection with the visible
// window when UseViewerBounds is set.
func (e *Engine) spawnArea() field.Bounds {
	b := e.field.Bounds
	if !e.opts.UseViewerBounds {
		return b
	}
	area := field.Bounds{
		West:  math.Max(b.West, e.vp.LonRange[0]),
		East:  math.Min(b.East, e.vp.LonRange[1]),
		South: math.Max(b.South, e.vp.LatRange[0]),
		North: math.Min(b.North, e.vp.LatRange[1]),
	}
	if !area.Valid() {
		return b
	}
	return area
}

// respawn moves a particle to a random unmasked cell of the spawn area.
// After spawnAttempts misses it keeps the last position and lets the next
// step retry.
func (e *Engine) respawn(pos *components.Position, wind *components.Wind, trail *components.Trail, age *components.Age) {
	area := e.spawnArea()
	for i := 0; i < spawnAttempts; i++ {
		pos.Lon = area.West + e.rng.Float64()*area.Width()
		pos.Lat = area.South + e.rng.Float64()*area.Height()
		r, ok := field.Query(e.field, e.opts.FlipY, pos.Lon, pos.Lat)
		if ok && r.Mask != 0 {
			e.setWind(wind, r.Interpolated)
			break
		}
	}
	trail.Reset()
	age.Steps = 0
}

// render restyles every particle and rebuilds the trail buffers.
func (e *Engine) render() {
	t := e.trails
	t.reset()
	query := e.filter.Query()
	for query.Next() {
		pos, wind, trail, style, _ := query.Get()
		e.restyle(wind, trail, style)
		if style.Hidden || style.Visible < 2 {
			continue
		}
		start := len(t.Points)
		t.Points = append(t.Points, Point{Lon: pos.Lon, Lat: pos.Lat})
		for i := 0; i < style.Visible-1; i++ {
			t.Points = append(t.Points, Point{Lon: trail.Lon[i], Lat: trail.Lat[i]})
		}
		t.Lines = append(t.Lines, Line{
			Start:      start,
			End:        len(t.Points),
			Width:      style.Width,
			ColorIndex: style.ColorIndex,
		})
	}
}

func (e *Engine) restyle(wind *components.Wind, trail *components.Trail, style *components.Style) {
	style.Width = float32(e.opts.LineWidth.Lerp(wind.SpeedT))
	style.ColorIndex = ColorIndex(wind.SpeedT, len(e.opts.Colors))
	style.Visible = min(int(trail.Len)+1, TrailPoints(e.opts.LineLength.Lerp(wind.SpeedT)))
	dr := e.opts.DisplayRange
	style.Hidden = dr != nil && (wind.Speed < dr.Min || wind.Speed > dr.Max)
}

// ColorIndex picks the ramp entry for a normalized speed.
func ColorIndex(speedT float64, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(speedT * float64(n-1))
	return max(0, min(n-1, i))
}

// TrailPoints converts a line length in pixels to a trail point count in
// [2, MaxTrail].
func TrailPoints(length float64) int {
	n := int(math.Round(length / TrailSpacing))
	return max(2, min(components.MaxTrail, n))
}

// resize grows or shrinks the particle population to n.
func (e *Engine) resize(n int) {
	for len(e.entities) > n {
		last := e.entities[len(e.entities)-1]
		e.world.RemoveEntity(last)
		e.entities = e.entities[:len(e.entities)-1]
	}
	for len(e.entities) < n {
		var (
			pos   components.Position
			wind  components.Wind
			trail components.Trail
			style components.Style
			age   components.Age
		)
		e.respawn(&pos, &wind, &trail, &age)
		e.entities = append(e.entities, e.mapper.NewEntity(&pos, &wind, &trail, &style, &age))
	}
}

// respawnWhere respawns every particle for which keep returns false.
func (e *Engine) respawnWhere(keep func(components.Position) bool) int {
	n := 0
	query := e.filter.Query()
	for query.Next() {
		pos, wind, trail, _, age := query.Get()
		if !keep(*pos) {
			e.respawn(pos, wind, trail, age)
			n++
		}
	}
	return n
}

// UpdateData switches to f and respawns every particle over it.
func (e *Engine) UpdateData(f *field.Field) {
	if e.destroyed {
		return
	}
	e.field = f
	e.outline.Bounds = f.Bounds
	e.respawnWhere(func(components.Position) bool { return false })
	e.render()
}

// UpdateOptions applies a new snapshot, resizing the population when the
// texture size changed.
func (e *Engine) UpdateOptions(o options.Options) {
	if e.destroyed {
		return
	}
	prev := e.opts
	e.opts = o
	e.trails.Colors = o.Colors
	e.trails.Height = o.ParticleHeight
	if o.ParticleCount() != prev.ParticleCount() {
		slog.Debug("resizing particle population", "from", prev.ParticleCount(), "to", o.ParticleCount())
		e.resize(o.ParticleCount())
	}
	if o.UseViewerBounds && !prev.UseViewerBounds {
		e.respawnOutsideView()
	}
	e.render()
}

// ApplyViewport receives the tracker's state. With UseViewerBounds,
// particles that left the visible window respawn inside it.
func (e *Engine) ApplyViewport(s viewport.State) {
	if e.destroyed {
		return
	}
	e.vp = s
	if e.opts.UseViewerBounds {
		e.respawnOutsideView()
	}
}

func (e *Engine) respawnOutsideView() {
	area := e.spawnArea()
	e.respawnWhere(func(p components.Position) bool {
		return area.Contains(p.Lon, p.Lat)
	})
}

// Destroy removes every particle entity and empties the drawables.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.resize(0)
	e.trails.reset()
	e.destroyed = true
	slog.Debug("particle engine destroyed", "steps", e.counters.Steps)
}
