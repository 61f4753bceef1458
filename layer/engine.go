package layer

import (
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/scene"
	"github.com/pthm-cable/windlayer/viewport"
)

// Engine is the particle simulation the layer drives. It owns its drawables
// and internal buffers and releases them in Destroy.
type Engine interface {
	Drawables() []scene.Drawable
	UpdateData(f *field.Field)
	UpdateOptions(o options.Options)
	ApplyViewport(s viewport.State)
	Destroy()
}

// RenderContext is passed through to the engine untouched. It carries
// whatever the engine needs from the host renderer (a GL context, a seed).
type RenderContext any

// EngineFactory builds an engine for the initial field, options and
// viewport state.
type EngineFactory func(ctx RenderContext, f *field.Field, o options.Options, vp viewport.State, host scene.Host) (Engine, error)
