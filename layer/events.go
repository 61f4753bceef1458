package layer

import (
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/options"
)

// EventKind identifies layer notifications.
type EventKind uint8

const (
	DataChange EventKind = iota
	OptionsChange
)

func (k EventKind) String() string {
	switch k {
	case DataChange:
		return "dataChange"
	case OptionsChange:
		return "optionsChange"
	default:
		return "unknown"
	}
}

// Event is a layer notification. Field is set for DataChange and Options for
// OptionsChange. Both are shared with the layer; treat them as read-only.
type Event struct {
	Kind    EventKind
	Field   *field.Field
	Options *options.Options
}

// Listener receives layer events synchronously on the host loop.
type Listener func(Event)
