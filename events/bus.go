// Package events provides a small synchronous publish/subscribe bus keyed by
// a closed set of event kinds.
package events

// Handle identifies a subscription for later removal.
type Handle uint64

type subscriber[E any] struct {
	handle Handle
	fn     func(E)
}

// Bus dispatches events of type E to subscribers registered per kind K.
// It is not safe for concurrent use; all calls are expected on one loop.
type Bus[K comparable, E any] struct {
	subs map[K][]subscriber[E]
	next Handle
}

// NewBus creates an empty bus.
func NewBus[K comparable, E any]() *Bus[K, E] {
	return &Bus[K, E]{subs: make(map[K][]subscriber[E])}
}

// Subscribe registers fn for kind and returns its handle. The list for a
// kind is created on first subscription.
func (b *Bus[K, E]) Subscribe(kind K, fn func(E)) Handle {
	b.next++
	b.subs[kind] = append(b.subs[kind], subscriber[E]{handle: b.next, fn: fn})
	return b.next
}

// Unsubscribe removes the subscription. Unknown handles are ignored.
func (b *Bus[K, E]) Unsubscribe(kind K, h Handle) {
	list := b.subs[kind]
	for i, s := range list {
		if s.handle == h {
			// Copy so a dispatch iterating the old slice is unaffected.
			next := make([]subscriber[E], 0, len(list)-1)
			next = append(next, list[:i]...)
			b.subs[kind] = append(next, list[i+1:]...)
			return
		}
	}
}

// Publish calls every subscriber for kind, in registration order. The
// subscriber list is snapshotted first, so callbacks may subscribe or
// unsubscribe without affecting the current dispatch.
func (b *Bus[K, E]) Publish(kind K, e E) {
	list := b.subs[kind]
	for _, s := range list {
		s.fn(e)
	}
}

// Len returns the number of subscribers for kind.
func (b *Bus[K, E]) Len(kind K) int {
	return len(b.subs[kind])
}

// Clear removes every subscription.
func (b *Bus[K, E]) Clear() {
	b.subs = make(map[K][]subscriber[E])
}
