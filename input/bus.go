package input

// Event is a single key transition.
type Event struct {
	Key  Key
	Down bool
}

// Handler receives events from a Source.
type Handler func(Event)

// Source delivers key events to subscribers.
type Source interface {
	Subscribe(h Handler) *Subscription
}

// Subscription is a live registration on a Bus.
type Subscription struct {
	bus *Bus
	h   *handlerEntry
}

type handlerEntry struct {
	fn     Handler
	active bool
}

// Unsubscribe detaches the handler. Calling it more than once, or from
// inside the handler itself, is fine.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.h == nil || !s.h.active {
		return
	}
	s.h.active = false
	s.bus.remove(s.h)
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && s.h != nil && s.h.active
}

// Bus is a synchronous fan-out of key events. It is not safe for concurrent
// use; publishers and subscribers share the game loop thread.
type Bus struct {
	handlers []*handlerEntry
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h. A nil handler yields an inactive subscription.
func (b *Bus) Subscribe(h Handler) *Subscription {
	if b == nil || h == nil {
		return &Subscription{}
	}
	entry := &handlerEntry{fn: h, active: true}
	b.handlers = append(b.handlers, entry)
	return &Subscription{bus: b, h: entry}
}

// Publish delivers evt to every active subscriber in subscription order.
func (b *Bus) Publish(evt Event) {
	if b == nil || len(b.handlers) == 0 {
		return
	}
	snapshot := append([]*handlerEntry(nil), b.handlers...)
	for _, h := range snapshot {
		if h.active {
			h.fn(evt)
		}
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.handlers)
}

func (b *Bus) remove(entry *handlerEntry) {
	for i, h := range b.handlers {
		if h == entry {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}
