package session

import "sync"

// ActivityKind is a class of user interaction.
type ActivityKind int

const (
	PointerPress ActivityKind = iota
	KeyPress
	Scroll
	TouchStart
	Click
	// Focus covers window focus changes; not tracked by default.
	Focus
)

func (k ActivityKind) String() string {
	switch k {
	case PointerPress:
		return "pointer_press"
	case KeyPress:
		return "key_press"
	case Scroll:
		return "scroll"
	case TouchStart:
		return "touch_start"
	case Click:
		return "click"
	case Focus:
		return "focus"
	default:
		return "unknown"
	}
}

// DefaultTrackedActivities are the interactions that renew a session.
var DefaultTrackedActivities = []ActivityKind{PointerPress, KeyPress, Scroll, TouchStart, Click}

// Activity is one user interaction.
type Activity struct {
	Kind ActivityKind
}

// ActivitySource delivers user interactions to subscribers.
type ActivitySource interface {
	// Subscribe registers fn and returns a function that unregisters it.
	Subscribe(fn func(Activity)) (unsubscribe func())
}

// ActivityHub is an in-process ActivitySource fed by the presentation layer.
// Handlers run on the emitting goroutine and must not block.
type ActivityHub struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Activity)
}

// NewActivityHub returns an empty hub.
func NewActivityHub() *ActivityHub {
	return &ActivityHub{subs: make(map[int]func(Activity))}
}

// Subscribe implements ActivitySource.
func (h *ActivityHub) Subscribe(fn func(Activity)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
		})
	}
}

// Emit delivers an interaction to every subscriber.
func (h *ActivityHub) Emit(kind ActivityKind) {
	h.mu.RLock()
	fns := make([]func(Activity), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	a := Activity{Kind: kind}
	for _, fn := range fns {
		fn(a)
	}
}

// Subscribers returns the number of registered handlers.
func (h *ActivityHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
