// Package dom models the small slice of a browser document the components
// depend on: document-level event listeners and the body's overflow style.
//
// Listener registration returns a release function, so a component can
// scope its listeners to a state (such as a modal being open) and drop them
// deterministically when that state ends. A Document is not safe for
// concurrent use. Like the browser it stands in for, it serves one logical
// event loop.
package dom

// Event types used by the components
const (
	EventKeyDown = "keydown"
	EventWheel   = "wheel"
	EventClick   = "click"
)

// Key names
const (
	KeyEscape = "Escape"
)

// Event is a dispatched input event. Path names the targets the event
// passes through, innermost first; the document itself always comes last.
type Event struct {
	Type   string
	Key    string
	DeltaY float64
	Path   []string

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault marks the event's default action as cancelled
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener cancelled the default action
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching outer handlers
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether propagation was stopped
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// Listener handles an event
type Listener func(*Event)

type registration struct {
	target   string
	listener Listener
	active   bool
}

// Document is an event target with a body style
type Document struct {
	listeners    map[string][]*registration
	bodyOverflow string
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{listeners: make(map[string][]*registration)}
}

// AddEventListener registers l on the document for events of type typ and
// returns the function that removes it. Calling the release function more
// than once is harmless.
func (d *Document) AddEventListener(typ string, l Listener) (release func()) {
	return d.AddTargetListener("", typ, l)
}

// AddTargetListener registers l on the named target. The empty target is
// the document.
func (d *Document) AddTargetListener(target, typ string, l Listener) (release func()) {
	reg := &registration{target: target, listener: l, active: true}
	d.listeners[typ] = append(d.listeners[typ], reg)

	return func() {
		if !reg.active {
			return
		}
		reg.active = false
		regs := d.listeners[typ]
		for i, r := range regs {
			if r == reg {
				d.listeners[typ] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
	}
}

// Dispatch delivers e along its path and then to the document's listeners,
// in registration order per target. Delivery ends after the target whose
// listener stopped propagation. It reports whether the default action
// survived.
func (d *Document) Dispatch(e *Event) bool {
	regs := append([]*registration(nil), d.listeners[e.Type]...)
	path := append(append([]string(nil), e.Path...), "")
	for _, target := range path {
		for _, r := range regs {
			if r.active && r.target == target {
				r.listener(e)
			}
		}
		if e.propagationStopped {
			break
		}
	}
	return !e.defaultPrevented
}

// ListenerCount returns the number of listeners registered for typ
func (d *Document) ListenerCount(typ string) int {
	return len(d.listeners[typ])
}

// SetBodyOverflow sets the body's overflow style
func (d *Document) SetBodyOverflow(v string) {
	d.bodyOverflow = v
}

// BodyOverflow returns the body's overflow style
func (d *Document) BodyOverflow() string {
	return d.bodyOverflow
}
