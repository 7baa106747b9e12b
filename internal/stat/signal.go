package stat

// Signal identifies a pool notification.
type Signal uint8

const (
	SignalMinValueChanged Signal = iota
	SignalMaxValueChanged
	SignalValueChanged
	SignalDepleted
	SignalRestored
	SignalRestoredFully
)

var signalNames = [...]string{
	SignalMinValueChanged: "min_value_changed",
	SignalMaxValueChanged: "max_value_changed",
	SignalValueChanged:    "value_changed",
	SignalDepleted:        "depleted",
	SignalRestored:        "restored",
	SignalRestoredFully:   "restored_fully",
}

// String returns the snake_case signal name (e.g. "value_changed").
func (s Signal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return "unknown"
}

// Event is one notification emitted by a Pool.
//
// For the three *_changed signals Old and New hold the previous and the
// current field value and Increased reports New > Old. Boundary signals
// (depleted, restored, restored_fully) carry the value transition that
// caused them.
type Event struct {
	Signal    Signal
	Old       int
	New       int
	Increased bool
	Pool      *Pool
}

// ChangeFunc handles min_value_changed, max_value_changed and value_changed.
type ChangeFunc func(oldValue, newValue int, increased bool)

// PoolFunc handles depleted, restored and restored_fully.
type PoolFunc func(p *Pool)

type listener struct {
	fn        func(Event)
	cancelled bool
}

// Subscribe registers fn for every signal of the pool.
// Listeners run synchronously in subscription order before the mutating
// call returns. The returned func removes the listener; calling it more
// than once is harmless.
func (p *Pool) Subscribe(fn func(Event)) (cancel func()) {
	l := &listener{fn: fn}
	p.listeners = append(p.listeners, l)
	return func() { p.unsubscribe(l) }
}

// OnMinValueChanged registers fn for min_value_changed.
func (p *Pool) OnMinValueChanged(fn ChangeFunc) (cancel func()) {
	return p.onChange(SignalMinValueChanged, fn)
}

// OnMaxValueChanged registers fn for max_value_changed.
func (p *Pool) OnMaxValueChanged(fn ChangeFunc) (cancel func()) {
	return p.onChange(SignalMaxValueChanged, fn)
}

// OnValueChanged registers fn for value_changed.
func (p *Pool) OnValueChanged(fn ChangeFunc) (cancel func()) {
	return p.onChange(SignalValueChanged, fn)
}

// OnDepleted registers fn for depleted.
func (p *Pool) OnDepleted(fn PoolFunc) (cancel func()) {
	return p.onState(SignalDepleted, fn)
}

// OnRestored registers fn for restored.
func (p *Pool) OnRestored(fn PoolFunc) (cancel func()) {
	return p.onState(SignalRestored, fn)
}

// OnRestoredFully registers fn for restored_fully.
func (p *Pool) OnRestoredFully(fn PoolFunc) (cancel func()) {
	return p.onState(SignalRestoredFully, fn)
}

func (p *Pool) onChange(sig Signal, fn ChangeFunc) func() {
	return p.Subscribe(func(e Event) {
		if e.Signal == sig {
			fn(e.Old, e.New, e.Increased)
		}
	})
}

func (p *Pool) onState(sig Signal, fn PoolFunc) func() {
	return p.Subscribe(func(e Event) {
		if e.Signal == sig {
			fn(e.Pool)
		}
	})
}

func (p *Pool) unsubscribe(target *listener) {
	if target.cancelled {
		return
	}
	target.cancelled = true

	// New slice: a dispatch in progress keeps iterating the old one.
	kept := make([]*listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		if l != target {
			kept = append(kept, l)
		}
	}
	p.listeners = kept
}

func (p *Pool) emit(e Event) {
	for _, l := range p.listeners {
		if l.cancelled {
			continue
		}
		l.fn(e)
	}
}
