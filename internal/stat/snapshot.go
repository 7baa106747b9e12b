package stat

// Snapshot is the plain state of a pool, as read from config or storage.
// A Snapshot may violate the pool invariants; turning it into a pool always
// goes through the setters, which correct it.
type Snapshot struct {
	Min   int `yaml:"min_value"`
	Max   int `yaml:"max_value"`
	Value int `yaml:"value"`
}

// DefaultSnapshot returns the state of a pool created by New.
func DefaultSnapshot() Snapshot {
	return Snapshot{Min: DefaultMin, Max: DefaultMax, Value: DefaultValue}
}

// Snapshot returns the current state of the pool.
func (p *Pool) Snapshot() Snapshot {
	return Snapshot{Min: p.min, Max: p.max, Value: p.value}
}

// FromSnapshot creates a pool with the state of s.
func FromSnapshot(s Snapshot) *Pool {
	return NewWithBounds(s.Min, s.Max, s.Value)
}

// Apply sets min, max and value from s, in that order, through the regular
// setters. Listeners see the same notifications as for individual calls.
func (p *Pool) Apply(s Snapshot) {
	p.SetMin(s.Min)
	p.SetMax(s.Max)
	p.SetValue(s.Value)
}
