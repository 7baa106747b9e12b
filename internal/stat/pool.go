package stat

import (
	"fmt"
	"math"
)

// Default bounds of a freshly created pool.
const (
	DefaultMin   = 0
	DefaultMax   = 100
	DefaultValue = 100
)

// Bound limits. The cascade between SetMin and SetMax keeps a gap of exactly
// one unit, so min must leave room for max above it and vice versa.
const (
	maxMinValue = math.MaxInt - 1
	minMaxValue = math.MinInt + 1
)

// Pool — ограниченный ресурс (HP, MP, stamina): текущее значение между min и max.
//
// Invariants after every call: min < max and min <= value <= max.
// Pool is not safe for concurrent use; it is owned by a single caller.
// The zero value is not usable, create pools with New, NewWithBounds or
// FromSnapshot.
type Pool struct {
	min   int
	max   int
	value int

	listeners []*listener
}

// New создаёт пул с границами по умолчанию (0, 100, 100).
func New() *Pool {
	return &Pool{
		min:   DefaultMin,
		max:   DefaultMax,
		value: DefaultValue,
	}
}

// NewWithBounds creates a pool and applies min, max and value through the
// setters, so out-of-order or equal bounds are corrected the same way as at
// runtime.
func NewWithBounds(minValue, maxValue, value int) *Pool {
	p := New()
	p.SetMin(minValue)
	p.SetMax(maxValue)
	p.SetValue(value)
	return p
}

// Min returns the lower bound.
func (p *Pool) Min() int { return p.min }

// Max returns the upper bound.
func (p *Pool) Max() int { return p.max }

// Value returns the current level.
func (p *Pool) Value() int { return p.value }

// SetMin sets the lower bound.
// If the new min reaches max, max is pushed to min+1. A value below the new
// min is raised to it. Emits SignalMinValueChanged after any cascade.
func (p *Pool) SetMin(newMin int) {
	if newMin > maxMinValue {
		newMin = maxMinValue
	}
	if newMin == p.min {
		return
	}

	oldMin := p.min
	p.min = newMin

	if p.min >= p.max {
		p.SetMax(p.min + 1)
	}

	if p.value < p.min {
		p.SetValue(p.min)
	}

	p.emit(Event{
		Signal:    SignalMinValueChanged,
		Old:       oldMin,
		New:       p.min,
		Increased: p.min > oldMin,
		Pool:      p,
	})
}

// SetMax sets the upper bound.
// If the new max drops to min or below, min is pushed to max-1. A value above
// the new max is lowered to it. Emits SignalMaxValueChanged after any cascade.
func (p *Pool) SetMax(newMax int) {
	if newMax < minMaxValue {
		newMax = minMaxValue
	}
	if newMax == p.max {
		return
	}

	oldMax := p.max
	p.max = newMax

	if p.max <= p.min {
		p.SetMin(p.max - 1)
	}

	if p.value > p.max {
		p.SetValue(p.max)
	}

	p.emit(Event{
		Signal:    SignalMaxValueChanged,
		Old:       oldMax,
		New:       p.max,
		Increased: p.max > oldMax,
		Pool:      p,
	})
}

// SetValue clamps v into [min, max] and stores it.
//
// Emits SignalValueChanged, then at most one boundary signal, checked in
// order: SignalDepleted on entering min, SignalRestored on leaving min,
// SignalRestoredFully on entering max. Does nothing if the clamped value
// equals the current one.
func (p *Pool) SetValue(v int) {
	v = clamp(v, p.min, p.max)
	if v == p.value {
		return
	}

	old := p.value
	p.value = v

	p.emit(Event{
		Signal:    SignalValueChanged,
		Old:       old,
		New:       v,
		Increased: v > old,
		Pool:      p,
	})

	switch {
	case v == p.min && old != p.min:
		p.emit(Event{Signal: SignalDepleted, Old: old, New: v, Pool: p})
	case v > p.min && old == p.min:
		p.emit(Event{Signal: SignalRestored, Old: old, New: v, Increased: true, Pool: p})
	case v == p.max && old != p.max:
		p.emit(Event{Signal: SignalRestoredFully, Old: old, New: v, Increased: true, Pool: p})
	}
}

// Increase adds amount to the value. Negative amounts decrease it.
func (p *Pool) Increase(amount int) {
	p.SetValue(addSaturated(p.value, amount))
}

// Decrease subtracts amount from the value. Negative amounts increase it.
func (p *Pool) Decrease(amount int) {
	if amount == math.MinInt {
		p.SetValue(addSaturated(addSaturated(p.value, math.MaxInt), 1))
		return
	}
	p.SetValue(addSaturated(p.value, -amount))
}

// Fill sets the value to max.
func (p *Pool) Fill() {
	p.SetValue(p.max)
}

// Deplete sets the value to min.
func (p *Pool) Deplete() {
	p.SetValue(p.min)
}

// Percentage returns the position of value between min and max (0.0 - 1.0).
func (p *Pool) Percentage() float64 {
	span := float64(p.max) - float64(p.min)
	return (float64(p.value) - float64(p.min)) / span
}

// IsDepleted reports whether the value sits at min.
func (p *Pool) IsDepleted() bool {
	return p.value == p.min
}

// IsFilled reports whether the value sits at max.
func (p *Pool) IsFilled() bool {
	return p.value == p.max
}

// String renders the pool as "value/max (pct%)".
func (p *Pool) String() string {
	return fmt.Sprintf("%d/%d (%.0f%%)", p.value, p.max, p.Percentage()*100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// addSaturated returns a+b, pinned to the int range instead of wrapping.
func addSaturated(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}
