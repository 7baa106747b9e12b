package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalString(t *testing.T) {
	tests := []struct {
		sig  Signal
		want string
	}{
		{SignalMinValueChanged, "min_value_changed"},
		{SignalMaxValueChanged, "max_value_changed"},
		{SignalValueChanged, "value_changed"},
		{SignalDepleted, "depleted"},
		{SignalRestored, "restored"},
		{SignalRestoredFully, "restored_fully"},
		{Signal(42), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sig.String())
	}
}

func TestTypedListeners(t *testing.T) {
	p := New()

	type change struct {
		old, new  int
		increased bool
	}
	var minChanges, maxChanges, valueChanges []change
	var depleted, restored, restoredFully int

	p.OnMinValueChanged(func(o, n int, inc bool) { minChanges = append(minChanges, change{o, n, inc}) })
	p.OnMaxValueChanged(func(o, n int, inc bool) { maxChanges = append(maxChanges, change{o, n, inc}) })
	p.OnValueChanged(func(o, n int, inc bool) { valueChanges = append(valueChanges, change{o, n, inc}) })
	p.OnDepleted(func(got *Pool) {
		assert.Same(t, p, got)
		depleted++
	})
	p.OnRestored(func(got *Pool) {
		assert.Same(t, p, got)
		restored++
	})
	p.OnRestoredFully(func(got *Pool) {
		assert.Same(t, p, got)
		restoredFully++
	})

	p.Decrease(30)
	p.Increase(15)
	p.Deplete()
	p.Increase(25)
	p.Fill()
	p.SetMax(150)
	p.SetMin(-10)

	assert.Equal(t, []change{
		{100, 70, false},
		{70, 85, true},
		{85, 0, false},
		{0, 25, true},
		{25, 100, true},
	}, valueChanges)
	assert.Equal(t, []change{{100, 150, true}}, maxChanges)
	assert.Equal(t, []change{{0, -10, false}}, minChanges)
	assert.Equal(t, 1, depleted)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 1, restoredFully)
}

func TestSubscribe_Order(t *testing.T) {
	p := New()
	var calls []string

	p.Subscribe(func(Event) { calls = append(calls, "first") })
	p.Subscribe(func(Event) { calls = append(calls, "second") })

	p.SetValue(50)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSubscribe_Cancel(t *testing.T) {
	p := New()
	calls := 0
	cancel := p.OnValueChanged(func(int, int, bool) { calls++ })

	p.SetValue(50)
	cancel()
	cancel()
	p.SetValue(60)

	assert.Equal(t, 1, calls)
	assert.Empty(t, p.listeners)
}

func TestSubscribe_CancelDuringDispatch(t *testing.T) {
	p := New()
	var calls []string

	var cancelSecond func()
	p.Subscribe(func(Event) {
		calls = append(calls, "first")
		cancelSecond()
	})
	cancelSecond = p.Subscribe(func(Event) { calls = append(calls, "second") })
	p.Subscribe(func(Event) { calls = append(calls, "third") })

	p.SetValue(50)

	assert.Equal(t, []string{"first", "third"}, calls)
	assert.Len(t, p.listeners, 2)
}

func TestSubscribe_AddDuringDispatch(t *testing.T) {
	p := New()
	late := 0

	var once bool
	p.Subscribe(func(Event) {
		if !once {
			once = true
			p.Subscribe(func(Event) { late++ })
		}
	})

	p.SetValue(50) // value_changed only
	assert.Equal(t, 0, late, "listener added mid-dispatch waits for the next event")

	p.SetValue(60)
	assert.Equal(t, 1, late)
}

func TestListener_ReentrantMutation(t *testing.T) {
	p := New()

	// Auto-refill on depletion, the way a respawn handler would.
	p.OnDepleted(func(got *Pool) { got.Fill() })
	r := record(p)

	p.Deplete()

	require.Equal(t, 100, p.Value())
	requireInvariants(t, p)
	assert.Equal(t, []Signal{
		SignalValueChanged,
		SignalValueChanged,
		SignalRestored,
		SignalDepleted,
	}, r.signals())
}
