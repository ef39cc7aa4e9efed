package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, float32(1), s.Scale)
	assert.Equal(t, float32(-3), s.TransZ)
	assert.Zero(t, s.RotationX)
	assert.Zero(t, s.RotationY)
}

func TestDragGesture(t *testing.T) {
	in := NewInteraction(DefaultState())

	assert.True(t, in.Handle(PointerDown(10, 10)))
	assert.True(t, in.Drag.Active)
	assert.True(t, in.Handle(PointerMove(20, 15)))
	assert.InDelta(t, 0.10, in.State.RotationY, 1e-6)
	assert.InDelta(t, 0.05, in.State.RotationX, 1e-6)
	assert.Equal(t, Drag{Active: true, LastX: 20, LastY: 15}, in.Drag)

	in.Handle(PointerUp(20, 15))
	assert.False(t, in.Drag.Active)

	before := in.State
	assert.False(t, in.Handle(PointerMove(200, 300)), "move after release must be ignored")
	assert.Equal(t, before, in.State)
}

func TestDragAccumulatesFromLastAnchor(t *testing.T) {
	in := NewInteraction(DefaultState())
	in.PointerDown(0, 0)
	in.PointerMove(5, 0)
	in.PointerMove(5, -10)
	in.PointerMove(0, -10)

	assert.InDelta(t, 0.0, in.State.RotationY, 1e-6)
	assert.InDelta(t, -0.10, in.State.RotationX, 1e-6)
}

func TestMoveWithoutPress(t *testing.T) {
	in := NewInteraction(DefaultState())
	assert.False(t, in.PointerMove(50, 50))
	assert.Equal(t, DefaultState(), in.State)
}

func TestWheelZoomOutMonotonic(t *testing.T) {
	in := NewInteraction(DefaultState())
	prev := in.State.Scale
	for i := 0; i < 1000; i++ {
		assert.True(t, in.Wheel(1))
		if !assert.Less(t, in.State.Scale, prev, "tick %d", i) {
			return
		}
		assert.Greater(t, in.State.Scale, float32(0))
		prev = in.State.Scale
	}
}

func TestWheelZoomOutNeverReachesZero(t *testing.T) {
	in := NewInteraction(DefaultState())
	for i := 0; i < 10000; i++ {
		in.Wheel(1)
	}
	assert.Greater(t, in.State.Scale, float32(0))
}

func TestWheelZoomInMonotonic(t *testing.T) {
	in := NewInteraction(DefaultState())
	prev := in.State.Scale
	for i := 0; i < 200; i++ {
		assert.True(t, in.Wheel(-3))
		if !assert.Greater(t, in.State.Scale, prev, "tick %d", i) {
			return
		}
		prev = in.State.Scale
	}
}

func TestWheelFactors(t *testing.T) {
	in := NewInteraction(DefaultState())
	in.Wheel(1)
	assert.InDelta(t, 0.95, in.State.Scale, 1e-6)

	in.Reset(DefaultState())
	in.Wheel(-1)
	assert.InDelta(t, 1.05, in.State.Scale, 1e-6)

	in.Reset(DefaultState())
	assert.False(t, in.Wheel(0))
	assert.Equal(t, float32(1), in.State.Scale)
}

func TestPanKeys(t *testing.T) {
	in := NewInteraction(State{Scale: 1})
	for i := 0; i < 3; i++ {
		assert.True(t, in.Handle(Key("a")))
	}
	assert.InDelta(t, -0.15, in.State.TransX, 1e-6)

	tests := []struct {
		key  string
		want State
	}{
		{"d", State{Scale: 1, TransX: PanStep}},
		{"w", State{Scale: 1, TransY: PanStep}},
		{"s", State{Scale: 1, TransY: -PanStep}},
		{"q", State{Scale: 1, TransZ: PanStep}},
		{"e", State{Scale: 1, TransZ: -PanStep}},
		{"A", State{Scale: 1, TransX: -PanStep}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			in := NewInteraction(State{Scale: 1})
			assert.True(t, in.Key(tt.key))
			assert.Equal(t, tt.want, in.State)
		})
	}
}

func TestUnboundKeysIgnored(t *testing.T) {
	in := NewInteraction(DefaultState())
	for _, k := range []string{"x", "", "Escape", "space", "1"} {
		assert.False(t, in.Handle(Key(k)), "key %q", k)
	}
	assert.Equal(t, DefaultState(), in.State)
	assert.Equal(t, Drag{}, in.Drag)
}

func TestUnknownEventIgnored(t *testing.T) {
	in := NewInteraction(DefaultState())
	assert.False(t, in.Handle(Event{Type: EventNone}))
	assert.False(t, in.Handle(Event{Type: EventType(99)}))
	assert.Equal(t, DefaultState(), in.State)
}

func TestReset(t *testing.T) {
	in := NewInteraction(DefaultState())
	in.PointerDown(1, 1)
	in.PointerMove(40, 40)
	in.Key("w")
	in.Wheel(1)

	in.Reset(DefaultState())
	assert.Equal(t, DefaultState(), in.State)
	assert.False(t, in.Drag.Active)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "Wheel", EventWheel.String())
	assert.Equal(t, "Unknown(42)", EventType(42).String())
}
