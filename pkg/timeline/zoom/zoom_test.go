package zoom

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c.Level() != 1.0 {
		t.Errorf("Level() = %v, want 1.0", c.Level())
	}
	if c.Percent() != 100 {
		t.Errorf("Percent() = %d, want 100", c.Percent())
	}
}

func TestInClampsAtMax(t *testing.T) {
	c := New()
	for i := 0; i < 8; i++ {
		c.In()
	}
	if c.Level() != Max {
		t.Errorf("Level() = %v, want %v", c.Level(), Max)
	}
	c.Reset()
	if c.Level() != 1.0 {
		t.Errorf("Level() after Reset = %v, want exactly 1.0", c.Level())
	}
}

func TestOutClampsAtMin(t *testing.T) {
	c := New()
	for i := 0; i < 8; i++ {
		c.Out()
	}
	if c.Level() != Min {
		t.Errorf("Level() = %v, want %v", c.Level(), Min)
	}
	c.Reset()
	if c.Level() != 1.0 {
		t.Errorf("Level() after Reset = %v, want exactly 1.0", c.Level())
	}
}

func TestSteps(t *testing.T) {
	c := New()
	c.In()
	if math.Abs(c.Level()-1.3) > 1e-12 {
		t.Errorf("after In Level() = %v, want 1.3", c.Level())
	}
	if c.Percent() != 130 {
		t.Errorf("Percent() = %d, want 130", c.Percent())
	}
	c.Out()
	if math.Abs(c.Level()-1.0) > 1e-12 {
		t.Errorf("after In+Out Level() = %v, want 1.0", c.Level())
	}
	c.Out()
	if c.Percent() != 77 {
		t.Errorf("Percent() = %d, want 77", c.Percent())
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		name     string
		ev       WheelEvent
		consumed bool
		want     float64
	}{
		{"no modifier scrolls", WheelEvent{DeltaY: -120}, false, 1.0},
		{"no modifier scroll down", WheelEvent{DeltaY: 120}, false, 1.0},
		{"modifier up zooms in", WheelEvent{DeltaY: -120, Modifier: true}, true, 1.3},
		{"modifier down zooms out", WheelEvent{DeltaY: 120, Modifier: true}, true, 1 / 1.3},
		{"modifier zero delta zooms in", WheelEvent{Modifier: true}, true, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if got := c.Wheel(tt.ev); got != tt.consumed {
				t.Errorf("Wheel() consumed = %v, want %v", got, tt.consumed)
			}
			if math.Abs(c.Level()-tt.want) > 1e-12 {
				t.Errorf("Level() = %v, want %v", c.Level(), tt.want)
			}
		})
	}
}

func TestWheelClamps(t *testing.T) {
	c := New()
	for i := 0; i < 20; i++ {
		c.Wheel(WheelEvent{DeltaY: -1, Modifier: true})
	}
	if c.Level() != Max {
		t.Errorf("Level() = %v, want %v", c.Level(), Max)
	}
	for i := 0; i < 40; i++ {
		c.Wheel(WheelEvent{DeltaY: 1, Modifier: true})
	}
	if c.Level() != Min {
		t.Errorf("Level() = %v, want %v", c.Level(), Min)
	}
}

func TestSetAndClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{0.1, Min},
		{12, Max},
		{0, Default},
		{-3, Default},
		{math.NaN(), Default},
		{math.Inf(1), Default},
	}

	for _, tt := range tests {
		c := New()
		c.Set(tt.in)
		if c.Level() != tt.want {
			t.Errorf("Set(%v) Level() = %v, want %v", tt.in, c.Level(), tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	c := New()
	c.Set(2)
	if got := c.Apply(60); got != 120 {
		t.Errorf("Apply(60) = %v, want 120", got)
	}
}
