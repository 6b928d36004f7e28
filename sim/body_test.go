package sim

import (
	"math"
	"testing"
)

func TestBodyStepAppliesGravityAndFriction(t *testing.T) {
	tn := DefaultTuning()
	b := NewBody(V(100, 100), 12, 9)
	b.Vel = V(4, 0)

	b.Step(&tn)

	if !almostEq(b.Vel.Y, tn.Gravity) {
		t.Fatalf("vel.Y = %v, want gravity %v", b.Vel.Y, tn.Gravity)
	}
	if !almostEq(b.Vel.X, 4*tn.AirFriction) {
		t.Fatalf("vel.X = %v, want %v", b.Vel.X, 4*tn.AirFriction)
	}
	if !almostEq(b.Pos.X, 104) {
		t.Fatalf("pos.X = %v, want 104", b.Pos.X)
	}
}

func TestRestingBodyDoesNotIntegrate(t *testing.T) {
	tn := DefaultTuning()
	b := NewBody(V(100, 100), 12, 9)
	b.State = BodyResting

	b.Step(&tn)

	if b.Pos != V(100, 100) || b.Vel != (Vec{}) {
		t.Fatalf("resting body moved: pos=%v vel=%v", b.Pos, b.Vel)
	}
}

// Boundary containment: no tick may leave the body outside the horizontal
// bounds after resolution, whatever velocity it carries.
func TestBoundaryContainment(t *testing.T) {
	tn := DefaultTuning()
	const width = 320.0

	cases := []struct {
		name string
		pos  Vec
		vel  Vec
	}{
		{"fast_left", V(30, 100), V(-40, 2)},
		{"fast_right", V(300, 100), V(55, -3)},
		{"slow_drift", V(10, 50), V(-0.5, 0)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewBody(c.pos, 12, 9)
			b.Vel = c.vel
			for i := 0; i < 600; i++ {
				b.Step(&tn)
				b.ClampToScreen(width, &tn)
				if b.Pos.X < 0 || b.Pos.X > width {
					t.Fatalf("tick %d: x=%v escaped [0,%v]", i, b.Pos.X, width)
				}
			}
		})
	}
}

func TestWallBounceReflectsAndDamps(t *testing.T) {
	tn := DefaultTuning()
	b := NewBody(V(5, 100), 12, 9)
	b.Vel = V(-6, 0)

	if !b.ClampToScreen(320, &tn) {
		t.Fatalf("expected wall contact")
	}
	if b.Pos.X != b.Radius {
		t.Fatalf("pos.X = %v, want %v", b.Pos.X, b.Radius)
	}
	if b.Vel.X <= 0 {
		t.Fatalf("vel.X = %v, want positive after left-wall bounce", b.Vel.X)
	}
	if math.Abs(b.Vel.X) > 6*tn.WallBounce+1e-9 {
		t.Fatalf("wall bounce gained speed: %v", b.Vel.X)
	}
}

func TestBelowScreen(t *testing.T) {
	b := NewBody(V(100, 480), 12, 9)
	if b.BelowScreen(480) {
		t.Fatalf("body at the edge is not below the screen")
	}
	b.Pos.Y = 480 + b.Radius + 1
	if !b.BelowScreen(480) {
		t.Fatalf("body past the bottom must be below the screen")
	}
}
