package sim

import (
	"math"
	"testing"
)

// Energy non-creation: a hazard or wall bounce must never increase speed
// beyond the bounce coefficient's share of the incoming speed.
func TestBounceNeverCreatesEnergy(t *testing.T) {
	cases := []struct {
		name   string
		pos    Vec
		vel    Vec
		bounce float64
	}{
		{"straight_down", V(100, 195), V(0, 8), 0.5},
		{"angled", V(96, 196), V(3, 6), 0.5},
		{"shallow", V(104, 197), V(-7, 1.5), 0.8},
	}

	target := Rect{X: 60, Y: 200, W: 80, H: 30}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewBody(c.pos, 10, 10)
			b.Vel = c.vel
			before := b.Speed()

			hit, _ := ResolveRect(b, target, c.bounce)
			if !hit {
				t.Fatalf("expected contact")
			}
			if after := b.Speed(); after > before*c.bounce+1e-9 {
				t.Fatalf("speed grew: before=%v after=%v bounce=%v", before, after, c.bounce)
			}
		})
	}
}

func TestReflectFormula(t *testing.T) {
	v := reflect(V(3, 4), V(0, -1), 1)
	if !almostEq(v.X, 3) || !almostEq(v.Y, -4) {
		t.Fatalf("reflect = %v, want (3,-4)", v)
	}
}

func TestCircleRectContactPushesOut(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	b := NewBody(V(125, 96), 10, 10)
	b.Vel = V(0, 3)

	hit, supported := ResolveRect(b, r, 0.5)
	if !hit {
		t.Fatalf("expected contact")
	}
	if !supported {
		t.Fatalf("top contact should report the body as supported")
	}
	if b.Pos.Y > r.Y-b.Radius+1e-9 {
		t.Fatalf("body not pushed flush to the surface: y=%v", b.Pos.Y)
	}
	if b.Vel.Y >= 0 {
		t.Fatalf("velocity not reflected upward: %v", b.Vel.Y)
	}
}

func TestCircleRectNoContactOutsideBroadPhase(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	b := NewBody(V(500, 500), 10, 10)
	if hit, _ := ResolveRect(b, r, 0.5); hit {
		t.Fatalf("distant body must not register contact")
	}
}

func TestResolveSegmentBounce(t *testing.T) {
	// Ramp sloping down-right; body dropped onto it from above.
	a, c := V(50, 200), V(150, 260)
	b := NewBody(V(100, 224), 10, 10)
	b.Vel = V(0, 5)
	before := b.Speed()

	hit, _ := ResolveSegment(b, a, c, 0.6)
	if !hit {
		t.Fatalf("expected segment contact")
	}
	if b.Vel.Y >= 0 {
		t.Fatalf("expected upward deflection, vel.Y=%v", b.Vel.Y)
	}
	if b.Speed() > before*0.6+1e-9 {
		t.Fatalf("segment bounce gained speed")
	}
	// Pushed to the up-left side of the ramp normal.
	closest := ClosestPointOnSegment(b.Pos, a, c)
	if d := b.Pos.Distance(closest); d < b.Radius-1e-6 {
		t.Fatalf("still penetrating after resolution: %v", d)
	}
}

// End-to-end: a body dropped from the dispenser must hit the pan surface
// before passing through it, and leave moving upward.
func TestGravityDropHitsPlatform(t *testing.T) {
	tn := DefaultTuning()
	p := &Platform{Pos: V(120, 306), Width: 130, Height: 12}
	// Platform top sits at y=300.
	if !almostEq(p.Top(), 300) {
		t.Fatalf("platform top = %v, want 300", p.Top())
	}

	b := NewBody(V(160, 60), 14, 10)
	hit := false
	for i := 0; i < 400; i++ {
		b.Step(&tn)
		if ResolvePlatform(b, p, &tn) {
			hit = true
			break
		}
		if b.Pos.Y > 300+p.Height {
			t.Fatalf("tick %d: fell through the platform to y=%v", i, b.Pos.Y)
		}
	}
	if !hit {
		t.Fatalf("never collided with the platform")
	}
	if b.Vel.Y >= 0 {
		t.Fatalf("post-collision vel.Y = %v, want < 0", b.Vel.Y)
	}
	if b.Bottom() > 300+1e-9 {
		t.Fatalf("body not flush with surface: bottom=%v", b.Bottom())
	}
}

// With a still pan and no catch boost, the platform bounce obeys the same
// no-free-energy rule as every other surface.
func TestPlatformBounceEnergyBound(t *testing.T) {
	tn := DefaultTuning()
	tn.CatchBoost = 0
	p := &Platform{Pos: V(160, 306), Width: 130, Height: 12}

	b := NewBody(V(160, 292), 14, 10)
	b.Vel = V(0, 9)
	before := math.Abs(b.Vel.Y)

	if !ResolvePlatform(b, p, &tn) {
		t.Fatalf("expected contact")
	}
	if after := math.Abs(b.Vel.Y); after > before*tn.PlatformBounce+1e-9 {
		t.Fatalf("platform bounce gained speed: %v -> %v", before, after)
	}
}

// The flip mechanic: a moving pan imparts part of its horizontal velocity.
func TestPlatformImpartsCarryVelocity(t *testing.T) {
	tn := DefaultTuning()
	p := &Platform{Pos: V(160, 306), Width: 130, Height: 12, Vel: V(6, 0)}

	b := NewBody(V(160, 292), 14, 10)
	b.Vel = V(0, 9)

	if !ResolvePlatform(b, p, &tn) {
		t.Fatalf("expected contact")
	}
	if b.Vel.X < 6*tn.PlatformCarry-1e-9 {
		t.Fatalf("carry velocity missing: vel.X=%v", b.Vel.X)
	}
	if b.RotationSpeed == 0 {
		t.Fatalf("expected a rotation impulse from pan motion")
	}
}

// A tilted pan reflects about its surface normal: a vertical drop gains
// horizontal velocity toward the low edge.
func TestPlatformTiltShedsDownhill(t *testing.T) {
	tn := DefaultTuning()
	tn.CatchBoost = 0
	// Tilt > 0 raises the right edge, so downhill is left.
	p := &Platform{Pos: V(160, 306), Width: 130, Height: 12, Tilt: 0.5}

	b := NewBody(V(160, 292), 14, 10)
	b.Vel = V(0, 9)
	want := reflect(V(0, 9), p.Normal(&tn), tn.PlatformBounce)

	if !ResolvePlatform(b, p, &tn) {
		t.Fatalf("expected contact")
	}
	if !almostEq(b.Vel.X, want.X) || !almostEq(b.Vel.Y, want.Y) {
		t.Fatalf("bounce = %v, want reflection %v", b.Vel, want)
	}
	if b.Vel.X >= 0 {
		t.Fatalf("vel.X = %v, want downhill (< 0)", b.Vel.X)
	}
	if b.Vel.Y >= 0 {
		t.Fatalf("vel.Y = %v, want upward (< 0)", b.Vel.Y)
	}
}

func TestPlatformIgnoresRisingBody(t *testing.T) {
	tn := DefaultTuning()
	p := &Platform{Pos: V(160, 306), Width: 130, Height: 12}
	b := NewBody(V(160, 292), 14, 10)
	b.Vel = V(0, -4)

	if ResolvePlatform(b, p, &tn) {
		t.Fatalf("rising body must pass the surface check")
	}
}
