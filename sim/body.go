package sim

import "time"

// BodyState tracks where a piece is in its lifecycle.
type BodyState int

const (
	BodyFree BodyState = iota
	BodyResting
	BodyWon
	BodyLost
)

func (s BodyState) String() string {
	switch s {
	case BodyFree:
		return "free"
	case BodyResting:
		return "resting"
	case BodyWon:
		return "won"
	case BodyLost:
		return "lost"
	}
	return "unknown"
}

// Body is the simulated piece. Rotation is cosmetic and never feeds back into
// collision.
type Body struct {
	Pos Vec
	Vel Vec

	Radius         float64
	VerticalExtent float64

	Rotation      float64
	RotationSpeed float64

	State        BodyState
	SettledSince time.Time
	Spoilage     float64
}

// NewBody spawns a free-falling piece at pos.
func NewBody(pos Vec, radius, verticalExtent float64) *Body {
	if verticalExtent <= 0 {
		verticalExtent = radius
	}
	return &Body{
		Pos:            pos,
		Radius:         radius,
		VerticalExtent: verticalExtent,
		State:          BodyFree,
	}
}

// integrate applies one step of the shared motion formula. Trajectory preview
// runs the exact same function so preview and launch can never drift apart.
func integrate(pos, vel Vec, tn *Tuning) (Vec, Vec) {
	vel.Y += tn.Gravity
	pos = pos.Add(vel)
	vel.X *= tn.AirFriction
	return pos, vel
}

// Step advances a free body by one tick. Resting bodies are pinned by the
// session instead.
func (b *Body) Step(tn *Tuning) {
	if b == nil || b.State != BodyFree {
		return
	}
	b.Pos, b.Vel = integrate(b.Pos, b.Vel, tn)
	b.Rotation += b.RotationSpeed
	b.RotationSpeed *= tn.RotationDecay
}

// Speed returns the scalar velocity.
func (b *Body) Speed() float64 {
	return b.Vel.Length()
}

// Bottom is the y of the body's lowest point.
func (b *Body) Bottom() float64 {
	return b.Pos.Y + b.VerticalExtent
}

// ClampToScreen keeps the body inside the horizontal bounds, reflecting
// horizontal velocity on contact. Returns true if a wall was hit.
func (b *Body) ClampToScreen(width float64, tn *Tuning) bool {
	if b == nil {
		return false
	}
	if b.Pos.X-b.Radius < 0 {
		b.Pos.X = b.Radius
		b.Vel.X = -b.Vel.X * tn.WallBounce
		return true
	}
	if b.Pos.X+b.Radius > width {
		b.Pos.X = width - b.Radius
		b.Vel.X = -b.Vel.X * tn.WallBounce
		return true
	}
	return false
}

// BelowScreen reports whether the body has fallen past the bottom edge.
func (b *Body) BelowScreen(height float64) bool {
	return b.Pos.Y-b.Radius > height
}

// Launch puts a resting body back into free flight with the given velocity.
func (b *Body) Launch(vel Vec) {
	if b == nil {
		return
	}
	b.Vel = vel
	b.State = BodyFree
	b.SettledSince = time.Time{}
}

// RestOn pins the body to the platform surface and zeroes its motion.
func (b *Body) RestOn(p *Platform, tn *Tuning) {
	if b == nil || p == nil {
		return
	}
	b.State = BodyResting
	b.Vel = Vec{}
	b.RotationSpeed = 0
	b.Pos = Vec{X: b.Pos.X, Y: p.SurfaceYAt(b.Pos.X, tn) - b.VerticalExtent}
}

// FollowPlatform keeps a resting body glued to the moving surface.
func (b *Body) FollowPlatform(p *Platform, tn *Tuning) {
	if b == nil || p == nil || b.State != BodyResting {
		return
	}
	x := clamp(b.Pos.X+p.Vel.X, p.Pos.X-p.Width/2, p.Pos.X+p.Width/2)
	b.Pos = Vec{X: x, Y: p.SurfaceYAt(x, tn) - b.VerticalExtent}
}
