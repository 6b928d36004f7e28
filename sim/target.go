package sim

// ZoneKind selects the win-condition shape for a level.
type ZoneKind int

const (
	// ZoneLanding is a rect the piece must come to rest in.
	ZoneLanding ZoneKind = iota
	// ZoneOpening is a container with a narrow mouth the piece must drop through.
	ZoneOpening
	// ZoneCircular is a two-ring target: center hit scores, edge deflects.
	ZoneCircular
	// ZoneStack is a landing rect that grows upward from landed pieces.
	ZoneStack
	// ZoneDrain captures the piece immediately on entry, no dwell.
	ZoneDrain
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneLanding:
		return "landing"
	case ZoneOpening:
		return "opening"
	case ZoneCircular:
		return "circular"
	case ZoneStack:
		return "stack"
	case ZoneDrain:
		return "drain"
	}
	return "unknown"
}

// Zone is the tagged union over every target variant. Only the fields for the
// active Kind are meaningful.
type Zone struct {
	Kind ZoneKind

	// ZoneLanding / ZoneStack.
	Landing Rect

	// ZoneOpening.
	Outer   Rect
	Opening Rect
	// OpeningForgiveness widens the accepted mouth by this many pixels on each
	// side. Level-tunable, not a fixed law.
	OpeningForgiveness float64

	// ZoneCircular.
	Center       Vec
	CenterRadius float64
	EdgeRadius   float64
	// RadiusForgiveness scales how much of the body's own radius counts toward
	// a hit (the k factor, >= 0.5).
	RadiusForgiveness float64

	// ZoneDrain.
	DrainRadius float64

	// Grazed is set when a circular target deflected the body at least once.
	Grazed bool
}

// NeedsDwell reports whether this zone requires the stability timer.
func (z *Zone) NeedsDwell() bool {
	return z.Kind == ZoneLanding || z.Kind == ZoneStack
}

// WithinLanding reports whether the body's lowest point sits inside the
// landing rect (with the body's footprint over it horizontally).
func (z *Zone) WithinLanding(b *Body) bool {
	if z == nil || b == nil {
		return false
	}
	low := Vec{X: b.Pos.X, Y: b.Bottom()}
	// A resting piece sits flush on the rect top, so accept a small margin
	// above the rect as inside.
	r := z.Landing
	return low.X >= r.X && low.X <= r.Right() && low.Y >= r.Y-b.VerticalExtent && low.Y <= r.Bottom()
}

// OpeningOutcome is the per-tick result of testing the opening target.
type OpeningOutcome int

const (
	OpeningNone OpeningOutcome = iota
	OpeningRim
	OpeningPass
)

// openingRims returns the solid parts of the container: the outer side walls
// and the rim strips beside the mouth.
func (z *Zone) openingRims() []Rect {
	wall := 6.0
	out := z.Outer
	op := z.Opening
	return []Rect{
		{X: out.X, Y: out.Y, W: wall, H: out.H},                        // left wall
		{X: out.Right() - wall, Y: out.Y, W: wall, H: out.H},           // right wall
		{X: out.X, Y: op.Y, W: op.X - out.X, H: wall},                  // left rim strip
		{X: op.Right(), Y: op.Y, W: out.Right() - op.Right(), H: wall}, // right rim strip
	}
}

// CheckOpening classifies the tick: rim contact beats pass-through so a piece
// clipping the mouth edge bounces instead of scoring, and the two outcomes
// can never both fire in one tick.
func (z *Zone) CheckOpening(b *Body, tn *Tuning) OpeningOutcome {
	if z == nil || b == nil {
		return OpeningNone
	}

	for _, rim := range z.openingRims() {
		if rim.W <= 0 || rim.H <= 0 {
			continue
		}
		if hit, _ := ResolveRect(b, rim, tn.ObstacleBounce); hit {
			return OpeningRim
		}
	}

	halfW := z.Opening.W/2 + z.OpeningForgiveness
	cx := z.Opening.X + z.Opening.W/2
	if b.Vel.Y > 0 &&
		b.Pos.X > cx-halfW && b.Pos.X < cx+halfW &&
		b.Pos.Y > z.Opening.Y &&
		b.Pos.Y < z.Outer.Bottom() {
		return OpeningPass
	}

	return OpeningNone
}

// CircularOutcome is the per-tick result of testing the circular target.
type CircularOutcome int

const (
	CircularNone CircularOutcome = iota
	CircularEdge
	CircularCenterHit
)

// CheckCircular classifies distance to the target: inside the center ring is
// a hit, inside the edge ring deflects the body, outside is no interaction.
func (z *Zone) CheckCircular(b *Body, tn *Tuning) CircularOutcome {
	if z == nil || b == nil {
		return CircularNone
	}
	k := z.RadiusForgiveness
	if k < 0.5 {
		k = 0.5
	}
	reach := b.Radius * k

	// Broad phase before the exact distance.
	outerGrab := z.EdgeRadius + reach
	if b.Pos.X < z.Center.X-outerGrab || b.Pos.X > z.Center.X+outerGrab ||
		b.Pos.Y < z.Center.Y-outerGrab || b.Pos.Y > z.Center.Y+outerGrab {
		return CircularNone
	}

	dist := b.Pos.Distance(z.Center)
	if dist < z.CenterRadius+reach {
		return CircularCenterHit
	}
	if dist < z.EdgeRadius+reach {
		z.Grazed = true
		n, ok := SafeNormalize(b.Pos.Sub(z.Center))
		if ok {
			depth := z.EdgeRadius + reach - dist
			resolveContact(b, Contact{Normal: n, Depth: depth}, tn.ObstacleBounce)
		}
		return CircularEdge
	}
	return CircularNone
}

// CheckDrain reports immediate capture: entering the radius wins with no
// stability requirement.
func (z *Zone) CheckDrain(b *Body) bool {
	if z == nil || b == nil {
		return false
	}
	grab := z.DrainRadius
	if b.Pos.X < z.Center.X-grab || b.Pos.X > z.Center.X+grab ||
		b.Pos.Y < z.Center.Y-grab || b.Pos.Y > z.Center.Y+grab {
		return false
	}
	return b.Pos.Distance(z.Center) < grab
}
