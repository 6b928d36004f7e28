package sim

// HazardKind distinguishes how contact is punished.
type HazardKind int

const (
	// HazardInstant ends the attempt on any contact (knife).
	HazardInstant HazardKind = iota
	// HazardSpoil accumulates spoilage per contact tick and fails at 1 (fire, grill).
	HazardSpoil
)

func (k HazardKind) String() string {
	if k == HazardInstant {
		return "instant"
	}
	return "spoil"
}

// MotionFunc computes a hazard's offset from its home position at t seconds
// into the attempt. Supplied by the level layer (scripted); nil means static.
type MotionFunc func(t float64) Vec

// Hazard is a danger region: a rectangle or a polyline of wall segments.
// Geometry is immutable for the level; scripted motion shifts it by Offset.
type Hazard struct {
	Kind     HazardKind
	Bounds   Rect
	Segments []Vec

	Motion MotionFunc
	Offset Vec
}

// UpdateMotion recomputes the hazard's offset for the current attempt time.
// A panicking or failed script was already stripped by the level layer, so
// this is pure arithmetic.
func (h *Hazard) UpdateMotion(t float64) {
	if h == nil || h.Motion == nil {
		return
	}
	h.Offset = h.Motion(t)
}

// EffectiveBounds is the rect shifted by the current motion offset.
func (h *Hazard) EffectiveBounds() Rect {
	return h.Bounds.Shift(h.Offset)
}

// EffectiveSegments returns the polyline shifted by the current motion offset.
func (h *Hazard) EffectiveSegments() []Vec {
	if h.Offset == (Vec{}) || len(h.Segments) == 0 {
		return h.Segments
	}
	out := make([]Vec, len(h.Segments))
	for i, p := range h.Segments {
		out[i] = p.Add(h.Offset)
	}
	return out
}

// Resolve bounces the body off the hazard and reports contact.
func (h *Hazard) Resolve(b *Body, tn *Tuning) bool {
	if h == nil || b == nil {
		return false
	}
	if len(h.Segments) > 1 {
		hit, _ := ResolvePolyline(b, h.EffectiveSegments(), tn.ObstacleBounce)
		return hit
	}
	hit, _ := ResolveRect(b, h.EffectiveBounds(), tn.ObstacleBounce)
	return hit
}
