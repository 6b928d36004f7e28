package sim

import "math"

// Stack holds the pieces that already landed in the stacking variant, in
// placement order. The live body rests on the highest landed piece directly
// beneath it, or on the base rect when the column is empty.
type Stack struct {
	Base   Rect
	Landed []*Body
}

// SurfaceAt returns the resting surface height (screen y, smaller is higher)
// at horizontal position x, skipping the landed body at index skip (-1 for
// none) so collapse checks don't self-support.
func (s *Stack) SurfaceAt(x float64, tn *Tuning, skip int) float64 {
	// The base only supports pieces over its horizontal extent; everywhere
	// else a piece falls until it leaves the screen.
	surface := math.Inf(1)
	if x >= s.Base.X && x <= s.Base.Right() {
		surface = s.Base.Y
	}
	for i, b := range s.Landed {
		if i == skip || b == nil {
			continue
		}
		if abs(x-b.Pos.X) >= tn.StackOverlap {
			continue
		}
		top := b.Pos.Y - b.VerticalExtent*tn.StackGap
		if top < surface {
			surface = top
		}
	}
	return surface
}

// Supports reports whether the body is resting on the current stack surface:
// over the base rect horizontally and flush with the surface height. The
// tolerance is half the body's extent; the settle-speed gate does the rest.
func (s *Stack) Supports(b *Body, tn *Tuning) bool {
	if s == nil || b == nil {
		return false
	}
	if b.Pos.X < s.Base.X || b.Pos.X > s.Base.Right() {
		return false
	}
	surface := s.SurfaceAt(b.Pos.X, tn, -1)
	return abs(b.Bottom()-surface) <= b.VerticalExtent/2
}

// Resolve lands the live body on the stack surface when it crosses it moving
// downward. Returns true on contact.
func (s *Stack) Resolve(b *Body, tn *Tuning) bool {
	if s == nil || b == nil || b.State != BodyFree || b.Vel.Y < 0 {
		return false
	}
	if b.Pos.X < s.Base.X-b.Radius || b.Pos.X > s.Base.Right()+b.Radius {
		return false
	}
	surface := s.SurfaceAt(b.Pos.X, tn, -1)
	if b.Bottom() < surface {
		return false
	}
	b.Pos.Y = surface - b.VerticalExtent
	b.Vel.Y = -abs(b.Vel.Y) * tn.ObstacleBounce
	if abs(b.Vel.Y) < 0.3 {
		b.Vel.Y = 0
	}
	b.Vel.X *= 0.8
	return true
}

// Land moves the live body into the landed list. Placement order is append
// order, not height order.
func (s *Stack) Land(b *Body) {
	if s == nil || b == nil {
		return
	}
	b.Vel = Vec{}
	b.RotationSpeed = 0
	s.Landed = append(s.Landed, b)
}

// Collapse runs a light gravity pass over the landed pieces so a piece whose
// support vanished falls on its own. Pieces that leave the screen are evicted.
func (s *Stack) Collapse(tn *Tuning, screenH float64) {
	if s == nil {
		return
	}
	// Resting heights come from the pre-collapse column so evicting a piece
	// mid-pass can't shift what its neighbours rest on, and the skip index
	// stays aligned with the list being read.
	rests := make([]float64, len(s.Landed))
	for i, b := range s.Landed {
		if b == nil {
			continue
		}
		rests[i] = s.SurfaceAt(b.Pos.X, tn, i) - b.VerticalExtent
	}

	kept := make([]*Body, 0, len(s.Landed))
	for i, b := range s.Landed {
		if b == nil {
			continue
		}
		rest := rests[i]
		if b.Pos.Y < rest-0.5 {
			b.Vel.Y += tn.CollapseGravity
			b.Pos.Y += b.Vel.Y
			if b.Pos.Y >= rest {
				b.Pos.Y = rest
				b.Vel.Y = 0
			}
		} else {
			b.Vel.Y = 0
		}
		if b.BelowScreen(screenH) {
			continue
		}
		kept = append(kept, b)
	}
	s.Landed = kept
}
