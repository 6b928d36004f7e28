package sim

import "math"

// Platform is the player-steerable pan. The input layer owns its position,
// velocity, and tilt; the physics step only reads it.
type Platform struct {
	Pos    Vec // center of the pan surface
	Width  float64
	Height float64
	Tilt   float64 // -1..1, derived from recent horizontal drag delta
	Vel    Vec

	Tiltable bool
	Dragging bool
}

// Top is the y of the untilted surface.
func (p *Platform) Top() float64 {
	return p.Pos.Y - p.Height/2
}

// SurfaceYAt returns the surface height at horizontal position x. The tilt
// offsets the surface linearly across the pan's width.
func (p *Platform) SurfaceYAt(x float64, tn *Tuning) float64 {
	rel := 0.0
	if p.Width > 0 {
		rel = clamp((x-p.Pos.X)/(p.Width/2), -1, 1)
	}
	return p.Top() - p.Tilt*tn.TiltScale*rel
}

// Normal is the upward surface normal of the tilted pan.
func (p *Platform) Normal(tn *Tuning) Vec {
	if p.Width <= 0 {
		return Vec{Y: -1}
	}
	// Surface slope dy/dx is -tilt*TiltScale / (width/2).
	slope := -p.Tilt * tn.TiltScale / (p.Width / 2)
	n := Vec{X: slope, Y: -1}
	l := math.Hypot(n.X, n.Y)
	return n.Mult(1 / l)
}

// ContainsX reports whether x lies over the pan surface, with a little slack
// at the edges so a piece doesn't slip through the corner.
func (p *Platform) ContainsX(x, slack float64) bool {
	half := p.Width/2 + slack
	return x >= p.Pos.X-half && x <= p.Pos.X+half
}

// DragTo moves the pan toward pos, recording the instantaneous velocity and
// deriving tilt from the horizontal delta. Called by the input layer only.
func (p *Platform) DragTo(pos Vec, tn *Tuning) {
	if p == nil {
		return
	}
	delta := pos.Sub(p.Pos)
	p.Vel = delta
	p.Pos = pos
	p.Dragging = true
	if p.Tiltable {
		p.Tilt = clamp(p.Tilt+delta.X*0.04, -1, 1)
	}
}

// Release ends a drag gesture.
func (p *Platform) Release() {
	if p == nil {
		return
	}
	p.Dragging = false
}

// Settle decays tilt and velocity once per tick while no drag is active.
func (p *Platform) Settle(tn *Tuning) {
	if p == nil {
		return
	}
	if !p.Dragging {
		p.Tilt *= tn.TiltDecay
		if math.Abs(p.Tilt) < 0.01 {
			p.Tilt = 0
		}
		p.Vel = p.Vel.Mult(0.5)
		if p.Vel.LengthSq() < 0.01 {
			p.Vel = Vec{}
		}
	} else {
		// Velocity is recomputed on every drag event; decay it here so a held
		// but motionless pointer reads as a still pan.
		p.Vel = p.Vel.Mult(0.5)
	}
}

// ClampToScreen keeps the pan inside the playfield.
func (p *Platform) ClampToScreen(width, height float64) {
	if p == nil {
		return
	}
	half := p.Width / 2
	p.Pos.X = clamp(p.Pos.X, half, width-half)
	p.Pos.Y = clamp(p.Pos.Y, p.Height, height-p.Height/2)
}
