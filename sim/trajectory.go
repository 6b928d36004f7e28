package sim

// Aim records an in-progress drag-to-aim gesture. Written only by the input
// layer; the session reads it to build the preview and to launch.
type Aim struct {
	Active  bool
	Anchor  Vec
	Current Vec
}

// Start anchors a new aim gesture at p.
func (a *Aim) Start(p Vec) {
	if a == nil {
		return
	}
	a.Active = true
	a.Anchor = p
	a.Current = p
}

// Move updates the pointer position mid-drag.
func (a *Aim) Move(p Vec) {
	if a == nil || !a.Active {
		return
	}
	a.Current = p
}

// End finishes the gesture.
func (a *Aim) End() {
	if a == nil {
		return
	}
	a.Active = false
}

// Vector resolves the drag into a launch direction and power. ok is false for
// drags under the cancel threshold, which must be treated as no launch at
// all, never as a zero-power launch with an undefined direction.
func (a *Aim) Vector(tn *Tuning) (dir Vec, power float64, ok bool) {
	if a == nil {
		return Vec{}, 0, false
	}
	delta := a.Anchor.Sub(a.Current)
	dist := delta.Length()
	if dist < tn.CancelDrag {
		return Vec{}, 0, false
	}
	dir, ok = SafeNormalize(delta)
	if !ok {
		return Vec{}, 0, false
	}
	if dist > tn.MaxDragLength {
		dist = tn.MaxDragLength
	}
	return dir, dist, true
}

// LaunchVelocity converts an aim into the velocity assigned at release. The
// preview seeds from this same value, so the two can never disagree.
func LaunchVelocity(dir Vec, power float64, tn *Tuning) Vec {
	v := dir.Mult(power * tn.LaunchScale)
	v.Y -= tn.LaunchLift
	return v
}

// PredictPath forward-simulates the shared integrator from start with the
// given velocity, without touching any real state. One point per step.
func PredictPath(start, vel Vec, tn *Tuning, steps int) []Vec {
	if steps <= 0 {
		steps = tn.PreviewSteps
	}
	path := make([]Vec, 0, steps)
	pos := start
	for i := 0; i < steps; i++ {
		pos, vel = integrate(pos, vel, tn)
		path = append(path, pos)
	}
	return path
}
