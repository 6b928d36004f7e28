package sim

import "time"

// StabilityTracker accumulates dwell time while a body stays settled inside a
// zone. Any disturbance resets the timer immediately; there is no partial
// credit. Fire happens exactly once per attempt.
type StabilityTracker struct {
	Dwell time.Duration
	fired bool
}

// Observe feeds one tick's settled predicate. It returns true on the single
// tick where the dwell requirement is first satisfied. The body's
// SettledSince field mirrors the timer so snapshots can show progress.
func (st *StabilityTracker) Observe(b *Body, now time.Time, settled bool) bool {
	if st == nil || b == nil || st.fired {
		return false
	}
	if !settled {
		b.SettledSince = time.Time{}
		return false
	}
	if b.SettledSince.IsZero() {
		b.SettledSince = now
		return false
	}
	if now.Sub(b.SettledSince) >= st.Dwell {
		st.fired = true
		return true
	}
	return false
}

// Progress reports dwell completion in [0,1] for the HUD.
func (st *StabilityTracker) Progress(b *Body, now time.Time) float64 {
	if st == nil || b == nil || b.SettledSince.IsZero() || st.Dwell <= 0 {
		return 0
	}
	p := float64(now.Sub(b.SettledSince)) / float64(st.Dwell)
	return clamp(p, 0, 1)
}

// Reset re-arms the tracker for a fresh attempt or body.
func (st *StabilityTracker) Reset() {
	if st == nil {
		return
	}
	st.fired = false
}

// settledOn reports whether the body counts as settled on the zone: inside
// its bounds with both velocity components under the settle threshold.
func settledOn(b *Body, z *Zone, stack *Stack, tn *Tuning) bool {
	if b == nil || z == nil || b.State != BodyFree {
		return false
	}
	if abs(b.Vel.X) >= tn.SettleSpeed || abs(b.Vel.Y) >= tn.SettleSpeed {
		return false
	}
	switch z.Kind {
	case ZoneLanding:
		return z.WithinLanding(b)
	case ZoneStack:
		return stack != nil && stack.Supports(b, tn)
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
