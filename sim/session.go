package sim

import "time"

// Phase is the per-attempt state machine.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseDispensing
	PhaseCaught
	PhaseAiming
	PhaseFlying
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseDispensing:
		return "dispensing"
	case PhaseCaught:
		return "caught"
	case PhaseAiming:
		return "aiming"
	case PhaseFlying:
		return "flying"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// Level is the immutable per-level configuration handed to a session. Built
// by the levels package from yaml; the session never reads files itself.
type Level struct {
	Name    string
	ScreenW float64
	ScreenH float64

	Spawn              Vec
	BodyRadius         float64
	BodyVerticalExtent float64

	Zone      Zone
	Hazards   []Hazard
	Obstacles []Rect
	Required  int

	HasPlatform   bool
	PlatformStart Vec
	PlatformW     float64
	PlatformH     float64
	Tiltable      bool

	// Variant capabilities.
	Catchable bool // slow pieces stick to the pan
	Aimable   bool // drag-to-aim launch from a caught piece
	Drawable  bool // player draws ramp walls before/while the piece falls

	Tuning Tuning
}

const (
	dispenseDelay = 350 * time.Millisecond
	respawnDelay  = 700 * time.Millisecond
)

// Session owns every piece of mutable simulation state for one level attempt
// sequence. Exactly one Advance call runs per frame; the input layer may only
// touch the platform, the aim, and the ramp through the methods below.
type Session struct {
	Level  Level
	Tuning Tuning

	Phase    Phase
	Body     *Body
	Platform Platform
	Stack    Stack
	Tracker  StabilityTracker
	Aim      Aim
	Ramp     []Vec
	Preview  []Vec

	Attempts  int
	Successes int

	events      EventQueue
	pendingAt   time.Time
	pendingNext Phase

	startedAt   time.Time
	now         time.Time
	failSince   time.Time
	aimReleased bool
	previewVel  Vec
	hasPreview  bool
}

// NewSession builds a session for the level and schedules the first dispense.
func NewSession(lv Level, now time.Time) *Session {
	s := &Session{
		Level:  lv,
		Tuning: lv.Tuning,
		Phase:  PhaseWaiting,
		Platform: Platform{
			Pos:      lv.PlatformStart,
			Width:    lv.PlatformW,
			Height:   lv.PlatformH,
			Tiltable: lv.Tiltable,
		},
		Stack:     Stack{Base: lv.Zone.Landing},
		Tracker:   StabilityTracker{Dwell: lv.Tuning.Dwell},
		startedAt: now,
		now:       now,
	}
	if lv.Required < 1 {
		s.Level.Required = 1
	}
	s.schedule(now.Add(dispenseDelay), PhaseDispensing)
	return s
}

// Events drains the pending simulation events.
func (s *Session) Events() []Event {
	return s.events.Drain()
}

// Now is the timestamp of the last Advance call.
func (s *Session) Now() time.Time {
	return s.now
}

// Advance runs exactly one simulation tick. The caller (the frame clock) must
// never overlap two calls.
func (s *Session) Advance(now time.Time) {
	if s == nil {
		return
	}
	s.now = now

	if !s.pendingAt.IsZero() && !now.Before(s.pendingAt) {
		next := s.pendingNext
		s.pendingAt = time.Time{}
		s.enter(next)
	}

	t := now.Sub(s.startedAt).Seconds()
	for i := range s.Level.Hazards {
		s.Level.Hazards[i].UpdateMotion(t)
	}

	if s.Level.HasPlatform {
		s.Platform.Settle(&s.Tuning)
		s.Platform.ClampToScreen(s.Level.ScreenW, s.Level.ScreenH)
	}

	switch s.Phase {
	case PhaseCaught:
		s.Body.FollowPlatform(&s.Platform, &s.Tuning)
		if s.Level.Aimable && s.Aim.Active {
			s.Phase = PhaseAiming
		}
	case PhaseAiming:
		s.Body.FollowPlatform(&s.Platform, &s.Tuning)
		s.updatePreview()
		if s.aimReleased {
			s.aimReleased = false
			s.resolveLaunch()
		}
	case PhaseFlying:
		s.stepFlying()
	}

	if s.Level.Zone.Kind == ZoneStack {
		s.Stack.Collapse(&s.Tuning, s.Level.ScreenH)
	}
}

// Snapshot-facing accessor for dwell progress.
func (s *Session) DwellProgress() float64 {
	if s == nil || s.Body == nil {
		return 0
	}
	return s.Tracker.Progress(s.Body, s.now)
}

func (s *Session) schedule(at time.Time, next Phase) {
	s.pendingAt = at
	s.pendingNext = next
}

func (s *Session) enter(p Phase) {
	switch p {
	case PhaseDispensing:
		s.Attempts++
		s.Body = NewBody(s.Level.Spawn, s.Level.BodyRadius, s.Level.BodyVerticalExtent)
		s.Tracker.Reset()
		s.failSince = time.Time{}
		s.Preview = nil
		s.hasPreview = false
		s.Phase = PhaseFlying
	default:
		s.Phase = p
	}
}

func (s *Session) updatePreview() {
	dir, power, ok := s.Aim.Vector(&s.Tuning)
	if !ok || s.Body == nil {
		s.Preview = nil
		s.hasPreview = false
		return
	}
	vel := LaunchVelocity(dir, power, &s.Tuning)
	s.previewVel = vel
	s.hasPreview = true
	s.Preview = PredictPath(s.Body.Pos, vel, &s.Tuning, s.Tuning.PreviewSteps)
}

func (s *Session) resolveLaunch() {
	dir, power, ok := s.Aim.Vector(&s.Tuning)
	if !ok || s.Body == nil {
		// Cancelled aim: back to resting on the pan.
		s.Preview = nil
		s.hasPreview = false
		s.Phase = PhaseCaught
		return
	}
	s.Body.Launch(LaunchVelocity(dir, power, &s.Tuning))
	s.Preview = nil
	s.Phase = PhaseFlying
}

func (s *Session) stepFlying() {
	b := s.Body
	if b == nil || b.State != BodyFree {
		return
	}
	tn := &s.Tuning
	lv := &s.Level

	b.Step(tn)
	b.ClampToScreen(lv.ScreenW, tn)

	supported := false

	if lv.HasPlatform {
		if ResolvePlatform(b, &s.Platform, tn) {
			if lv.Catchable && b.Speed() < tn.CatchSpeed {
				b.RestOn(&s.Platform, tn)
				s.Phase = PhaseCaught
				return
			}
		}
	}

	if lv.Drawable && len(s.Ramp) > 1 {
		_, sup := ResolvePolyline(b, s.Ramp, tn.RampBounce)
		supported = supported || sup
	}

	for _, r := range lv.Obstacles {
		_, sup := ResolveRect(b, r, tn.ObstacleBounce)
		supported = supported || sup
	}

	for i := range lv.Hazards {
		h := &lv.Hazards[i]
		if !h.Resolve(b, tn) {
			continue
		}
		if h.Kind == HazardInstant {
			s.fail(ReasonHazardContact)
			return
		}
		b.Spoilage += tn.SpoilRate
		if b.Spoilage >= 1 {
			b.Spoilage = 1
			s.fail(ReasonHazardContact)
			return
		}
	}

	inZone := false
	switch lv.Zone.Kind {
	case ZoneLanding:
		_, sup := ResolveRect(b, lv.Zone.Landing, tn.ObstacleBounce)
		supported = supported || sup
		inZone = lv.Zone.WithinLanding(b)
	case ZoneOpening:
		switch lv.Zone.CheckOpening(b, tn) {
		case OpeningPass:
			s.win(ReasonCaptureEntered)
			return
		case OpeningRim:
			supported = supported || b.Vel.Y <= 0 // rim strip contact from above
		}
	case ZoneCircular:
		switch lv.Zone.CheckCircular(b, tn) {
		case CircularCenterHit:
			s.win(ReasonCaptureEntered)
			return
		case CircularEdge:
			s.events.Push(Event{Kind: EventGraze})
		}
	case ZoneDrain:
		if lv.Zone.CheckDrain(b) {
			s.win(ReasonCaptureEntered)
			return
		}
	case ZoneStack:
		if s.Stack.Resolve(b, tn) {
			supported = true
		}
		inZone = s.Stack.Supports(b, tn)
	}

	if b.BelowScreen(lv.ScreenH) {
		s.fail(ReasonFellOffScreen)
		return
	}

	if lv.Zone.NeedsDwell() {
		settled := settledOn(b, &lv.Zone, &s.Stack, tn)
		if s.Tracker.Observe(b, s.now, settled) {
			if lv.Zone.Kind == ZoneStack {
				s.landOnStack()
			} else {
				s.win(ReasonDwellSatisfied)
			}
			return
		}
	}

	s.trackSettleOutside(b, supported, inZone, tn)
}

// trackSettleOutside fails the attempt when the piece has visibly come to
// rest somewhere that can never win (an obstacle, a rim, a drawn ramp).
func (s *Session) trackSettleOutside(b *Body, supported, inZone bool, tn *Tuning) {
	slow := abs(b.Vel.X) < tn.SettleSpeed && abs(b.Vel.Y) < tn.SettleSpeed
	if supported && slow && !inZone {
		if s.failSince.IsZero() {
			s.failSince = s.now
		} else if s.now.Sub(s.failSince) >= tn.Dwell {
			s.fail(ReasonSettledOutside)
		}
		return
	}
	s.failSince = time.Time{}
}

func (s *Session) landOnStack() {
	b := s.Body
	s.Stack.Land(b)
	s.Body = nil
	s.Successes++
	s.events.Push(Event{Kind: EventPieceLanded})
	if s.Successes >= s.Level.Required {
		s.Phase = PhaseWon
		s.events.Push(Event{Kind: EventWin, Reason: ReasonDwellSatisfied})
		s.events.Push(Event{Kind: EventLevelCleared})
		return
	}
	s.Phase = PhaseWaiting
	s.schedule(s.now.Add(respawnDelay), PhaseDispensing)
}

func (s *Session) win(reason Reason) {
	if s.Body != nil {
		s.Body.State = BodyWon
	}
	s.Successes++
	s.Phase = PhaseWon
	s.events.Push(Event{Kind: EventWin, Reason: reason})
	if s.Successes >= s.Level.Required {
		s.events.Push(Event{Kind: EventLevelCleared})
		return
	}
	s.schedule(s.now.Add(respawnDelay), PhaseDispensing)
}

func (s *Session) fail(reason Reason) {
	if s.Body != nil {
		s.Body.State = BodyLost
	}
	s.Phase = PhaseLost
	s.events.Push(Event{Kind: EventLoss, Reason: reason})
	s.schedule(s.now.Add(respawnDelay), PhaseDispensing)
}

// Restart abandons the current attempt sequence and begins the level over.
// Any pending transition for the old attempt is dropped first so a stale
// tick can't touch the new attempt's body.
func (s *Session) Restart(now time.Time) {
	if s == nil {
		return
	}
	s.pendingAt = time.Time{}
	s.Body = nil
	s.Stack.Landed = nil
	s.Ramp = nil
	s.Preview = nil
	s.Aim = Aim{}
	s.aimReleased = false
	s.Successes = 0
	s.Attempts = 0
	s.Tracker.Reset()
	s.failSince = time.Time{}
	s.Phase = PhaseWaiting
	s.startedAt = now
	s.now = now
	s.schedule(now.Add(dispenseDelay), PhaseDispensing)
}

// --- input layer surface ---------------------------------------------------
// These are the only mutations the gesture handler is allowed to make.

// DragPlatform moves the pan toward p.
func (s *Session) DragPlatform(p Vec) {
	if s == nil || !s.Level.HasPlatform {
		return
	}
	s.Platform.DragTo(p, &s.Tuning)
}

// ReleasePlatform ends the pan drag.
func (s *Session) ReleasePlatform() {
	if s == nil {
		return
	}
	s.Platform.Release()
}

// StartAim begins a drag-to-aim gesture. Only valid while a piece rests on
// the pan in an aimable variant.
func (s *Session) StartAim(p Vec) {
	if s == nil || !s.Level.Aimable || (s.Phase != PhaseCaught && s.Phase != PhaseAiming) {
		return
	}
	s.Aim.Start(p)
}

// MoveAim updates the aim pointer.
func (s *Session) MoveAim(p Vec) {
	if s == nil {
		return
	}
	s.Aim.Move(p)
}

// ReleaseAim finishes the aim; the next tick decides launch vs cancel.
func (s *Session) ReleaseAim() {
	if s == nil || !s.Aim.Active {
		return
	}
	s.Aim.End()
	if s.Phase == PhaseAiming {
		s.aimReleased = true
	}
}

// AddRampPoint appends a point to the drawn ramp, skipping points closer than
// a few pixels so a slow drag doesn't produce hundreds of segments.
func (s *Session) AddRampPoint(p Vec) {
	if s == nil || !s.Level.Drawable {
		return
	}
	if n := len(s.Ramp); n > 0 && s.Ramp[n-1].Distance(p) < 4 {
		return
	}
	s.Ramp = append(s.Ramp, p)
}

// ClearRamp erases the drawn ramp.
func (s *Session) ClearRamp() {
	if s == nil {
		return
	}
	s.Ramp = nil
}
