package sim

import (
	"testing"
	"time"
)

const tick = 16 * time.Millisecond

// run advances the session until pred returns true or maxTicks elapse,
// collecting every event on the way.
func run(s *Session, now time.Time, maxTicks int, pred func(ev Event) bool) (time.Time, []Event, bool) {
	var all []Event
	for i := 0; i < maxTicks; i++ {
		now = now.Add(tick)
		s.Advance(now)
		// Collect the whole drained batch before deciding; a tick can emit
		// several events at once (win + level-cleared).
		matched := false
		for _, ev := range s.Events() {
			all = append(all, ev)
			if pred != nil && pred(ev) {
				matched = true
			}
		}
		if matched {
			return now, all, true
		}
	}
	return now, all, false
}

func landingLevel() Level {
	tn := DefaultTuning()
	tn.Dwell = 120 * time.Millisecond
	return Level{
		Name: "drop", ScreenW: 320, ScreenH: 480,
		Spawn: V(140, 60), BodyRadius: 12, BodyVerticalExtent: 10,
		Zone:     Zone{Kind: ZoneLanding, Landing: Rect{X: 80, Y: 380, W: 120, H: 24}},
		Required: 1,
		Tuning:   tn,
	}
}

func TestAttemptWinsByDwellOnLandingRect(t *testing.T) {
	s := NewSession(landingLevel(), t0)

	_, events, ok := run(s, t0, 2000, func(ev Event) bool { return ev.Kind == EventWin })
	if !ok {
		t.Fatalf("no win event; phase=%v events=%v", s.Phase, events)
	}
	var win Event
	for _, ev := range events {
		if ev.Kind == EventWin {
			win = ev
		}
	}
	if win.Reason != ReasonDwellSatisfied {
		t.Fatalf("win reason = %q, want %q", win.Reason, ReasonDwellSatisfied)
	}
	if s.Phase != PhaseWon {
		t.Fatalf("phase = %v, want won", s.Phase)
	}

	cleared := false
	for _, ev := range events {
		if ev.Kind == EventLevelCleared {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("single-piece level must clear on first win")
	}
}

// Winning the last required piece emits the win and the level-cleared event
// in the same tick's drain, not across ticks.
func TestWinAndClearedShareOneDrain(t *testing.T) {
	s := NewSession(landingLevel(), t0)

	now := t0
	for i := 0; i < 2000; i++ {
		now = now.Add(tick)
		s.Advance(now)
		batch := s.Events()
		sawWin, sawCleared := false, false
		for _, ev := range batch {
			switch ev.Kind {
			case EventWin:
				sawWin = true
			case EventLevelCleared:
				sawCleared = true
			}
		}
		if sawWin {
			if !sawCleared {
				t.Fatalf("win drained without level-cleared in the same batch: %v", batch)
			}
			return
		}
		if sawCleared {
			t.Fatalf("level-cleared drained before the win: %v", batch)
		}
	}
	t.Fatalf("no win within 2000 ticks; phase=%v", s.Phase)
}

func TestAttemptLosesOffScreen(t *testing.T) {
	lv := landingLevel()
	lv.Spawn = V(30, 60) // over nothing
	lv.Zone.Landing = Rect{X: 200, Y: 380, W: 80, H: 24}
	s := NewSession(lv, t0)

	_, events, ok := run(s, t0, 2000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("no loss event; phase=%v", s.Phase)
	}
	last := events[len(events)-1]
	if last.Reason != ReasonFellOffScreen {
		t.Fatalf("loss reason = %q, want %q", last.Reason, ReasonFellOffScreen)
	}
}

func TestLossSchedulesRespawn(t *testing.T) {
	lv := landingLevel()
	lv.Spawn = V(30, 60)
	lv.Zone.Landing = Rect{X: 200, Y: 380, W: 80, H: 24}
	s := NewSession(lv, t0)

	now, _, ok := run(s, t0, 2000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("no loss event")
	}
	attempts := s.Attempts

	// The respawn transition must re-dispense a fresh body.
	for i := 0; i < 100 && s.Attempts == attempts; i++ {
		now = now.Add(tick)
		s.Advance(now)
	}
	if s.Attempts != attempts+1 {
		t.Fatalf("attempts = %d, want %d after respawn", s.Attempts, attempts+1)
	}
	if s.Body == nil || s.Body.State != BodyFree {
		t.Fatalf("respawn must produce a fresh free body")
	}
}

func TestInstantHazardFailsOnContact(t *testing.T) {
	lv := landingLevel()
	lv.Hazards = []Hazard{{
		Kind:   HazardInstant,
		Bounds: Rect{X: 100, Y: 200, W: 80, H: 16},
	}}
	s := NewSession(lv, t0)

	_, events, ok := run(s, t0, 1000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("no loss event; phase=%v", s.Phase)
	}
	last := events[len(events)-1]
	if last.Reason != ReasonHazardContact {
		t.Fatalf("loss reason = %q, want %q", last.Reason, ReasonHazardContact)
	}
	if s.Body.State != BodyLost {
		t.Fatalf("body state = %v, want lost", s.Body.State)
	}
}

func TestSpoilHazardAccumulates(t *testing.T) {
	lv := landingLevel()
	lv.Tuning.SpoilRate = 0.45
	lv.Hazards = []Hazard{{
		Kind:   HazardSpoil,
		Bounds: Rect{X: 80, Y: 360, W: 120, H: 24}, // where the piece lands
	}}
	lv.Zone.Landing = Rect{X: 80, Y: 380, W: 120, H: 24}
	s := NewSession(lv, t0)

	_, events, ok := run(s, t0, 2000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("spoilage never reached 1; phase=%v events=%v", s.Phase, events)
	}
	last := events[len(events)-1]
	if last.Reason != ReasonHazardContact {
		t.Fatalf("loss reason = %q, want %q", last.Reason, ReasonHazardContact)
	}
	if s.Body.Spoilage != 1 {
		t.Fatalf("spoilage = %v, want clamped at 1", s.Body.Spoilage)
	}
}

func TestScriptedHazardMotionShiftsBounds(t *testing.T) {
	lv := landingLevel()
	lv.Hazards = []Hazard{{
		Kind:   HazardInstant,
		Bounds: Rect{X: 0, Y: 200, W: 40, H: 16},
		Motion: func(tsec float64) Vec { return V(tsec*100, 0) },
	}}
	s := NewSession(lv, t0)

	s.Advance(t0.Add(2 * time.Second))
	got := s.Level.Hazards[0].EffectiveBounds()
	if !almostEq(got.X, 200) {
		t.Fatalf("hazard x = %v, want 200 after 2s of motion", got.X)
	}
}

func TestStackVariantLandsAndClears(t *testing.T) {
	tn := DefaultTuning()
	tn.Dwell = 100 * time.Millisecond
	lv := Level{
		Name: "stack", ScreenW: 320, ScreenH: 480,
		Spawn: V(160, 80), BodyRadius: 12, BodyVerticalExtent: 10,
		Zone:     Zone{Kind: ZoneStack, Landing: Rect{X: 100, Y: 380, W: 120, H: 24}},
		Required: 2,
		Tuning:   tn,
	}
	s := NewSession(lv, t0)

	now, events, ok := run(s, t0, 4000, func(ev Event) bool { return ev.Kind == EventPieceLanded })
	if !ok {
		t.Fatalf("first piece never landed; phase=%v", s.Phase)
	}
	if len(s.Stack.Landed) != 1 {
		t.Fatalf("landed list has %d pieces, want 1", len(s.Stack.Landed))
	}
	if s.Body != nil {
		t.Fatalf("live body must be cleared after landing")
	}

	_, events, ok = run(s, now, 4000, func(ev Event) bool { return ev.Kind == EventLevelCleared })
	if !ok {
		t.Fatalf("level never cleared; successes=%d phase=%v events=%v", s.Successes, s.Phase, events)
	}
	if len(s.Stack.Landed) != 2 {
		t.Fatalf("landed list has %d pieces, want 2", len(s.Stack.Landed))
	}
	if s.Stack.Landed[1].Pos.Y >= s.Stack.Landed[0].Pos.Y {
		t.Fatalf("second piece must rest above the first")
	}
}

func TestDrainCaptureIsImmediate(t *testing.T) {
	lv := landingLevel()
	lv.Zone = Zone{Kind: ZoneDrain, Center: V(140, 300), DrainRadius: 40}
	s := NewSession(lv, t0)

	_, events, ok := run(s, t0, 1000, func(ev Event) bool { return ev.Kind == EventWin })
	if !ok {
		t.Fatalf("drain never captured; phase=%v events=%v", s.Phase, events)
	}
	var win Event
	for _, ev := range events {
		if ev.Kind == EventWin {
			win = ev
		}
	}
	if win.Reason != ReasonCaptureEntered {
		t.Fatalf("win reason = %q, want %q", win.Reason, ReasonCaptureEntered)
	}
}

func TestSettleOutsideTargetFails(t *testing.T) {
	lv := landingLevel()
	// An obstacle shelf catches the piece far from the landing rect.
	lv.Spawn = V(60, 60)
	lv.Obstacles = []Rect{{X: 20, Y: 240, W: 80, H: 16}}
	lv.Zone.Landing = Rect{X: 220, Y: 380, W: 80, H: 24}
	s := NewSession(lv, t0)

	_, events, ok := run(s, t0, 4000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("no loss event; phase=%v", s.Phase)
	}
	last := events[len(events)-1]
	if last.Reason != ReasonSettledOutside {
		t.Fatalf("loss reason = %q, want %q", last.Reason, ReasonSettledOutside)
	}
}

func TestRestartDropsPendingTransition(t *testing.T) {
	lv := landingLevel()
	lv.Spawn = V(30, 60)
	lv.Zone.Landing = Rect{X: 200, Y: 380, W: 80, H: 24}
	s := NewSession(lv, t0)

	now, _, ok := run(s, t0, 2000, func(ev Event) bool { return ev.Kind == EventLoss })
	if !ok {
		t.Fatalf("no loss event")
	}

	// Restart before the respawn timer fires: the old attempt's pending
	// transition must not leak into the new sequence.
	s.Restart(now)
	if s.Attempts != 0 || s.Successes != 0 {
		t.Fatalf("restart must zero counters")
	}
	now = now.Add(tick)
	s.Advance(now)
	if s.Phase != PhaseWaiting {
		t.Fatalf("phase = %v immediately after restart, want waiting", s.Phase)
	}

	_, _, _ = run(s, now, 100, nil)
	if s.Body == nil {
		t.Fatalf("fresh dispense never happened after restart")
	}
	if s.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts)
	}
}

func TestRampSegmentsDeflectBody(t *testing.T) {
	lv := landingLevel()
	lv.Drawable = true
	lv.Spawn = V(60, 60)
	lv.Zone.Landing = Rect{X: 200, Y: 380, W: 100, H: 24}
	s := NewSession(lv, t0)

	// Draw a ramp sloping down-right under the dispenser toward the target.
	s.AddRampPoint(V(20, 200))
	s.AddRampPoint(V(120, 260))
	if len(s.Ramp) != 2 {
		t.Fatalf("ramp has %d points, want 2", len(s.Ramp))
	}

	deflected := false
	now := t0
	for i := 0; i < 600; i++ {
		now = now.Add(tick)
		s.Advance(now)
		if s.Body != nil && s.Body.State == BodyFree && s.Body.Vel.X > 0.5 {
			deflected = true
			break
		}
	}
	if !deflected {
		t.Fatalf("ramp never pushed the piece sideways")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	lv := landingLevel()
	lv.HasPlatform = true
	lv.PlatformStart = V(160, 306)
	lv.PlatformW = 130
	lv.PlatformH = 12
	s := NewSession(lv, t0)
	_, _, _ = run(s, t0, 60, nil)

	snap := s.Snapshot()
	if !snap.HasBody {
		t.Fatalf("snapshot missing the live body")
	}
	if snap.Required != 1 {
		t.Fatalf("required = %d, want 1", snap.Required)
	}
	if !snap.HasPlatform || snap.Platform.Width != 130 {
		t.Fatalf("snapshot platform wrong: %+v", snap.Platform)
	}
	// The renderer needs the level's tuning to place the tilted pan surface.
	if snap.Tuning.TiltScale != s.Tuning.TiltScale || snap.Tuning.TiltScale == 0 {
		t.Fatalf("snapshot tuning = %+v, want the session's", snap.Tuning)
	}

	// Mutating the snapshot's slices must not touch the session.
	if len(snap.Preview) == 0 {
		snap.Preview = append(snap.Preview, V(1, 1))
	}
	if len(s.Preview) != 0 {
		t.Fatalf("snapshot aliasing leaked into session state")
	}
}
