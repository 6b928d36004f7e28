package sim

// BodyView is the render-facing copy of a body.
type BodyView struct {
	Pos            Vec
	Radius         float64
	VerticalExtent float64
	Rotation       float64
	State          BodyState
	Spoilage       float64
}

// HazardView is the render-facing copy of a hazard with motion applied.
type HazardView struct {
	Kind     HazardKind
	Bounds   Rect
	Segments []Vec
}

// Snapshot is the read-only view handed to the renderer each tick. It copies
// everything the renderer needs so the next Advance can't race a draw.
type Snapshot struct {
	Phase Phase

	HasBody bool
	Body    BodyView

	Platform    Platform
	HasPlatform bool
	Tuning      Tuning

	Landed        []BodyView
	Hazards       []HazardView
	Obstacles     []Rect
	Zone          Zone
	Ramp          []Vec
	Preview       []Vec
	Aiming        bool
	Successes     int
	Required      int
	Attempts      int
	DwellProgress float64
}

func bodyView(b *Body) BodyView {
	return BodyView{
		Pos:            b.Pos,
		Radius:         b.Radius,
		VerticalExtent: b.VerticalExtent,
		Rotation:       b.Rotation,
		State:          b.State,
		Spoilage:       b.Spoilage,
	}
}

// Snapshot copies the current simulation state for rendering.
func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Phase:         s.Phase,
		Platform:      s.Platform,
		HasPlatform:   s.Level.HasPlatform,
		Tuning:        s.Tuning,
		Obstacles:     s.Level.Obstacles,
		Zone:          s.Level.Zone,
		Successes:     s.Successes,
		Required:      s.Level.Required,
		Attempts:      s.Attempts,
		Aiming:        s.Phase == PhaseAiming,
		DwellProgress: s.DwellProgress(),
	}
	if s.Body != nil {
		snap.HasBody = true
		snap.Body = bodyView(s.Body)
	}
	for _, b := range s.Stack.Landed {
		if b != nil {
			snap.Landed = append(snap.Landed, bodyView(b))
		}
	}
	for i := range s.Level.Hazards {
		h := &s.Level.Hazards[i]
		snap.Hazards = append(snap.Hazards, HazardView{
			Kind:     h.Kind,
			Bounds:   h.EffectiveBounds(),
			Segments: h.EffectiveSegments(),
		})
	}
	if len(s.Ramp) > 0 {
		snap.Ramp = append([]Vec(nil), s.Ramp...)
	}
	if len(s.Preview) > 0 {
		snap.Preview = append([]Vec(nil), s.Preview...)
	}
	return snap
}
