package levels

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/yaml.v3"

	"pandrop/sim"
)

// Variant names. Each selects a zone family and a set of pan capabilities.
const (
	VariantDrop  = "drop"  // steer the pan, land the piece on the target
	VariantStack = "stack" // land several pieces on top of each other
	VariantFlip  = "flip"  // catch on the pan, flick through the opening
	VariantRamp  = "ramp"  // draw walls to guide the falling piece
	VariantShot  = "shot"  // catch, aim, and hit the circular target
)

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func (r RectSpec) rect() sim.Rect {
	return sim.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

type ScreenSpec struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type BodySpec struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

type PlatformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Tiltable *bool   `yaml:"tiltable"`
}

// TargetSpec describes the win zone. Only the fields for Kind are read.
type TargetSpec struct {
	Kind string `yaml:"kind"`

	Rect RectSpec `yaml:"rect"` // landing, stack

	Outer       RectSpec `yaml:"outer"`   // opening
	Opening     RectSpec `yaml:"opening"` // opening
	Forgiveness float64  `yaml:"forgiveness"`

	Center            PointSpec `yaml:"center"` // circular, drain
	CenterRadius      float64   `yaml:"center_radius"`
	EdgeRadius        float64   `yaml:"edge_radius"`
	RadiusForgiveness float64   `yaml:"radius_forgiveness"`

	Radius float64 `yaml:"radius"` // drain
}

// HazardSpec mirrors the original level vocabulary: knife is instant-fail,
// fire and grill spoil the piece over contact time. A hazard is either a rect
// or a polyline of points, optionally moved by a tengo script.
type HazardSpec struct {
	Kind   string      `yaml:"kind"`
	X      float64     `yaml:"x"`
	Y      float64     `yaml:"y"`
	W      float64     `yaml:"w"`
	H      float64     `yaml:"h"`
	Points []PointSpec `yaml:"points"`
	Script string      `yaml:"script"`
}

// TuningSpec overrides individual sim constants. Unset fields keep defaults.
type TuningSpec struct {
	Gravity        *float64 `yaml:"gravity"`
	AirFriction    *float64 `yaml:"air_friction"`
	WallBounce     *float64 `yaml:"wall_bounce"`
	ObstacleBounce *float64 `yaml:"obstacle_bounce"`
	RampBounce     *float64 `yaml:"ramp_bounce"`
	PlatformBounce *float64 `yaml:"platform_bounce"`
	CatchBoost     *float64 `yaml:"catch_boost"`
	CatchSpeed     *float64 `yaml:"catch_speed"`
	PlatformCarry  *float64 `yaml:"platform_carry"`
	TiltScale      *float64 `yaml:"tilt_scale"`
	SettleSpeed    *float64 `yaml:"settle_speed"`
	DwellMs        *int     `yaml:"dwell_ms"`
	LaunchScale    *float64 `yaml:"launch_scale"`
	LaunchLift     *float64 `yaml:"launch_lift"`
	MaxDragLength  *float64 `yaml:"max_drag_length"`
	CancelDrag     *float64 `yaml:"cancel_drag"`
	PreviewSteps   *int     `yaml:"preview_steps"`
	SpoilRate      *float64 `yaml:"spoil_rate"`
	StackOverlap   *float64 `yaml:"stack_overlap"`
}

// LevelSpec is one yaml level file.
type LevelSpec struct {
	Name      string        `yaml:"name"`
	Variant   string        `yaml:"variant"`
	Screen    ScreenSpec    `yaml:"screen"`
	Dispenser PointSpec     `yaml:"dispenser"`
	Body      BodySpec      `yaml:"body"`
	Platform  *PlatformSpec `yaml:"platform"`
	Target    TargetSpec    `yaml:"target"`
	Hazards   []HazardSpec  `yaml:"hazards"`
	Obstacles []RectSpec    `yaml:"obstacles"`
	Required  int           `yaml:"required"`
	Tuning    *TuningSpec   `yaml:"tuning"`
}

// Parse unmarshals a level spec and fills defaults.
func Parse(data []byte) (*LevelSpec, error) {
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ApplyDefaults fills in unset geometry with playable values.
func (s *LevelSpec) ApplyDefaults() {
	if s == nil {
		return
	}
	if s.Screen.W <= 0 {
		s.Screen.W = 360
	}
	if s.Screen.H <= 0 {
		s.Screen.H = 640
	}
	if s.Body.Radius <= 0 {
		s.Body.Radius = 16
	}
	if s.Body.Height <= 0 {
		s.Body.Height = s.Body.Radius * 0.8
	}
	if s.Required < 1 {
		s.Required = 1
	}
	if s.Target.Kind == "circular" && s.Target.RadiusForgiveness == 0 {
		s.Target.RadiusForgiveness = 0.7
	}
	if s.Platform != nil {
		if s.Platform.W <= 0 {
			s.Platform.W = 130
		}
		if s.Platform.H <= 0 {
			s.Platform.H = 14
		}
	}
}

// Validate rejects specs the simulation cannot run.
func (s *LevelSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("levels: nil spec")
	}
	switch s.Variant {
	case VariantDrop, VariantStack, VariantFlip, VariantRamp, VariantShot:
	default:
		return fmt.Errorf("levels: %s: unknown variant %q", s.Name, s.Variant)
	}
	switch s.Target.Kind {
	case "landing", "stack", "opening", "circular", "drain":
	default:
		return fmt.Errorf("levels: %s: unknown target kind %q", s.Name, s.Target.Kind)
	}
	for i, h := range s.Hazards {
		switch h.Kind {
		case "knife", "fire", "grill":
		default:
			return fmt.Errorf("levels: %s: hazard %d: unknown kind %q", s.Name, i, h.Kind)
		}
		if len(h.Points) == 1 {
			return fmt.Errorf("levels: %s: hazard %d: polyline needs at least 2 points", s.Name, i)
		}
	}
	if needsPlatform(s.Variant) && s.Platform == nil {
		return fmt.Errorf("levels: %s: variant %q requires a platform", s.Name, s.Variant)
	}
	return nil
}

func needsPlatform(variant string) bool {
	switch variant {
	case VariantFlip, VariantShot:
		return true
	}
	return false
}

func hazardKind(kind string) sim.HazardKind {
	if kind == "knife" {
		return sim.HazardInstant
	}
	return sim.HazardSpoil
}

func (s *LevelSpec) zone() sim.Zone {
	t := s.Target
	switch t.Kind {
	case "stack":
		return sim.Zone{Kind: sim.ZoneStack, Landing: t.Rect.rect()}
	case "opening":
		return sim.Zone{
			Kind:               sim.ZoneOpening,
			Outer:              t.Outer.rect(),
			Opening:            t.Opening.rect(),
			OpeningForgiveness: t.Forgiveness,
		}
	case "circular":
		return sim.Zone{
			Kind:              sim.ZoneCircular,
			Center:            sim.V(t.Center.X, t.Center.Y),
			CenterRadius:      t.CenterRadius,
			EdgeRadius:        t.EdgeRadius,
			RadiusForgiveness: t.RadiusForgiveness,
		}
	case "drain":
		return sim.Zone{
			Kind:        sim.ZoneDrain,
			Center:      sim.V(t.Center.X, t.Center.Y),
			DrainRadius: t.Radius,
		}
	}
	return sim.Zone{Kind: sim.ZoneLanding, Landing: t.Rect.rect()}
}

func (s *LevelSpec) tuning() sim.Tuning {
	tn := sim.DefaultTuning()
	o := s.Tuning
	if o == nil {
		return tn
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&tn.Gravity, o.Gravity)
	setF(&tn.AirFriction, o.AirFriction)
	setF(&tn.WallBounce, o.WallBounce)
	setF(&tn.ObstacleBounce, o.ObstacleBounce)
	setF(&tn.RampBounce, o.RampBounce)
	setF(&tn.PlatformBounce, o.PlatformBounce)
	setF(&tn.CatchBoost, o.CatchBoost)
	setF(&tn.CatchSpeed, o.CatchSpeed)
	setF(&tn.PlatformCarry, o.PlatformCarry)
	setF(&tn.TiltScale, o.TiltScale)
	setF(&tn.SettleSpeed, o.SettleSpeed)
	setF(&tn.LaunchScale, o.LaunchScale)
	setF(&tn.LaunchLift, o.LaunchLift)
	setF(&tn.MaxDragLength, o.MaxDragLength)
	setF(&tn.CancelDrag, o.CancelDrag)
	setF(&tn.SpoilRate, o.SpoilRate)
	setF(&tn.StackOverlap, o.StackOverlap)
	if o.DwellMs != nil {
		tn.Dwell = time.Duration(*o.DwellMs) * time.Millisecond
	}
	if o.PreviewSteps != nil {
		tn.PreviewSteps = *o.PreviewSteps
	}
	return tn
}

// Build converts the spec into the immutable sim-facing level, compiling any
// hazard motion scripts. A script that fails to compile is logged and leaves
// that hazard static; motion failure never blocks play.
func (s *LevelSpec) Build() (sim.Level, error) {
	if err := s.Validate(); err != nil {
		return sim.Level{}, err
	}

	lv := sim.Level{
		Name:               s.Name,
		ScreenW:            s.Screen.W,
		ScreenH:            s.Screen.H,
		Spawn:              sim.V(s.Dispenser.X, s.Dispenser.Y),
		BodyRadius:         s.Body.Radius,
		BodyVerticalExtent: s.Body.Height,
		Zone:               s.zone(),
		Required:           s.Required,
		Tuning:             s.tuning(),
	}

	switch s.Variant {
	case VariantDrop, VariantStack:
		lv.Tiltable = true
	case VariantFlip, VariantShot:
		lv.Catchable = true
		lv.Aimable = true
	case VariantRamp:
		lv.Drawable = true
	}

	if s.Platform != nil {
		lv.HasPlatform = true
		lv.PlatformStart = sim.V(s.Platform.X, s.Platform.Y)
		lv.PlatformW = s.Platform.W
		lv.PlatformH = s.Platform.H
		if s.Platform.Tiltable != nil {
			lv.Tiltable = *s.Platform.Tiltable
		}
	}

	for _, r := range s.Obstacles {
		lv.Obstacles = append(lv.Obstacles, r.rect())
	}

	for _, h := range s.Hazards {
		hz := sim.Hazard{
			Kind:   hazardKind(h.Kind),
			Bounds: sim.Rect{X: h.X, Y: h.Y, W: h.W, H: h.H},
		}
		for _, p := range h.Points {
			hz.Segments = append(hz.Segments, sim.V(p.X, p.Y))
		}
		if h.Script != "" {
			motion, err := LoadMotion(h.Script)
			if err != nil {
				log.Printf("levels: %s: hazard script %s: %v (hazard stays static)", s.Name, h.Script, err)
			} else {
				hz.Motion = motion.OffsetAt
			}
		}
		lv.Hazards = append(lv.Hazards, hz)
	}

	return lv, nil
}
