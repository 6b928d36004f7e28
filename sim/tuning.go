package sim

import "time"

// Tuning collects every physics and feel constant in one place so levels can
// override individual values. All lengths are in screen pixels and all speeds
// in pixels per tick unless noted.
type Tuning struct {
	Gravity       float64 `yaml:"gravity"`
	AirFriction   float64 `yaml:"air_friction"`
	RotationDecay float64 `yaml:"rotation_decay"`

	// Screen-edge and generic surface response.
	WallBounce     float64 `yaml:"wall_bounce"`
	ObstacleBounce float64 `yaml:"obstacle_bounce"`
	RampBounce     float64 `yaml:"ramp_bounce"`

	// Platform contact.
	PlatformBounce float64 `yaml:"platform_bounce"`
	CatchBoost     float64 `yaml:"catch_boost"`
	CatchSpeed     float64 `yaml:"catch_speed"`
	PlatformCarry  float64 `yaml:"platform_carry"`
	PlatformSpin   float64 `yaml:"platform_spin"`
	TiltScale      float64 `yaml:"tilt_scale"`
	TiltDecay      float64 `yaml:"tilt_decay"`

	// Settling and dwell.
	SettleSpeed float64       `yaml:"settle_speed"`
	Dwell       time.Duration `yaml:"dwell"`

	// Aim and launch.
	LaunchScale   float64 `yaml:"launch_scale"`
	LaunchLift    float64 `yaml:"launch_lift"`
	MaxDragLength float64 `yaml:"max_drag_length"`
	CancelDrag    float64 `yaml:"cancel_drag"`
	PreviewSteps  int     `yaml:"preview_steps"`

	// Hazards.
	SpoilRate float64 `yaml:"spoil_rate"`

	// Stacking.
	StackGap        float64 `yaml:"stack_gap"`
	StackOverlap    float64 `yaml:"stack_overlap"`
	CollapseGravity float64 `yaml:"collapse_gravity"`
}

// DefaultTuning returns the baseline constants shared by every variant.
// Levels override fields by unmarshalling their tuning block on top of this.
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:       0.35,
		AirFriction:   0.995,
		RotationDecay: 0.97,

		WallBounce:     0.55,
		ObstacleBounce: 0.5,
		RampBounce:     0.6,

		PlatformBounce: 0.35,
		CatchBoost:     0.4,
		CatchSpeed:     0.9,
		PlatformCarry:  0.55,
		PlatformSpin:   0.02,
		TiltScale:      26,
		TiltDecay:      0.9,

		SettleSpeed: 0.6,
		Dwell:       1200 * time.Millisecond,

		LaunchScale:   0.11,
		LaunchLift:    1.5,
		MaxDragLength: 170,
		CancelDrag:    12,
		PreviewSteps:  36,

		SpoilRate: 0.02,

		StackGap:        1.0,
		StackOverlap:    28,
		CollapseGravity: 0.2,
	}
}
