package sim

import "github.com/jakecoffman/cp"

// Vec is the simulation's 2D vector type, shared with the cp package so level
// and render code can pass vectors around without conversion.
type Vec = cp.Vector

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in screen space (y grows downward).
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Vec {
	return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ClosestPoint clamps p to the bounds of r.
func (r Rect) ClosestPoint(p Vec) Vec {
	return Vec{
		X: clamp(p.X, r.X, r.Right()),
		Y: clamp(p.Y, r.Y, r.Bottom()),
	}
}

// Shift returns r translated by d.
func (r Rect) Shift(d Vec) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Overlaps reports whether two rectangles intersect. Used as the broad phase
// before exact contact math.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// ClosestPointOnSegment projects p onto the segment ab, clamping the
// parametric t to [0,1]. A degenerate segment collapses to its endpoint.
func ClosestPointOnSegment(p, a, b Vec) Vec {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mult(t))
}

// SafeNormalize returns the unit vector of v, or ok=false for a zero-length
// input so callers can skip the operation instead of propagating NaN.
func SafeNormalize(v Vec) (Vec, bool) {
	l := v.Length()
	if l == 0 {
		return Vec{}, false
	}
	return v.Mult(1 / l), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
