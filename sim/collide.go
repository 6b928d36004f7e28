package sim

// Contact describes a resolved penetration: the outward normal at the contact
// point and how deep the body sat inside the surface.
type Contact struct {
	Normal Vec
	Depth  float64
}

// reflect mirrors v about unit normal n and scales the result: v' = (v - 2(v·n)n) * bounce.
func reflect(v, n Vec, bounce float64) Vec {
	return v.Sub(n.Mult(2 * v.Dot(n))).Mult(bounce)
}

// circleRectContact tests the body's circle against a rectangle using the
// closest-point method. ok is false when there is no penetration.
func circleRectContact(b *Body, r Rect) (Contact, bool) {
	// Broad phase: reject anything outside the body's AABB cheaply.
	bb := Rect{X: b.Pos.X - b.Radius, Y: b.Pos.Y - b.Radius, W: b.Radius * 2, H: b.Radius * 2}
	if !bb.Overlaps(r) {
		return Contact{}, false
	}

	closest := r.ClosestPoint(b.Pos)
	d := b.Pos.Sub(closest)
	dist := d.Length()
	if dist >= b.Radius {
		return Contact{}, false
	}

	n, ok := SafeNormalize(d)
	if !ok {
		// Center is inside the rect; push out through the nearest face.
		n = nearestFaceNormal(b.Pos, r)
		return Contact{Normal: n, Depth: b.Radius}, true
	}
	return Contact{Normal: n, Depth: b.Radius - dist}, true
}

// circleSegmentContact tests the body against a wall segment ab.
func circleSegmentContact(b *Body, a, c Vec) (Contact, bool) {
	closest := ClosestPointOnSegment(b.Pos, a, c)
	d := b.Pos.Sub(closest)
	dist := d.Length()
	if dist >= b.Radius {
		return Contact{}, false
	}
	n, ok := SafeNormalize(d)
	if !ok {
		return Contact{}, false
	}
	return Contact{Normal: n, Depth: b.Radius - dist}, true
}

func nearestFaceNormal(p Vec, r Rect) Vec {
	left := p.X - r.X
	right := r.Right() - p.X
	top := p.Y - r.Y
	bottom := r.Bottom() - p.Y

	min := left
	n := Vec{X: -1}
	if right < min {
		min, n = right, Vec{X: 1}
	}
	if top < min {
		min, n = top, Vec{Y: -1}
	}
	if bottom < min {
		n = Vec{Y: 1}
	}
	return n
}

// resolveContact pushes the body out along the contact normal and reflects
// its velocity. Returns true when the contact left the body supported from
// below (normal pointing up).
func resolveContact(b *Body, ct Contact, bounce float64) bool {
	b.Pos = b.Pos.Add(ct.Normal.Mult(ct.Depth))
	b.Vel = reflect(b.Vel, ct.Normal, bounce)
	return ct.Normal.Y < -0.5
}

// ResolveRect bounces the body off a solid rectangle. Returns (hit, supported).
func ResolveRect(b *Body, r Rect, bounce float64) (bool, bool) {
	ct, ok := circleRectContact(b, r)
	if !ok {
		return false, false
	}
	return true, resolveContact(b, ct, bounce)
}

// ResolveSegment bounces the body off a wall segment.
func ResolveSegment(b *Body, a, c Vec, bounce float64) (bool, bool) {
	ct, ok := circleSegmentContact(b, a, c)
	if !ok {
		return false, false
	}
	return true, resolveContact(b, ct, bounce)
}

// ResolvePolyline bounces the body off every penetrated segment of a drawn
// wall. Returns (hit, supported).
func ResolvePolyline(b *Body, points []Vec, bounce float64) (bool, bool) {
	hit, supported := false, false
	for i := 0; i+1 < len(points); i++ {
		h, s := ResolveSegment(b, points[i], points[i+1], bounce)
		hit = hit || h
		supported = supported || s
	}
	return hit, supported
}

// ResolvePlatform collides the body with the tilted pan surface. Contact is
// registered when the body's lower edge crosses the surface while moving
// downward over the pan. The pan's own motion at the moment of contact feeds
// into the bounce (the flip mechanic). Returns true on contact.
func ResolvePlatform(b *Body, p *Platform, tn *Tuning) bool {
	if b == nil || p == nil || b.State != BodyFree {
		return false
	}
	if b.Vel.Y < 0 {
		return false
	}
	if !p.ContainsX(b.Pos.X, b.Radius*0.5) {
		return false
	}
	surfaceY := p.SurfaceYAt(b.Pos.X, tn)
	if b.Bottom() < surfaceY {
		return false
	}
	// Deep overlap below the pan body means the piece came from the side;
	// let it pass instead of teleporting it up.
	if b.Pos.Y > surfaceY+p.Height+b.VerticalExtent {
		return false
	}

	// Reflect about the tilted surface normal; on a level pan this reduces
	// to negating the vertical component, on a tilted one it sheds the
	// piece toward the low edge.
	b.Pos.Y = surfaceY - b.VerticalExtent
	b.Vel = reflect(b.Vel, p.Normal(tn), tn.PlatformBounce)
	b.Vel.Y -= tn.CatchBoost
	b.Vel.X += p.Vel.X * tn.PlatformCarry
	b.RotationSpeed += p.Vel.X * tn.PlatformSpin
	return true
}
