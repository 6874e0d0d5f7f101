package physics

// CollisionCheck reports whether b and other overlap. Touching circles do not
// collide.
func (b *Body) CollisionCheck(other *Body) bool {
	rs := b.radius + other.radius
	return DistanceSq(b.Position, other.Position) < rs*rs
}

// Collide pushes the velocities of an overlapping pair apart along the line of
// centres. The impulse is scaled by b's mass times other's inverse mass for
// both bodies.
func (b *Body) Collide(other *Body) {
	delta := b.Position.Sub(other.Position)
	normal := Normalize(delta).Mul(delta.Len() - b.radius - other.radius)

	half := normal.Mul(0.5 * b.mass * other.invMass)
	b.Velocity = b.Velocity.Sub(half)
	other.Velocity = other.Velocity.Add(half)
}

// Contact describes a detected overlap between two bodies.
type Contact struct {
	Point Vec2    // closest point on the second body to the first body's centre
	Depth float64 // penetration depth, positive when overlapping
}

// Resolve checks a pair and, if they overlap, applies Collide. It reports the
// contact for callers that publish or log collisions.
func Resolve(a, c *Body) (Contact, bool) {
	if !a.CollisionCheck(c) {
		return Contact{}, false
	}
	depth := a.radius + c.radius - Distance(a.Position, c.Position)
	contact := Contact{
		Point: c.ClosestPoint(a.Position),
		Depth: depth,
	}
	a.Collide(c)
	return contact, true
}
