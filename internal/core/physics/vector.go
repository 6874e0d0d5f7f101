package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is the 2D vector used by every body on the track.
type Vec2 = mgl64.Vec2

// V is shorthand for building a Vec2.
func V(x, y float64) Vec2 { return Vec2{x, y} }

// Normalize returns the unit vector along v. The zero vector normalizes to zero
// instead of NaN.
func Normalize(v Vec2) Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// SmoothStep interpolates between a and b with a cubic ease-in/ease-out curve.
// t is clamped to [0, 1].
func SmoothStep(a, b Vec2, t float64) Vec2 {
	t = mgl64.Clamp(t, 0, 1)
	return Lerp(a, b, t*t*(3-2*t))
}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b Vec2) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 { return math.Hypot(b[0]-a[0], b[1]-a[1]) }

// Polar returns the unit vector for angle (radians).
func Polar(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}
