package vmath

import "math"

// Vec2 is a 2D vector in canvas pixels, origin top-left, Y grows downward
type Vec2 struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// Size is the axis-aligned extent of an entity, centered on its position
type Size struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Transform groups the spatial fields shared by every entity
type Transform struct {
	Position Vec2
	Velocity Vec2
	Size     Size
	Rotation float64
	Scale    Vec2
}

// V is shorthand for Vec2{x, y}
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// IsZero reports whether both components are zero
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Length returns the euclidean magnitude
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Half returns half extents, used for center-anchored bounds
func (s Size) Half() Vec2 {
	return Vec2{X: s.Width / 2, Y: s.Height / 2}
}

// Clamp limits x to [lo, hi]
// If lo > hi (entity wider than the area) the midpoint is returned so the result stays deterministic
func Clamp(x, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInside keeps a center-anchored box of size s fully inside [0,w]x[0,h]
// Returns the clamped position and whether clamping changed it
func ClampInside(p Vec2, s Size, w, h float64) (Vec2, bool) {
	half := s.Half()
	c := Vec2{
		X: Clamp(p.X, half.X, w-half.X),
		Y: Clamp(p.Y, half.Y, h-half.Y),
	}
	return c, c != p
}

// OutOfBounds reports whether a center-anchored box has fully left [0,w]x[0,h] by more than its own size
func OutOfBounds(p Vec2, s Size, w, h float64) bool {
	return p.X < -s.Width || p.X > w+s.Width || p.Y < -s.Height || p.Y > h+s.Height
}
