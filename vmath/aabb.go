package vmath

// Overlaps reports whether two center-anchored boxes intersect
// Touching edges do not count as overlap
func Overlaps(a Vec2, as Size, b Vec2, bs Size) bool {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx < (as.Width+bs.Width)/2 && dy < (as.Height+bs.Height)/2
}
