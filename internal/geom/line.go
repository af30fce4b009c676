package geom

// Line is a straight segment between two points.
type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.From.Distance(l.To)
}

// Midpoint returns the point halfway along the segment.
func (l Line) Midpoint() Point {
	return Point{X: (l.From.X + l.To.X) / 2, Y: (l.From.Y + l.To.Y) / 2}
}

// YAt returns the y coordinate of the segment's supporting line at x.
// It fails with ErrParallel for vertical segments.
func (l Line) YAt(x float64) (float64, error) {
	p, err := LineIntersection(l.From, l.To, Point{X: x, Y: 0}, Point{X: x, Y: 1})
	if err != nil {
		return 0, err
	}
	return p.Y, nil
}

// DistanceTo returns the shortest distance from p to the segment.
func (l Line) DistanceTo(p Point) float64 {
	dx, dy := l.To.X-l.From.X, l.To.Y-l.From.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return l.From.Distance(p)
	}
	t := ((p.X-l.From.X)*dx + (p.Y-l.From.Y)*dy) / lenSq
	t = max(0, min(1, t))
	return p.Distance(Point{X: l.From.X + t*dx, Y: l.From.Y + t*dy})
}

// PolygonContains reports whether p lies inside the closed polygon using the
// even-odd rule.
func PolygonContains(poly []Point, p Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
