package geom

import (
	"errors"
	"math"
)

// ErrParallel is returned by LineIntersection when the two lines never meet.
var ErrParallel = errors.New("lines are parallel")

// parallelEpsilon is the cross-product magnitude below which two lines are
// treated as parallel.
const parallelEpsilon = 1e-9

// Point is a position in screen space. X grows to the right, Y grows downwards,
// so a heading of 270 degrees points straight up.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PointAt returns the point reached by travelling distance from p along
// headingDegrees.
func (p Point) PointAt(headingDegrees, distance float64) Point {
	rad := headingDegrees * math.Pi / 180.0
	return Point{
		X: p.X + distance*math.Cos(rad),
		Y: p.Y + distance*math.Sin(rad),
	}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// LineIntersection returns the intersection of the infinite line through
// (p1, p2) with the infinite line through (p3, p4).
func LineIntersection(p1, p2, p3, p4 Point) (Point, error) {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y

	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < parallelEpsilon {
		return Point{}, ErrParallel
	}

	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	return Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}, nil
}
