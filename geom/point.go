// Package geom implements the axis-aligned-box and point algebra shared by
// every cell locator variant: ray/segment vs. box tests, point-to-box
// distance, and bounds combination. It has no knowledge of cells, datasets,
// or trees.
package geom

import "math"

// Point is a point in 3D space.
type Point struct {
	X, Y, Z float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Lerp linearly interpolates between p and q at parameter t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		Z: p.Z + (q.Z-p.Z)*t,
	}
}

// Axis returns the component along the given axis (0=X, 1=Y, 2=Z).
func (p Point) Axis(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// SetAxis returns a copy of p with the given axis replaced by v.
func (p Point) SetAxis(axis int, v float64) Point {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Sqrt(DistanceSquared(p, q))
}

// DistanceSquared returns the squared Euclidean distance between p and q.
func DistanceSquared(p, q Point) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}
