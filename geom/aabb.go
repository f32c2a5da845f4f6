package geom

import "math"

// Bounds is an axis-aligned bounding box. It is "empty" whenever Max < Min
// on some axis — the zero value is NOT empty (it is the degenerate point at
// the origin), so callers that accumulate bounds should start from
// EmptyBounds().
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// EmptyBounds returns bounds with Max < Min on every axis, suitable as the
// identity element for Union.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{MinX: inf, MaxX: -inf, MinY: inf, MaxY: -inf, MinZ: inf, MaxZ: -inf}
}

// IsEmpty reports whether b is inverted (Max < Min) on some axis. A box
// with zero extent on an axis is not empty.
func (b Bounds) IsEmpty() bool {
	return b.MaxX < b.MinX || b.MaxY < b.MinY || b.MaxZ < b.MinZ
}

// axisMin and axisMax return the plane values for the given axis (0,1,2).
func (b Bounds) axisMin(axis int) float64 {
	switch axis {
	case 0:
		return b.MinX
	case 1:
		return b.MinY
	default:
		return b.MinZ
	}
}

func (b Bounds) axisMax(axis int) float64 {
	switch axis {
	case 0:
		return b.MaxX
	case 1:
		return b.MaxY
	default:
		return b.MaxZ
	}
}

// Plane returns the bound plane identified by a packed index 2*axis+side
// (side 0 = min, side 1 = max), matching the plane numbering used by
// IntersectSegment's plane1/plane2 outputs.
func (b Bounds) Plane(packed int) float64 {
	axis, side := packed/2, packed%2
	if side == 0 {
		return b.axisMin(axis)
	}
	return b.axisMax(axis)
}

// Min returns the minimum corner.
func (b Bounds) Min() Point { return Point{b.MinX, b.MinY, b.MinZ} }

// Max returns the maximum corner.
func (b Bounds) Max() Point { return Point{b.MaxX, b.MaxY, b.MaxZ} }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2, (b.MinZ + b.MaxZ) / 2}
}

// Extent returns (MaxX-MinX, MaxY-MinY, MaxZ-MinZ).
func (b Bounds) Extent() Point {
	return Point{b.MaxX - b.MinX, b.MaxY - b.MinY, b.MaxZ - b.MinZ}
}

// Diagonal returns the length of the box's diagonal.
func (b Bounds) Diagonal() float64 {
	e := b.Extent()
	return math.Sqrt(e.X*e.X + e.Y*e.Y + e.Z*e.Z)
}

// Contains reports whether p lies within b (inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// ContainsTol is Contains with a per-axis tolerance — the per-cell early
// reject described as inside_cell_bounds in the locator's build notes.
func (b Bounds) ContainsTol(p Point, tol float64) bool {
	return p.X >= b.MinX-tol && p.X <= b.MaxX+tol &&
		p.Y >= b.MinY-tol && p.Y <= b.MaxY+tol &&
		p.Z >= b.MinZ-tol && p.Z <= b.MaxZ+tol
}

// Intersects reports whether b and other overlap (touching counts).
func (b Bounds) Intersects(other Bounds) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY &&
		b.MinZ <= other.MaxZ && b.MaxZ >= other.MinZ
}

// Union returns the smallest box containing both a and b.
func Union(a, b Bounds) Bounds {
	return Bounds{
		MinX: math.Min(a.MinX, b.MinX), MaxX: math.Max(a.MaxX, b.MaxX),
		MinY: math.Min(a.MinY, b.MinY), MaxY: math.Max(a.MaxY, b.MaxY),
		MinZ: math.Min(a.MinZ, b.MinZ), MaxZ: math.Max(a.MaxZ, b.MaxZ),
	}
}

// ExpandToPoint grows b (in place semantics via return) to include p.
func (b Bounds) ExpandToPoint(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X), MaxX: math.Max(b.MaxX, p.X),
		MinY: math.Min(b.MinY, p.Y), MaxY: math.Max(b.MaxY, p.Y),
		MinZ: math.Min(b.MinZ, p.Z), MaxZ: math.Max(b.MaxZ, p.Z),
	}
}

// InflateDegenerateAxes widens any axis whose extent is at or below
// length/1000 by length/100 on each side, per the uniform-octree build
// rule for datasets that are flat along one or more axes.
func (b Bounds) InflateDegenerateAxes(length float64) Bounds {
	if length <= 0 {
		length = 1
	}
	grow := length / 100
	minExtent := length / 1000
	if b.MaxX-b.MinX <= minExtent {
		b.MinX -= grow
		b.MaxX += grow
	}
	if b.MaxY-b.MinY <= minExtent {
		b.MinY -= grow
		b.MaxY += grow
	}
	if b.MaxZ-b.MinZ <= minExtent {
		b.MinZ -= grow
		b.MaxZ += grow
	}
	return b
}

// Corners returns the eight corners of b in the conventional
// (x,y,z) bit-ordering: bit0=X, bit1=Y, bit2=Z, 0=min, 1=max.
func (b Bounds) Corners() [8]Point {
	var c [8]Point
	for i := 0; i < 8; i++ {
		x := b.MinX
		if i&1 != 0 {
			x = b.MaxX
		}
		y := b.MinY
		if i&2 != 0 {
			y = b.MaxY
		}
		z := b.MinZ
		if i&4 != 0 {
			z = b.MaxZ
		}
		c[i] = Point{x, y, z}
	}
	return c
}

// PointDistanceSquared returns the squared distance from p to the nearest
// point of b — zero if p is inside.
func PointDistanceSquared(b Bounds, p Point) float64 {
	dx := math.Max(math.Max(b.MinX-p.X, 0), p.X-b.MaxX)
	dy := math.Max(math.Max(b.MinY-p.Y, 0), p.Y-b.MaxY)
	dz := math.Max(math.Max(b.MinZ-p.Z, 0), p.Z-b.MaxZ)
	return dx*dx + dy*dy + dz*dz
}

// IntersectSegment clips the finite segment p1->p2 against b using the
// slab method: for every one of the six bounding planes, it computes the
// signed distance of each endpoint from that plane (positive = outside),
// tightening [t1,t2] whenever an endpoint is found to be on the outside of
// a plane that the other endpoint is not. Returns ok=false if the segment
// misses the box entirely. plane1/plane2 are packed 2*axis+side indices
// (see Bounds.Plane), or -1 if that end of the clipped segment was not
// produced by a plane clip (i.e. it is the original endpoint).
//
// This is the classical box-clip used both to find entry/exit parameters
// into the locator's outer box and, with the per-cell cache, to
// early-reject candidate cells before the expensive cell intersection.
func IntersectSegment(b Bounds, p1, p2 Point) (t1, t2 float64, plane1, plane2 int, ok bool) {
	plane1, plane2 = -1, -1
	t1, t2 = 0.0, 1.0

	for axis := 0; axis < 3; axis++ {
		p1v, p2v := p1.Axis(axis), p2.Axis(axis)
		for side := 0; side < 2; side++ {
			packed := 2*axis + side
			sign := 1.0
			if side == 1 {
				sign = -1.0
			}
			plane := b.Plane(packed)
			d1 := (plane - p1v) * sign
			d2 := (plane - p2v) * sign

			if d1 > 0 && d2 > 0 {
				return 0, 0, -1, -1, false
			}
			if d1 > 0 || d2 > 0 {
				t := 0.0
				if d1 != 0 {
					t = d1 / (d1 - d2)
				}
				if d1 > 0 {
					if t >= t1 {
						t1 = t
						plane1 = packed
					}
				} else {
					if t <= t2 {
						t2 = t
						plane2 = packed
					}
				}
				if t1 > t2 {
					// Tolerate coincident or slightly inverted planes on the
					// same axis rather than rejecting the segment outright.
					if plane1 < 0 || plane2 < 0 || (plane1>>1) != (plane2>>1) {
						return 0, 0, -1, -1, false
					}
				}
			}
		}
	}
	return t1, t2, plane1, plane2, true
}

// quadrant classifies an origin coordinate against a box axis for the
// Graphics-Gems ray/box test below.
type quadrant int8

const (
	quadLeft quadrant = iota
	quadMiddle
	quadRight
)

// IntersectRay implements the classic Graphics Gems ray/box intersection:
// classify the ray origin's position relative to each slab (LEFT / MIDDLE /
// RIGHT), pick candidate planes only for non-MIDDLE axes, and take the
// largest candidate-plane parameter as the entry t. The octree's voxel DDA
// finds its entry point with IntersectSegment, not with this routine;
// IntersectRay has no caller outside its tests.
func IntersectRay(b Bounds, origin, dir Point) (hit bool, coord Point, t float64) {
	var quad [3]quadrant
	var candidate [3]float64
	inside := true

	minA := [3]float64{b.MinX, b.MinY, b.MinZ}
	maxA := [3]float64{b.MaxX, b.MaxY, b.MaxZ}
	originA := [3]float64{origin.X, origin.Y, origin.Z}
	dirA := [3]float64{dir.X, dir.Y, dir.Z}

	for i := 0; i < 3; i++ {
		if originA[i] < minA[i] {
			quad[i] = quadLeft
			candidate[i] = minA[i]
			inside = false
		} else if originA[i] > maxA[i] {
			quad[i] = quadRight
			candidate[i] = maxA[i]
			inside = false
		} else {
			quad[i] = quadMiddle
		}
	}

	if inside {
		return true, origin, 0
	}

	var maxT [3]float64
	for i := 0; i < 3; i++ {
		if quad[i] != quadMiddle && dirA[i] != 0 {
			maxT[i] = (candidate[i] - originA[i]) / dirA[i]
		} else {
			maxT[i] = -1
		}
	}

	whichPlane := 0
	for i := 1; i < 3; i++ {
		if maxT[whichPlane] < maxT[i] {
			whichPlane = i
		}
	}

	if maxT[whichPlane] < 0 {
		return false, Point{}, 0
	}

	var out [3]float64
	for i := 0; i < 3; i++ {
		if whichPlane != i {
			out[i] = originA[i] + maxT[whichPlane]*dirA[i]
			if out[i] < minA[i] || out[i] > maxA[i] {
				return false, Point{}, 0
			}
		} else {
			out[i] = candidate[i]
		}
	}

	return true, Point{out[0], out[1], out[2]}, maxT[whichPlane]
}
