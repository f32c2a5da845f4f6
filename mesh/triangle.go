package mesh

import "github.com/arxos/celltree/geom"

// intersectTriangle tests the finite segment p1->p2 against triangle
// (a,b,c) using the Möller–Trumbore algorithm, returning the parametric t
// along the segment and the hit point.
func intersectTriangle(p1, p2, a, b, c geom.Point, tol float64) (t float64, x geom.Point, ok bool) {
	dir := p2.Sub(p1)
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := cross(dir, e2)
	det := dot(e1, pvec)
	if det > -1e-12 && det < 1e-12 {
		return 0, geom.Point{}, false
	}
	invDet := 1 / det
	tvec := p1.Sub(a)
	u := dot(tvec, pvec) * invDet
	if u < -tol || u > 1+tol {
		return 0, geom.Point{}, false
	}
	qvec := cross(tvec, e1)
	v := dot(dir, qvec) * invDet
	if v < -tol || u+v > 1+tol {
		return 0, geom.Point{}, false
	}
	tt := dot(e2, qvec) * invDet
	if tt < -tol || tt > 1+tol {
		return 0, geom.Point{}, false
	}
	return tt, p1.Lerp(p2, tt), true
}

// pointInTriangle reports whether x (assumed coplanar with a,b,c) lies
// within the triangle, via the same barycentric test as intersectTriangle.
func pointInTriangle(x, a, b, c geom.Point, tol float64) (u, v, w float64, inside bool) {
	e1, e2 := b.Sub(a), c.Sub(a)
	n := cross(e1, e2)
	denom := dot(n, n)
	if denom == 0 {
		return 0, 0, 0, false
	}
	d := x.Sub(a)
	v = dot(cross(d, e2), n) / denom
	w = dot(cross(e1, d), n) / denom
	u = 1 - v - w
	return u, v, w, u >= -tol && v >= -tol && w >= -tol
}

func cross(a, b geom.Point) geom.Point {
	return geom.Point{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func dot(a, b geom.Point) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// quadTriangles splits a planar quad (a,b,c,d, wound consistently) into
// its two triangles for intersection/containment tests.
func quadTriangles(a, b, c, d geom.Point) [2][3]geom.Point {
	return [2][3]geom.Point{{a, b, c}, {a, c, d}}
}
