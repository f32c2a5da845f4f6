package mesh

import "github.com/arxos/celltree/geom"

// solve3 solves the 3x3 linear system M*x = b via Cramer's rule, where M's
// columns are m0, m1, m2. Returns ok=false if M is singular.
func solve3(m0, m1, m2, b geom.Point) (r, s, t float64, ok bool) {
	det := determinant3(m0, m1, m2)
	if det == 0 {
		return 0, 0, 0, false
	}
	r = determinant3(b, m1, m2) / det
	s = determinant3(m0, b, m2) / det
	t = determinant3(m0, m1, b) / det
	return r, s, t, true
}

func determinant3(c0, c1, c2 geom.Point) float64 {
	return c0.X*(c1.Y*c2.Z-c1.Z*c2.Y) -
		c1.X*(c0.Y*c2.Z-c0.Z*c2.Y) +
		c2.X*(c0.Y*c1.Z-c0.Z*c1.Y)
}

// clampSimplex projects barycentric weights (w0..wn, summing to ~1) onto
// the nearest point of the simplex w_i >= 0, sum(w) = 1 by clamping
// negatives to zero and renormalizing — an approximation to the true
// nearest point used for closest-point queries on cells the sample point
// falls outside of.
func clampSimplex(w []float64) []float64 {
	sum := 0.0
	out := make([]float64, len(w))
	for i, v := range w {
		if v < 0 {
			v = 0
		}
		out[i] = v
		sum += v
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func blend(pts []geom.Point, w []float64) geom.Point {
	var out geom.Point
	for i, p := range pts {
		out = out.Add(p.Scale(w[i]))
	}
	return out
}
