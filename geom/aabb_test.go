package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() Bounds {
	return Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 1}
}

func TestIntersectSegment(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2     Point
		wantOK     bool
		wantT1     float64
		wantPlane1 int
	}{
		{
			name: "through_center",
			p1:   Point{-1, 0.5, 0.5}, p2: Point{2, 0.5, 0.5},
			wantOK: true, wantT1: 1.0 / 3.0, wantPlane1: 0, // MinX plane (2*0+0)
		},
		{
			name:   "misses_entirely",
			p1:     Point{-1, 2, 2}, p2: Point{2, 2, 2},
			wantOK: false,
		},
		{
			name:   "fully_inside",
			p1:     Point{0.2, 0.2, 0.2}, p2: Point{0.8, 0.8, 0.8},
			wantOK: true, wantT1: 0, wantPlane1: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t1, _, plane1, _, ok := IntersectSegment(unitBox(), tt.p1, tt.p2)
			require.Equal(t, tt.wantOK, ok, "intersection outcome for %s", tt.name)
			if !tt.wantOK {
				return
			}
			assert.InDelta(t, tt.wantT1, t1, 1e-9)
			assert.Equal(t, tt.wantPlane1, plane1)
		})
	}
}

func TestIntersectRayInsideReturnsZeroT(t *testing.T) {
	hit, coord, t1 := IntersectRay(unitBox(), Point{0.5, 0.5, 0.5}, Point{1, 0, 0})
	require.True(t, hit)
	assert.Equal(t, 0.0, t1)
	assert.Equal(t, Point{0.5, 0.5, 0.5}, coord)
}

func TestIntersectRayFromOutside(t *testing.T) {
	hit, coord, t1 := IntersectRay(unitBox(), Point{-1, 0.5, 0.5}, Point{1, 0, 0})
	require.True(t, hit)
	assert.InDelta(t, 1.0, t1, 1e-9)
	assert.InDelta(t, 0.0, coord.X, 1e-9)
}

func TestIntersectRayParallelMiss(t *testing.T) {
	hit, _, _ := IntersectRay(unitBox(), Point{-1, 2, 2}, Point{1, 0, 0})
	assert.False(t, hit)
}

func TestPointDistanceSquared(t *testing.T) {
	assert.Equal(t, 0.0, PointDistanceSquared(unitBox(), Point{0.5, 0.5, 0.5}))
	assert.InDelta(t, 1.0, PointDistanceSquared(unitBox(), Point{2, 0, 0}), 1e-9)
}

func TestUnionAndInflateDegenerateAxes(t *testing.T) {
	a := Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 0}
	u := Union(a, Bounds{MinX: -1, MaxX: 0.5, MinY: 0, MaxY: 2, MinZ: 0, MaxZ: 0})
	assert.Equal(t, -1.0, u.MinX)
	assert.Equal(t, 2.0, u.MaxY)

	inflated := a.InflateDegenerateAxes(a.Diagonal())
	assert.Greater(t, inflated.MaxZ, 0.0)
	assert.Less(t, inflated.MinZ, 0.0)
}

func TestCorners(t *testing.T) {
	c := unitBox().Corners()
	assert.Equal(t, Point{0, 0, 0}, c[0])
	assert.Equal(t, Point{1, 1, 1}, c[7])
}
