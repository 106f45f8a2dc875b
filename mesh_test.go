package magmavk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeGeometry(t *testing.T) {
	g := NewCubeGeometry()
	assert.Len(t, g.Vertices, 8)
	assert.Len(t, g.Indices, 36)

	for _, i := range g.Indices {
		assert.Less(t, int(i), len(g.Vertices))
	}
	// Every corner is referenced by some triangle.
	seen := make(map[uint32]bool)
	for _, i := range g.Indices {
		seen[i] = true
	}
	assert.Len(t, seen, 8)
}

func TestIcosahedronGeometry(t *testing.T) {
	g := NewIcosahedronGeometry()
	assert.Len(t, g.Vertices, 12)
	assert.Len(t, g.Indices, 60)

	// All vertices sit on a sphere of radius sqrt(1 + phi^2).
	phi := (1.0 + math.Sqrt(5.0)) / 2.0
	want := math.Sqrt(1.0 + phi*phi)
	for _, v := range g.Vertices {
		assert.InDelta(t, want, vecLength(v.Position), 1e-5)
		assert.InDelta(t, 1.0, vecLength(v.Normal), 1e-5)
	}
}

func TestRefineSplitsTrianglesAndDedupsMidpoints(t *testing.T) {
	g := NewIcosahedronGeometry()
	g.Refine()

	// 20 triangles become 80; a closed mesh gains one vertex per unique
	// edge, and the icosahedron has 30 of them.
	assert.Len(t, g.Indices, 240)
	assert.Len(t, g.Vertices, 42)

	g.Refine()
	assert.Len(t, g.Indices, 960)
	assert.Len(t, g.Vertices, 162)
}

func TestSphereGeometryCounts(t *testing.T) {
	cases := []struct {
		refinements uint32
		vertices    int
		indices     int
	}{
		{0, 12, 60},
		{1, 42, 240},
		{2, 162, 960},
		{3, 642, 3840},
	}
	for _, c := range cases {
		g := NewSphereGeometry(c.refinements)
		assert.Len(t, g.Vertices, c.vertices)
		assert.Len(t, g.Indices, c.indices)
	}
}

func TestSphereGeometryIsUnit(t *testing.T) {
	g := NewSphereGeometry(3)
	for _, v := range g.Vertices {
		require.InDelta(t, 1.0, vecLength(v.Position), 1e-5)
		require.Equal(t, v.Position, v.Normal)
	}
}

func TestMidpointAverages(t *testing.T) {
	a := VertexData{Position: [3]float32{0, 0, 0}, Normal: [3]float32{1, 0, 0}}
	b := VertexData{Position: [3]float32{2, 4, -6}, Normal: [3]float32{0, 1, 0}}
	m := Midpoint(a, b)
	assert.Equal(t, [3]float32{1, 2, -3}, m.Position)
	assert.Equal(t, [3]float32{0.5, 0.5, 0}, m.Normal)
}

func vecLength(v [3]float32) float64 {
	return math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
}
