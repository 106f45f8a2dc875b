package magmavk

import "math"

// MeshGeometry is a plain triangle mesh: a vertex list plus a triangle index
// list (three indices per triangle). The procedural constructors below are
// the only mesh sources; arbitrary file loading is out of scope.
type MeshGeometry struct {
	Vertices []VertexData
	Indices  []uint32
}

// NewCubeGeometry builds a unit-extent cube from its eight corner vertices
// and twelve triangles, wound counter-clockwise seen from outside. Corner
// normals are the raw corner vectors; the shader resolves shading with the
// per-instance transforms, so faceted normals are not targeted here.
func NewCubeGeometry() *MeshGeometry {
	corners := [8][3]float32{
		{-1.0, 1.0, 0.0},  // left bottom front
		{-1.0, 1.0, 1.0},  // left bottom back
		{-1.0, -1.0, 0.0}, // left top front
		{-1.0, -1.0, 1.0}, // left top back
		{1.0, 1.0, 0.0},   // right bottom front
		{1.0, 1.0, 1.0},   // right bottom back
		{1.0, -1.0, 0.0},  // right top front
		{1.0, -1.0, 1.0},  // right top back
	}
	vertices := make([]VertexData, 0, len(corners))
	for _, c := range corners {
		vertices = append(vertices, VertexData{Position: c, Normal: c})
	}
	return &MeshGeometry{
		Vertices: vertices,
		Indices: []uint32{
			0, 1, 5, 0, 5, 4, // bottom
			2, 7, 3, 2, 6, 7, // top
			0, 6, 2, 0, 4, 6, // front
			1, 3, 7, 1, 7, 5, // back
			0, 2, 1, 1, 2, 3, // left
			4, 5, 6, 5, 7, 6, // right
		},
	}
}

// NewIcosahedronGeometry builds the standard golden-ratio icosahedron:
// twelve vertices as permutations of (±1, ±φ, 0), twenty triangles. Normals
// are the normalized positions.
func NewIcosahedronGeometry() *MeshGeometry {
	phi := float32((1.0 + math.Sqrt(5.0)) / 2.0)
	positions := [12][3]float32{
		{phi, -1.0, 0.0},
		{phi, 1.0, 0.0},
		{-phi, -1.0, 0.0},
		{-phi, 1.0, 0.0},
		{1.0, 0.0, -phi},
		{-1.0, 0.0, -phi},
		{1.0, 0.0, phi},
		{-1.0, 0.0, phi},
		{0.0, -phi, -1.0},
		{0.0, -phi, 1.0},
		{0.0, phi, -1.0},
		{0.0, phi, 1.0},
	}
	vertices := make([]VertexData, 0, len(positions))
	for _, p := range positions {
		vertices = append(vertices, VertexData{Position: p, Normal: normalize(p)})
	}
	return &MeshGeometry{
		Vertices: vertices,
		Indices: []uint32{
			0, 9, 8,
			0, 8, 4,
			0, 4, 1,
			0, 1, 6,
			0, 6, 9,
			8, 9, 2,
			8, 2, 5,
			8, 5, 4,
			4, 5, 10,
			4, 10, 1,
			1, 10, 11,
			1, 11, 6,
			2, 3, 5,
			2, 7, 3,
			2, 9, 7,
			5, 3, 10,
			3, 11, 10,
			3, 7, 11,
			6, 7, 9,
			6, 11, 7,
		},
	}
}

// NewSphereGeometry approximates a unit sphere by refining an icosahedron
// the requested number of times and projecting every vertex onto the sphere.
func NewSphereGeometry(refinements uint32) *MeshGeometry {
	g := NewIcosahedronGeometry()
	for i := uint32(0); i < refinements; i++ {
		g.Refine()
	}
	for i := range g.Vertices {
		g.Vertices[i].Position = normalize(g.Vertices[i].Position)
		g.Vertices[i].Normal = g.Vertices[i].Position
	}
	return g
}

type meshEdge struct {
	a, b uint32
}

// Refine splits every triangle into four by edge midpoints. Midpoints are
// deduplicated across triangles through a cache keyed on the edge in both
// orientations, so a closed mesh gains exactly one vertex per unique edge.
// Winding of the four emitted triangles matches the parent triangle.
func (g *MeshGeometry) Refine() {
	newIndices := make([]uint32, 0, 4*len(g.Indices))
	midpoints := make(map[meshEdge]uint32)

	midpoint := func(a, b uint32) uint32 {
		if m, ok := midpoints[meshEdge{a, b}]; ok {
			return m
		}
		m := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices, Midpoint(g.Vertices[a], g.Vertices[b]))
		midpoints[meshEdge{a, b}] = m
		midpoints[meshEdge{b, a}] = m
		return m
	}

	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Indices[i]
		b := g.Indices[i+1]
		c := g.Indices[i+2]
		mab := midpoint(a, b)
		mbc := midpoint(b, c)
		mca := midpoint(c, a)
		newIndices = append(newIndices,
			mca, a, mab,
			mab, b, mbc,
			mbc, c, mca,
			mab, mbc, mca,
		)
	}
	g.Indices = newIndices
}
