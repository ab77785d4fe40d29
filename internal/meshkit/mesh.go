// Package meshkit holds the triangle-mesh primitives shared by every stage
// of the split pipeline: vertex/face storage, rigid transforms, bounds, and
// the handful of whole-mesh operations (translate, concatenate, submesh)
// that the slicer, cap extractor, and boolean compositor all build on.
package meshkit

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is a 3D vector in millimeter units. It is the sdfx vector type so the
// rest of the geometry kernel can reuse sdfx's vector algebra directly.
type Vec = v3.Vec

// Face indexes three vertices of a Mesh, CCW when viewed from the outward
// side (outward normal = (V1-V0) x (V2-V0)).
type Face [3]int

// Mesh is an ordered set of vertices and a set of triangle faces. Mesh
// values are immutable from the caller's point of view: every operation in
// this package returns a new Mesh rather than mutating vertex or face
// slices in place, so no two Meshes ever alias the same backing array.
type Mesh struct {
	Vertices []Vec
	Faces    []Face
}

// NewMesh copies the given slices so the returned Mesh never aliases the
// caller's backing arrays.
func NewMesh(vertices []Vec, faces []Face) Mesh {
	v := make([]Vec, len(vertices))
	copy(v, vertices)
	f := make([]Face, len(faces))
	copy(f, faces)
	return Mesh{Vertices: v, Faces: f}
}

// Empty reports whether the mesh has no faces.
func (m Mesh) Empty() bool {
	return len(m.Faces) == 0
}

// Bounds returns the axis-aligned bounding box (min, max) of the mesh. An
// empty mesh returns a zero box.
func (m Mesh) Bounds() (min, max Vec) {
	if len(m.Vertices) == 0 {
		return Vec{}, Vec{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = Vec{X: minf(min.X, v.X), Y: minf(min.Y, v.Y), Z: minf(min.Z, v.Z)}
		max = Vec{X: maxf(max.X, v.X), Y: maxf(max.Y, v.Y), Z: maxf(max.Z, v.Z)}
	}
	return min, max
}

// Extents returns bounds.max - bounds.min per axis.
func (m Mesh) Extents() Vec {
	min, max := m.Bounds()
	return max.Sub(min)
}

// Centroid returns the average of all vertex positions (not the volumetric
// centroid); callers only need a representative interior point, not an
// exact center of mass.
func (m Mesh) Centroid() Vec {
	if len(m.Vertices) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.MulScalar(1.0 / float64(len(m.Vertices)))
}

// AxisArgmax returns the index (0=X, 1=Y, 2=Z) of the largest component of
// v, breaking ties toward the lower index.
func AxisArgmax(v Vec) int {
	best, bestI := v.X, 0
	if v.Y > best {
		best, bestI = v.Y, 1
	}
	if v.Z > best {
		bestI = 2
	}
	return bestI
}

// Volume returns the signed volume of the closed triangle mesh via the
// divergence-theorem tetrahedron sum (sum of signed tet volumes from the
// origin to each face). For a watertight, outward-wound mesh this is
// positive and equals the enclosed volume.
func (m Mesh) Volume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += a.Dot(b.Cross(c)) / 6.0
	}
	return vol
}

// SubmeshByFaces builds a new mesh containing only the given face indices,
// renumbering vertices to a compact range and merging coincident vertices
// within eps.
func (m Mesh) SubmeshByFaces(faceIdx []int, eps float64) Mesh {
	type key struct{ x, y, z int64 }
	quant := func(v Vec) key {
		scale := 1.0 / eps
		return key{int64(v.X * scale), int64(v.Y * scale), int64(v.Z * scale)}
	}
	index := make(map[key]int)
	var verts []Vec
	var faces []Face
	remap := func(v Vec) int {
		k := quant(v)
		if i, ok := index[k]; ok {
			return i
		}
		i := len(verts)
		verts = append(verts, v)
		index[k] = i
		return i
	}
	for _, fi := range faceIdx {
		f := m.Faces[fi]
		nf := Face{
			remap(m.Vertices[f[0]]),
			remap(m.Vertices[f[1]]),
			remap(m.Vertices[f[2]]),
		}
		faces = append(faces, nf)
	}
	return Mesh{Vertices: verts, Faces: faces}
}

// Concatenate forms the disjoint union of several meshes, rebasing face
// indices so each mesh's vertices stay distinct (no vertex merging, unlike
// SubmeshByFaces). This is the fallback path the boolean compositor uses
// when a real CSG operation fails.
func Concatenate(meshes ...Mesh) Mesh {
	var verts []Vec
	var faces []Face
	for _, m := range meshes {
		base := len(verts)
		verts = append(verts, m.Vertices...)
		for _, f := range m.Faces {
			faces = append(faces, Face{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return Mesh{Vertices: verts, Faces: faces}
}

// ApplyAffine applies t to every vertex, returning a new mesh; faces are
// unchanged (index topology is preserved).
func ApplyAffine(m Mesh, t Transform) Mesh {
	out := make([]Vec, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = t.Apply(v)
	}
	return Mesh{Vertices: out, Faces: append([]Face(nil), m.Faces...)}
}

// Translate shifts every vertex of m by d.
func Translate(m Mesh, d Vec) Mesh {
	return ApplyAffine(m, TranslationTransform(d))
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
