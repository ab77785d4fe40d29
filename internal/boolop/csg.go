// Package boolop composes meshes with boolean union and difference, using
// a binary space partitioning tree over each mesh's triangles: the
// classic constructive-solid-geometry algorithm (build a BSP from one
// solid's polygons, clip the other solid's polygons against it, and
// recombine). No mesh-boolean library was available to ground this on,
// so it is written from the published BSP-CSG algorithm rather than
// reached for off the shelf (see DESIGN.md).
package boolop

import (
	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

const epsilon = 1e-5

type classification int

const (
	coplanar classification = 0
	front    classification = 1
	back     classification = 2
	spanning classification = 3
)

type plane struct {
	normal meshkit.Vec
	w      float64
}

func planeFromPolygon(verts []meshkit.Vec) plane {
	n := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0]))
	n = n.MulScalar(1 / n.Length())
	return plane{normal: n, w: n.Dot(verts[0])}
}

func (p plane) flip() plane {
	return plane{normal: p.normal.MulScalar(-1), w: -p.w}
}

type polygon struct {
	verts []meshkit.Vec
}

func (p polygon) flip() polygon {
	n := len(p.verts)
	out := make([]meshkit.Vec, n)
	for i, v := range p.verts {
		out[n-1-i] = v
	}
	return polygon{verts: out}
}

// splitPolygon classifies poly against pl and routes it (or its split
// pieces) into the four output buckets.
func splitPolygon(pl plane, poly polygon, coplanarFront, coplanarBack, frontOut, backOut *[]polygon) {
	n := len(poly.verts)
	types := make([]classification, n)
	polyType := coplanar
	for i, v := range poly.verts {
		t := pl.normal.Dot(v) - pl.w
		switch {
		case t < -epsilon:
			types[i] = back
		case t > epsilon:
			types[i] = front
		default:
			types[i] = coplanar
		}
		polyType |= types[i]
	}

	switch polyType {
	case coplanar:
		if pl.normal.Dot(planeFromPolygon(poly.verts).normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontOut = append(*frontOut, poly)
	case back:
		*backOut = append(*backOut, poly)
	default:
		var f, b []meshkit.Vec
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti == front && tj == back) || (ti == back && tj == front) {
				edge := vj.Sub(vi)
				denom := pl.normal.Dot(edge)
				if denom != 0 {
					t := (pl.w - pl.normal.Dot(vi)) / denom
					v := vi.Add(edge.MulScalar(t))
					f = append(f, v)
					b = append(b, v)
				}
			}
		}
		if len(f) >= 3 {
			*frontOut = append(*frontOut, polygon{verts: f})
		}
		if len(b) >= 3 {
			*backOut = append(*backOut, polygon{verts: b})
		}
	}
}

type node struct {
	plane    *plane
	front    *node
	back     *node
	polygons []polygon
}

func newBSP(polys []polygon) *node {
	n := &node{}
	if len(polys) > 0 {
		n.build(polys)
	}
	return n
}

func (n *node) build(polys []polygon) {
	if len(polys) == 0 {
		return
	}
	if n.plane == nil {
		pl := planeFromPolygon(polys[0].verts)
		n.plane = &pl
	}
	var frontList, backList []polygon
	for _, p := range polys {
		splitPolygon(*n.plane, p, &n.polygons, &n.polygons, &frontList, &backList)
	}
	if len(frontList) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		n.front.build(frontList)
	}
	if len(backList) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		n.back.build(backList)
	}
}

func (n *node) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flip()
	}
	if n.plane != nil {
		flipped := n.plane.flip()
		n.plane = &flipped
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

func (n *node) clipPolygons(polys []polygon) []polygon {
	if n.plane == nil {
		return append([]polygon(nil), polys...)
	}
	var frontList, backList []polygon
	for _, p := range polys {
		splitPolygon(*n.plane, p, &frontList, &backList, &frontList, &backList)
	}
	if n.front != nil {
		frontList = n.front.clipPolygons(frontList)
	}
	if n.back != nil {
		backList = n.back.clipPolygons(backList)
	} else {
		backList = nil
	}
	return append(frontList, backList...)
}

func (n *node) clipTo(other *node) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

func (n *node) allPolygons() []polygon {
	polys := append([]polygon(nil), n.polygons...)
	if n.front != nil {
		polys = append(polys, n.front.allPolygons()...)
	}
	if n.back != nil {
		polys = append(polys, n.back.allPolygons()...)
	}
	return polys
}

func unionTrees(a, b *node) []polygon {
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	return a.allPolygons()
}

func subtractTrees(a, b *node) []polygon {
	a.invert()
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	a.invert()
	return a.allPolygons()
}

func meshToPolygons(m meshkit.Mesh) []polygon {
	polys := make([]polygon, 0, len(m.Faces))
	for _, f := range m.Faces {
		polys = append(polys, polygon{verts: []meshkit.Vec{
			m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]],
		}})
	}
	return polys
}

// polygonsToMesh fan-triangulates every (possibly non-triangular) output
// polygon and merges coincident vertices within a small epsilon, the same
// quantized-merge approach meshio and slicer use when building a mesh from
// raw triangle soup.
func polygonsToMesh(polys []polygon) meshkit.Mesh {
	const quantScale = 1e6
	type vkey struct{ x, y, z int64 }
	round := func(f float64) int64 { return int64(f * quantScale) }

	index := make(map[vkey]int)
	var verts []meshkit.Vec
	var faces []meshkit.Face

	addVertex := func(v meshkit.Vec) int {
		k := vkey{round(v.X), round(v.Y), round(v.Z)}
		if idx, ok := index[k]; ok {
			return idx
		}
		idx := len(verts)
		verts = append(verts, v)
		index[k] = idx
		return idx
	}

	for _, poly := range polys {
		if len(poly.verts) < 3 {
			continue
		}
		idxs := make([]int, len(poly.verts))
		for i, v := range poly.verts {
			idxs[i] = addVertex(v)
		}
		for i := 1; i+1 < len(idxs); i++ {
			faces = append(faces, meshkit.Face{idxs[0], idxs[i], idxs[i+1]})
		}
	}
	return meshkit.NewMesh(verts, faces)
}

// Union returns mesh composed with others via boolean union, folded
// pairwise. If the BSP composition collapses to an empty result, Union
// falls back to concatenating the inputs (an open, non-manifold but
// non-empty scene) and reports a warning rather than discarding geometry.
func Union(mesh meshkit.Mesh, others []meshkit.Mesh) (meshkit.Mesh, []string) {
	result := mesh
	var warnings []string
	for _, other := range others {
		a := newBSP(meshToPolygons(result))
		b := newBSP(meshToPolygons(other))
		merged := polygonsToMesh(unionTrees(a, b))
		if len(merged.Faces) == 0 {
			warnings = append(warnings, "boolean union collapsed to an empty mesh; falling back to concatenation")
			result = meshkit.Concatenate(result, other)
			continue
		}
		result = merged
	}
	return result, warnings
}

// Difference returns mesh with others subtracted from it, folded
// pairwise. If a subtraction collapses to an empty result, Difference
// falls back to the previous (un-subtracted) mesh and reports a warning,
// matching the non-fatal BooleanFailure posture: a failed cutter never
// destroys the half it was meant to key.
func Difference(mesh meshkit.Mesh, others []meshkit.Mesh) (meshkit.Mesh, []string) {
	result := mesh
	var warnings []string
	for _, other := range others {
		a := newBSP(meshToPolygons(result))
		b := newBSP(meshToPolygons(other))
		cut := polygonsToMesh(subtractTrees(a, b))
		if len(cut.Faces) == 0 {
			warnings = append(warnings, "boolean difference collapsed to an empty mesh; keeping the un-cut mesh")
			continue
		}
		result = cut
	}
	return result, warnings
}
