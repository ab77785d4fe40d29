// Package slicer performs a capped half-space slice of a mesh by a plane.
// The per-triangle clipping logic generalizes github.com/krasin/stl's
// trimTriangleBelow routine from a fixed axis-aligned plane to an
// arbitrary plane (origin, normal), and adds cap retriangulation so the
// result stays watertight.
package slicer

import (
	"sort"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

const onPlaneEps = 1e-4

// Slice returns the closed sub-mesh on the positive side of the plane:
// points p with (p-origin).normal >= 0. When cap is true, the planar hole
// left by the cut is retriangulated and added to the output so the result
// is watertight, with cap triangles lying within onPlaneEps of the plane.
//
// Calling Slice with normal and with -normal produces the two
// complementary halves; the sum of their volumes equals the input volume.
func Slice(mesh meshkit.Mesh, origin, normal meshkit.Vec, cap bool) meshkit.Mesh {
	n := normal.MulScalar(1 / normal.Length())

	dist := func(v meshkit.Vec) float64 { return v.Sub(origin).Dot(n) }
	keep := func(v meshkit.Vec) bool { return dist(v) >= -onPlaneEps }
	drop := func(v meshkit.Vec) bool { return dist(v) < -onPlaneEps }
	intersect := func(a, b meshkit.Vec) meshkit.Vec {
		da, db := dist(a), dist(b)
		alpha := da / (da - db)
		return a.Add(b.Sub(a).MulScalar(alpha))
	}

	b := newBuilder()
	for _, f := range mesh.Faces {
		a, bb, c := mesh.Vertices[f[0]], mesh.Vertices[f[1]], mesh.Vertices[f[2]]
		switch {
		case keep(a) && keep(bb) && keep(c):
			b.addTriangle(a, bb, c)
		case drop(a) && drop(bb) && drop(c):
			// entirely clipped away
		default:
			poly := clipTriangle([3]meshkit.Vec{a, bb, c}, keep, drop, intersect)
			for i := 1; i+1 < len(poly); i++ {
				b.addTriangle(poly[0], poly[i], poly[i+1])
			}
		}
	}

	result := b.mesh()
	if cap {
		result = capHoles(result, origin, n)
	}
	return result
}

// clipTriangle trims a single triangle against the half-space keep(),
// returning the (convex, so fan-triangulable) polygon that remains: walk
// the three edges, emitting kept vertices and edge/plane intersections.
func clipTriangle(tri [3]meshkit.Vec, keep, drop func(meshkit.Vec) bool, intersect func(a, b meshkit.Vec) meshkit.Vec) []meshkit.Vec {
	var out []meshkit.Vec
	for i := 0; i < 3; i++ {
		cur := tri[i]
		next := tri[(i+1)%3]
		curKeep, nextKeep := keep(cur), keep(next)
		switch {
		case curKeep && nextKeep:
			out = append(out, cur)
		case curKeep && !nextKeep:
			out = append(out, cur, intersect(cur, next))
		case !curKeep && nextKeep:
			out = append(out, intersect(cur, next))
		default:
			// both dropped: emit nothing
		}
	}
	_ = drop
	return dedupe(out)
}

func dedupe(v []meshkit.Vec) []meshkit.Vec {
	if len(v) == 0 {
		return v
	}
	out := []meshkit.Vec{v[0]}
	for _, p := range v[1:] {
		if !almostEqual(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	if len(out) > 1 && almostEqual(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func almostEqual(a, b meshkit.Vec) bool {
	const eps = 1e-9
	d := a.Sub(b)
	return d.Dot(d) < eps*eps
}

// builder accumulates triangles into an index mesh, merging coincident
// vertices so the resulting slice is a connected, indexable mesh rather
// than a disjoint triangle soup.
type builder struct {
	index map[vkey]int
	verts []meshkit.Vec
	faces []meshkit.Face
}

type vkey struct{ x, y, z int64 }

const quantScale = 1e6

func newBuilder() *builder { return &builder{index: make(map[vkey]int)} }

func (b *builder) remap(v meshkit.Vec) int {
	k := vkey{round(v.X * quantScale), round(v.Y * quantScale), round(v.Z * quantScale)}
	if i, ok := b.index[k]; ok {
		return i
	}
	i := len(b.verts)
	b.verts = append(b.verts, v)
	b.index[k] = i
	return i
}

func round(f float64) int64 {
	if f >= 0 {
		return int64(f + 0.5)
	}
	return int64(f - 0.5)
}

func (b *builder) addTriangle(a, c, d meshkit.Vec) {
	ia, ic, id := b.remap(a), b.remap(c), b.remap(d)
	if ia == ic || ic == id || id == ia {
		return
	}
	b.faces = append(b.faces, meshkit.Face{ia, ic, id})
}

func (b *builder) mesh() meshkit.Mesh {
	return meshkit.Mesh{Vertices: b.verts, Faces: b.faces}
}

// capHoles finds open boundary loops lying on the cutting plane and fills
// them with an ear-clipping triangulation (triangulateLoop) wound so the new faces' outward normal is
// -normal (away from the kept, positive-side volume), then merges the
// result back into the mesh.
func capHoles(m meshkit.Mesh, origin, normal meshkit.Vec) meshkit.Mesh {
	type edge [2]int
	degree := make(map[[2]int]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, bb := f[i], f[(i+1)%3]
			degree[[2]int{min(a, bb), max(a, bb)}]++
		}
	}

	onPlane := func(idx int) bool {
		d := m.Vertices[idx].Sub(origin).Dot(normal)
		return d < onPlaneEps && d > -onPlaneEps
	}

	next := make(map[int]int)
	for _, f := range m.Faces {
		edges := [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}}
		for _, e := range edges {
			key := [2]int{min(e[0], e[1]), max(e[0], e[1])}
			if degree[key] == 1 && onPlane(e[0]) && onPlane(e[1]) {
				next[e[0]] = e[1]
			}
		}
	}
	if len(next) == 0 {
		return m
	}

	starts := make([]int, 0, len(next))
	for k := range next {
		starts = append(starts, k)
	}
	sort.Ints(starts)
	visited := make(map[int]bool)
	var loops [][]int
	for _, s := range starts {
		if visited[s] {
			continue
		}
		var loop []int
		cur := s
		for i := 0; i < len(next)+1; i++ {
			if visited[cur] {
				break
			}
			loop = append(loop, cur)
			visited[cur] = true
			n, ok := next[cur]
			if !ok {
				break
			}
			cur = n
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	verts := append([]meshkit.Vec(nil), m.Vertices...)
	faces := append([]meshkit.Face(nil), m.Faces...)
	for _, loop := range loops {
		tris := triangulateLoop(verts, loop, normal)
		faces = append(faces, tris...)
	}
	return meshkit.Mesh{Vertices: verts, Faces: faces}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
