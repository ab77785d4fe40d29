package meshio

import (
	"sort"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// IsWatertight reports whether every edge of the mesh is shared by exactly
// two faces, the manifold/watertight invariant valid input meshes must
// satisfy.
func IsWatertight(m meshkit.Mesh) bool {
	if len(m.Faces) == 0 {
		return false
	}
	count := make(map[edgeKey]int)
	for _, f := range m.Faces {
		count[makeEdgeKey(f[0], f[1])]++
		count[makeEdgeKey(f[1], f[2])]++
		count[makeEdgeKey(f[2], f[0])]++
	}
	for _, n := range count {
		if n != 2 {
			return false
		}
	}
	return true
}

// FillHoles attempts a best-effort repair of boundary loops (edges used by
// only one face) by fan-triangulating each loop from its centroid. This
// mirrors trimesh.repair.fill_holes's best-effort contract from
// original_source/smart_splitter.py: it returns its input unchanged if no
// boundary loops are found, and otherwise returns a mesh that is closer to
// watertight but is not guaranteed to be perfect (self-intersecting or
// non-manifold input may still leave gaps).
func FillHoles(m meshkit.Mesh) meshkit.Mesh {
	boundary := make(map[edgeKey]int) // directed-edge count per undirected key
	directed := make(map[[2]int]bool)
	for _, f := range m.Faces {
		edges := [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}}
		for _, e := range edges {
			directed[e] = true
			boundary[makeEdgeKey(e[0], e[1])]++
		}
	}

	// A boundary half-edge is one whose reverse does not also appear.
	var loopEdges [][2]int
	for e := range directed {
		rev := [2]int{e[1], e[0]}
		if !directed[rev] {
			loopEdges = append(loopEdges, e)
		}
	}
	if len(loopEdges) == 0 {
		return m
	}

	// Chain boundary half-edges into loops by following start->end links.
	next := make(map[int]int, len(loopEdges))
	for _, e := range loopEdges {
		next[e[0]] = e[1]
	}
	visited := make(map[int]bool)
	var loops [][]int
	starts := make([]int, 0, len(loopEdges))
	for _, e := range loopEdges {
		starts = append(starts, e[0])
	}
	sort.Ints(starts)
	for _, s := range starts {
		if visited[s] {
			continue
		}
		loop := []int{s}
		visited[s] = true
		cur := s
		for i := 0; i < len(loopEdges)+1; i++ {
			n, ok := next[cur]
			if !ok || n == s {
				break
			}
			if visited[n] {
				break
			}
			loop = append(loop, n)
			visited[n] = true
			cur = n
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	verts := append([]meshkit.Vec(nil), m.Vertices...)
	faces := append([]meshkit.Face(nil), m.Faces...)
	for _, loop := range loops {
		var centroid meshkit.Vec
		for _, idx := range loop {
			centroid = centroid.Add(verts[idx])
		}
		centroid = centroid.MulScalar(1 / float64(len(loop)))
		centroidIdx := len(verts)
		verts = append(verts, centroid)
		for i := 0; i < len(loop); i++ {
			j := (i + 1) % len(loop)
			faces = append(faces, meshkit.Face{centroidIdx, loop[j], loop[i]})
		}
	}
	return meshkit.Mesh{Vertices: verts, Faces: faces}
}
