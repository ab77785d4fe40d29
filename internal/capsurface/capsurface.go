// Package capsurface extracts the planar cut face of a sliced half-mesh as
// a valid 2D polygon (possibly multi, possibly with holes) in a
// plane-local frame, plus the transform back to world space.
package capsurface

import (
	"sort"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

const capEps = 1e-4

// ErrNoCapFound reports that the extractor found no triangles lying on the
// cutting plane. Non-fatal: the orchestrator skips keying and returns the
// raw halves.
var ErrNoCapFound = errors.New("capsurface: no cap triangles found on plane")

// Result is the cap surface extracted from a half-mesh: its 2D polygon
// set in the plane-local frame, and the rigid transform mapping
// plane-local (x, y, 0) coordinates back to world space.
type Result struct {
	Polygons MultiPolygon
	ToWorld  meshkit.Transform
}

// Extract selects the faces of mesh whose three vertices all lie within
// capEps of the plane (origin, normal), builds the plane-local frame
// (translate by -origin, then rotate normal to +Z), projects those faces
// to 2D, and unions them into a validated polygon set. If no cap triangles
// are found, it returns ErrNoCapFound.
func Extract(mesh meshkit.Mesh, origin, normal meshkit.Vec) (Result, error) {
	n := normal.MulScalar(1 / normal.Length())
	onPlane := func(v meshkit.Vec) bool {
		d := v.Sub(origin).Dot(n)
		return d < capEps && d > -capEps
	}

	var capFaces []int
	for i, f := range mesh.Faces {
		if onPlane(mesh.Vertices[f[0]]) && onPlane(mesh.Vertices[f[1]]) && onPlane(mesh.Vertices[f[2]]) {
			capFaces = append(capFaces, i)
		}
	}
	if len(capFaces) == 0 {
		return Result{}, errors.WithStack(ErrNoCapFound)
	}

	sub := mesh.SubmeshByFaces(capFaces, 1e-6)

	rot, err := meshkit.AlignVectors(n, meshkit.Vec{X: 0, Y: 0, Z: 1})
	if err != nil {
		rot = meshkit.Identity()
	}
	toLocal := meshkit.TranslationTransform(origin.MulScalar(-1)).Concat(rot)
	toWorld := toLocal.Inverse()

	local := meshkit.ApplyAffine(sub, toLocal)

	rings := boundaryRings(local)
	polys := buildPolygons(rings)
	if len(polys) == 0 {
		return Result{}, errors.WithStack(ErrNoCapFound)
	}

	for i, p := range polys {
		if !p.IsValid() {
			polys[i] = p.Repair()
		}
	}

	return Result{Polygons: polys, ToWorld: toWorld}, nil
}

// boundaryRings extracts the closed 2D boundary loops (projected by
// dropping Z) of a planar triangle mesh: edges used by exactly one
// triangle, chained into loops. For a flat cap (all triangles coplanar at
// Z~0), this traces every outer and hole boundary. Each boundary edge is
// followed against the winding of its face: a slicer cap faces -Z in the
// plane-local frame, so its outer loops come out counter-clockwise and its
// hole loops clockwise, as buildPolygons expects.
func boundaryRings(m meshkit.Mesh) []Ring {
	type edge [2]int
	degree := make(map[[2]int]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			degree[[2]int{minInt(a, b), maxInt(a, b)}]++
		}
	}

	next := make(map[int]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if degree[[2]int{minInt(a, b), maxInt(a, b)}] == 1 {
				next[b] = a
			}
		}
	}
	if len(next) == 0 {
		return nil
	}

	starts := make([]int, 0, len(next))
	for k := range next {
		starts = append(starts, k)
	}
	sort.Ints(starts)

	visited := make(map[int]bool)
	var rings []Ring
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
		if len(loop) < 3 {
			continue
		}
		ring := make(Ring, len(loop))
		for i, idx := range loop {
			v := m.Vertices[idx]
			ring[i] = r2.Vec{X: v.X, Y: v.Y}
		}
		rings = append(rings, ring)
	}
	return rings
}

// buildPolygons groups rings into polygons: positive-area (CCW) rings are
// outer boundaries, negative-area (CW) rings are holes assigned to the
// outer ring whose interior contains them. Holes must be preserved so that
// downstream pin placement respects them.
func buildPolygons(rings []Ring) MultiPolygon {
	var outers []Ring
	var holes []Ring
	for _, r := range rings {
		if r.SignedArea() >= 0 {
			outers = append(outers, r)
		} else {
			holes = append(holes, r)
		}
	}
	if len(outers) == 0 {
		return nil
	}
	polys := make(MultiPolygon, len(outers))
	for i, o := range outers {
		polys[i] = Polygon{Outer: o}
	}
	for _, h := range holes {
		if len(h) == 0 {
			continue
		}
		assigned := false
		for i := range polys {
			if rayCastContains(polys[i].Outer, h[0]) {
				polys[i].Holes = append(polys[i].Holes, h)
				assigned = true
				break
			}
		}
		if !assigned && len(polys) > 0 {
			polys[0].Holes = append(polys[0].Holes, h)
		}
	}
	return polys
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
