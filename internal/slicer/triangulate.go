package slicer

import "github.com/jeeveshs/steelsplit/internal/meshkit"

// loopPoint is a boundary-loop vertex projected into the cutting plane's
// local 2D frame, carrying the index back into the mesh's vertex slice.
type loopPoint struct {
	x, y float64
	idx  int
}

// triangulateLoop ear-clips a planar boundary loop (vertex indices into
// verts, all lying within onPlaneEps of the cutting plane) and returns cap
// faces wound so their outward normal is -normal: the cut face closes off
// the positive-side solid, so it must face away from it, toward -normal.
func triangulateLoop(verts []meshkit.Vec, loop []int, normal meshkit.Vec) []meshkit.Face {
	if len(loop) < 3 {
		return nil
	}
	u, v := orthonormalBasis(normal)
	origin := verts[loop[0]]

	pts := make([]loopPoint, len(loop))
	for i, idx := range loop {
		d := verts[idx].Sub(origin)
		pts[i] = loopPoint{x: d.Dot(u), y: d.Dot(v), idx: idx}
	}

	if signedArea2D(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	var faces []meshkit.Face
	active := pts
	guard := 0
	for len(active) > 3 && guard < len(loop)*len(loop)+8 {
		guard++
		earFound := false
		for i := range active {
			n := len(active)
			prev := active[(i-1+n)%n]
			cur := active[i]
			nxt := active[(i+1)%n]
			if !isConvex(prev, cur, nxt) {
				continue
			}
			if anyPointInside(active, prev, cur, nxt, i) {
				continue
			}
			faces = append(faces, reversedFace(prev.idx, cur.idx, nxt.idx))
			active = append(append([]loopPoint{}, active[:i]...), active[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break // degenerate polygon; stop rather than loop forever
		}
	}
	if len(active) == 3 {
		faces = append(faces, reversedFace(active[0].idx, active[1].idx, active[2].idx))
	}
	return faces
}

// reversedFace flips winding so the CCW-in-(u,v) ear becomes a face whose
// outward normal is -normal instead of +normal.
func reversedFace(a, b, c int) meshkit.Face {
	return meshkit.Face{a, c, b}
}

func orthonormalBasis(normal meshkit.Vec) (u, v meshkit.Vec) {
	ref := meshkit.Vec{X: 1, Y: 0, Z: 0}
	if abs(normal.X) > 0.9 {
		ref = meshkit.Vec{X: 0, Y: 1, Z: 0}
	}
	u = normal.Cross(ref)
	u = u.MulScalar(1 / u.Length())
	v = normal.Cross(u) // normal x u, so u x v == normal
	v = v.MulScalar(1 / v.Length())
	return u, v
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func signedArea2D(pts []loopPoint) float64 {
	var area float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return area / 2
}

func isConvex(prev, cur, nxt loopPoint) bool {
	cross := (cur.x-prev.x)*(nxt.y-prev.y) - (cur.y-prev.y)*(nxt.x-prev.x)
	return cross > 0
}

func anyPointInside(active []loopPoint, a, b, c loopPoint, skip int) bool {
	for i, p := range active {
		if i == skip {
			continue
		}
		if p.idx == a.idx || p.idx == b.idx || p.idx == c.idx {
			continue
		}
		if pointInTriangle2D(p.x, p.y, a.x, a.y, b.x, b.y, c.x, c.y) {
			return true
		}
	}
	return false
}

func pointInTriangle2D(px, py, ax, ay, bx, by, cx, cy float64) bool {
	sign := func(x1, y1, x2, y2, x3, y3 float64) float64 {
		return (x1-x3)*(y2-y3) - (x2-x3)*(y1-y3)
	}
	d1 := sign(px, py, ax, ay, bx, by)
	d2 := sign(px, py, bx, by, cx, cy)
	d3 := sign(px, py, cx, cy, ax, ay)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
