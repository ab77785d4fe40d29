package keyplan

import (
	"math"
	"sort"

	"github.com/jeeveshs/steelsplit/internal/capsurface"
	"gonum.org/v1/gonum/spatial/r2"
)

// convexHull computes the convex hull of pts via Andrew's monotone chain,
// returning hull vertices in counter-clockwise order.
func convexHull(pts []r2.Vec) []r2.Vec {
	uniq := dedupeSorted(pts)
	if len(uniq) < 3 {
		return uniq
	}
	cross := func(o, a, b r2.Vec) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	lower := make([]r2.Vec, 0, len(uniq))
	for _, p := range uniq {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]r2.Vec, 0, len(uniq))
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func dedupeSorted(pts []r2.Vec) []r2.Vec {
	out := append([]r2.Vec(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	uniq := out[:0]
	for i, p := range out {
		if i == 0 || p != out[i-1] {
			uniq = append(uniq, p)
		}
	}
	return uniq
}

// rect is an oriented rectangle described by its four corners in order.
type rect struct {
	corners [4]r2.Vec
}

// edgeLengths returns the lengths of the rectangle's two distinct edges.
func (r rect) edgeLengths() (e0, e1 float64) {
	e0 = dist(r.corners[0], r.corners[1])
	e1 = dist(r.corners[1], r.corners[2])
	return
}

func dist(a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	return math.Hypot(d.X, d.Y)
}

// minimumRotatedRectangle returns the minimum-area oriented bounding
// rectangle of a convex polygon via rotating calipers: for each hull
// edge, project every hull vertex onto that edge's direction and its
// normal, take the resulting axis-aligned extents in that frame, and keep
// the orientation with the smallest area. This is the rotating-calipers
// algorithm underlying Shapely's minimum_rotated_rectangle.
func minimumRotatedRectangle(hull []r2.Vec) rect {
	n := len(hull)
	if n == 0 {
		return rect{}
	}
	if n == 1 {
		return rect{corners: [4]r2.Vec{hull[0], hull[0], hull[0], hull[0]}}
	}
	if n == 2 {
		return rect{corners: [4]r2.Vec{hull[0], hull[1], hull[1], hull[0]}}
	}

	bestArea := math.Inf(1)
	var best rect
	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]
		edge := r2.Sub(b, a)
		l := math.Hypot(edge.X, edge.Y)
		if l < 1e-12 {
			continue
		}
		ux, uy := edge.X/l, edge.Y/l // edge-aligned unit axis
		vx, vy := -uy, ux            // perpendicular axis

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			d := r2.Sub(p, a)
			pu := d.X*ux + d.Y*uy
			pv := d.X*vx + d.Y*vy
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}
		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			corner := func(u, v float64) r2.Vec {
				return r2.Vec{X: a.X + u*ux + v*vx, Y: a.Y + u*uy + v*vy}
			}
			best = rect{corners: [4]r2.Vec{
				corner(minU, minV),
				corner(maxU, minV),
				corner(maxU, maxV),
				corner(minU, maxV),
			}}
		}
	}
	return best
}

// poleOfInaccessibility finds the interior point of poly maximally distant
// from its boundary, to within tolerance mm, following the grid-search +
// quadrant-refinement strategy of Mapbox's polylabel algorithm: seed a
// coarse grid of candidate cells, track the best-so-far, and only descend
// into a cell's four quadrants while its optimistic upper bound could still
// beat the current best.
func poleOfInaccessibility(p capsurface.Polygon, tolerance float64) r2.Vec {
	minX, minY, maxX, maxY := ringBounds(p.Outer)
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return ringCentroid(p.Outer)
	}
	cellSize := math.Min(w, h)
	if cellSize <= 0 {
		return ringCentroid(p.Outer)
	}
	half := cellSize / 2

	type cell struct {
		x, y, h, d float64
	}
	dist := func(x, y float64) float64 { return polygonDistanceSigned(p, r2.Vec{X: x, Y: y}) }
	makeCell := func(x, y, h float64) cell { return cell{x: x, y: y, h: h, d: dist(x, y)} }

	best := makeCell(minX+half, minY+half, half)
	centroid := ringCentroid(p.Outer)
	if cd := dist(centroid.X, centroid.Y); cd > best.d {
		best = makeCell(centroid.X, centroid.Y, 0)
	}

	queue := []cell{makeCell(minX+half, minY+half, half)}
	for x := minX; x < maxX; x += cellSize {
		for y := minY; y < maxY; y += cellSize {
			queue = append(queue, makeCell(x+half, y+half, half))
		}
	}

	for len(queue) > 0 {
		c := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if c.d > best.d {
			best = c
		}
		maxPossible := c.d + c.h*math.Sqrt2
		if maxPossible-best.d <= tolerance || c.h <= tolerance {
			continue
		}
		nh := c.h / 2
		queue = append(queue,
			makeCell(c.x-nh, c.y-nh, nh),
			makeCell(c.x+nh, c.y-nh, nh),
			makeCell(c.x-nh, c.y+nh, nh),
			makeCell(c.x+nh, c.y+nh, nh),
		)
	}
	return r2.Vec{X: best.x, Y: best.y}
}

func ringBounds(r capsurface.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range r {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}

func ringCentroid(r capsurface.Ring) r2.Vec {
	var cx, cy, area float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].X*r[j].Y - r[j].X*r[i].Y
		cx += (r[i].X + r[j].X) * cross
		cy += (r[i].Y + r[j].Y) * cross
		area += cross
	}
	area /= 2
	if math.Abs(area) < 1e-12 {
		if n == 0 {
			return r2.Vec{}
		}
		return r[0]
	}
	return r2.Vec{X: cx / (6 * area), Y: cy / (6 * area)}
}

// polygonDistanceSigned returns the distance to the polygon boundary,
// negated if pt lies outside the polygon (outside the outer ring, or
// inside a hole).
func polygonDistanceSigned(p capsurface.Polygon, pt r2.Vec) float64 {
	d := p.DistanceToBoundary(pt)
	if p.ContainsPoint(pt, 0) {
		return d
	}
	return -d
}
