package capsurface

import (
	"math"

	clipper "github.com/go-clipper/clipper2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Ring is a closed sequence of 2D points (not repeating the first point at
// the end). A positive signed area is an outer boundary wound
// counter-clockwise; a negative signed area is a hole.
type Ring []r2.Vec

// Polygon is a single connected region: one outer ring plus zero or more
// hole rings nested inside it.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// MultiPolygon is a set of disjoint cap regions. Extract repairs a region
// that fails IsValid with a zero-width buffer operation before use.
type MultiPolygon []Polygon

// SignedArea returns twice the shoelace area's sign-carrying half (i.e.
// the standard polygon signed area).
func (r Ring) SignedArea() float64 {
	var area float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return area / 2
}

// Centroid returns the area-weighted centroid of a simple ring.
func (r Ring) Centroid() r2.Vec {
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
	if area == 0 {
		return r[0]
	}
	return r2.Vec{X: cx / (6 * area), Y: cy / (6 * area)}
}

// DistanceToBoundary returns the minimum distance from p to any edge of
// the ring.
func (r Ring) DistanceToBoundary(p r2.Vec) float64 {
	best := -1.0
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		d := distancePointSegment(p, r[i], r[j])
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func distancePointSegment(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	ap := r2.Sub(p, a)
	denom := r2.Dot(ab, ab)
	t := 0.0
	if denom > 1e-18 {
		t = r2.Dot(ap, ab) / denom
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := r2.Add(a, r2.Scale(t, ab))
	d := r2.Sub(p, closest)
	return math.Hypot(d.X, d.Y)
}

// ContainsPoint reports whether p lies inside the polygon (outer ring,
// excluding any hole), boundary-inclusive within eps.
func (p Polygon) ContainsPoint(pt r2.Vec, eps float64) bool {
	if !rayCastContains(p.Outer, pt) && p.Outer.DistanceToBoundary(pt) > eps {
		return false
	}
	for _, h := range p.Holes {
		if rayCastContains(h, pt) && h.DistanceToBoundary(pt) > eps {
			return false
		}
	}
	return true
}

// DistanceToBoundary is the minimum distance from pt to the outer ring or
// any hole ring.
func (p Polygon) DistanceToBoundary(pt r2.Vec) float64 {
	best := p.Outer.DistanceToBoundary(pt)
	for _, h := range p.Holes {
		if d := h.DistanceToBoundary(pt); d < best {
			best = d
		}
	}
	return best
}

func rayCastContains(ring Ring, p r2.Vec) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xint := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// repairScale converts millimeter-scale float coordinates into the
// integer space github.com/go-clipper/clipper2 operates on.
const repairScale = 1e4

// Repair applies a zero-width morphological buffer to fix self-
// intersecting or otherwise invalid rings. It is built on
// github.com/go-clipper/clipper2's public ClipperOffset API, executed at
// zero delta, the same "buffer(0)" trick Shapely uses internally to
// repair invalid polygons.
func (p Polygon) Repair() Polygon {
	offsetRing := func(r Ring) Ring {
		if len(r) < 3 {
			return r
		}
		path := make(clipper.Path64, len(r))
		for i, pt := range r {
			path[i] = clipper.Point64{X: int64(pt.X * repairScale), Y: int64(pt.Y * repairScale)}
		}
		off := clipper.NewClipperOffset(2.0, 0.25)
		off.AddPaths(clipper.Paths64{path}, clipper.Round, clipper.ClosedPolygon)
		solution, err := off.Execute(0)
		if err != nil || len(solution) == 0 {
			return r
		}
		// Zero-delta offsetting can return several pieces if the input
		// self-intersected; keep the largest by |area|, matching
		// Shapely's buffer(0)-then-take-main-polygon pattern.
		best := solution[0]
		bestArea := pathArea(best)
		for _, s := range solution[1:] {
			if a := pathArea(s); a > bestArea {
				best, bestArea = s, a
			}
		}
		out := make(Ring, len(best))
		for i, pt := range best {
			out[i] = r2.Vec{X: float64(pt.X) / repairScale, Y: float64(pt.Y) / repairScale}
		}
		return out
	}

	repaired := Polygon{Outer: offsetRing(p.Outer)}
	for _, h := range p.Holes {
		repaired.Holes = append(repaired.Holes, offsetRing(h))
	}
	return repaired
}

func pathArea(path clipper.Path64) float64 {
	var area float64
	n := len(path)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += float64(path[i].X*path[j].Y - path[j].X*path[i].Y)
	}
	if area < 0 {
		area = -area
	}
	return area
}

// IsValid is a coarse validity check: the outer ring must have a non-zero
// area and at least 3 vertices. No self-intersection test is performed:
// a self-intersecting ring with non-zero area passes. Extract runs Repair
// only on polygons that fail this check.
func (p Polygon) IsValid() bool {
	return len(p.Outer) >= 3 && p.Outer.SignedArea() != 0
}
