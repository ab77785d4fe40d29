// Package keyplan turns a cap-surface polygon into a set of pin placements
// and a safe radius: where to put alignment pins on a cut face, and how
// large they can be without poking through the polygon's edge.
package keyplan

import (
	"math"

	"github.com/jeeveshs/steelsplit/internal/capsurface"
	"gonum.org/v1/gonum/spatial/r2"
)

const polylabelTolerance = 0.1 // mm

// Plan is the result of placing pins on a cap polygon.
type Plan struct {
	Centers    []r2.Vec
	SafeRadius float64
	Warnings   []string
}

// Place chooses pin centers and a safe radius for the given cap polygon
// set. When the cap is a true multi-polygon (more than one disjoint outer
// ring), the largest-area region is used as the placement surface, mirroring
// the "take the main polygon" behavior of a unary union over fragments.
func Place(mp capsurface.MultiPolygon) Plan {
	if len(mp) == 0 {
		return Plan{}
	}
	main := mp[0]
	bestArea := math.Abs(main.Outer.SignedArea())
	for _, p := range mp[1:] {
		if a := math.Abs(p.Outer.SignedArea()); a > bestArea {
			main, bestArea = p, a
		}
	}

	hull := convexHull(append([]r2.Vec(nil), main.Outer...))
	r := minimumRotatedRectangle(hull)
	e0, e1 := r.edgeLengths()
	long, short := e0, e1
	if short > long {
		long, short = short, long
	}
	aspect := long
	if short > 1e-6 {
		aspect = long / short
	}

	n := pinCount(aspect)

	var centers []r2.Vec
	var warnings []string
	if n == 1 {
		centers = append(centers, singlePin(main))
	} else {
		centers, warnings = multiPin(main, r, n)
		if len(centers) == 0 {
			centers = append(centers, singlePin(main))
			warnings = append(warnings, "all candidate pins fell outside the cap polygon; fell back to a single centered pin")
		}
	}

	// Safe radius is measured from the first chosen center only, not the
	// minimum over all centers: a deliberate carry-over of the original
	// splitter's behavior rather than a more conservative whole-plan bound.
	safeRadius := main.DistanceToBoundary(centers[0])

	return Plan{Centers: centers, SafeRadius: safeRadius, Warnings: warnings}
}

// pinCount maps a bounding-rectangle aspect ratio to a pin count: long,
// narrow caps get three pins along their axis, moderately elongated caps
// get two, and roughly square or round caps get a single centered pin.
func pinCount(aspect float64) int {
	switch {
	case aspect > 10:
		return 3
	case aspect > 3:
		return 2
	default:
		return 1
	}
}

// singlePin places one pin at the polygon centroid if the centroid lies
// inside the polygon, falling back to the pole of inaccessibility (the
// point furthest from the boundary) for concave caps whose centroid falls
// outside the polygon, such as an L-shaped cap.
func singlePin(p capsurface.Polygon) r2.Vec {
	c := ringCentroid(p.Outer)
	if p.ContainsPoint(c, 0) {
		return c
	}
	return poleOfInaccessibility(p, polylabelTolerance)
}

// multiPin places n pins evenly spaced along the long axis of the minimum
// rotated bounding rectangle, at fractional positions (2i+1)/(2n) between
// its short edges' midpoints. Candidates that fall outside the polygon are
// dropped (with a warning) rather than forced inside.
func multiPin(p capsurface.Polygon, r rect, n int) ([]r2.Vec, []string) {
	// Identify the rectangle's long edge: the edge pair with the greater
	// length defines the placement axis.
	e0 := dist(r.corners[0], r.corners[1])
	e1 := dist(r.corners[1], r.corners[2])

	var start, end r2.Vec
	if e0 >= e1 {
		// corners[0]-corners[1] and corners[3]-corners[2] are the long edges;
		// the placement axis runs between the midpoints of the short edges
		// corners[0]-corners[3] and corners[1]-corners[2].
		start = midpoint(r.corners[0], r.corners[3])
		end = midpoint(r.corners[1], r.corners[2])
	} else {
		start = midpoint(r.corners[0], r.corners[1])
		end = midpoint(r.corners[3], r.corners[2])
	}

	var centers []r2.Vec
	var warnings []string
	for i := 0; i < n; i++ {
		t := float64(2*i+1) / float64(2*n)
		cand := r2.Add(start, r2.Scale(t, r2.Sub(end, start)))
		if p.ContainsPoint(cand, 0) {
			centers = append(centers, cand)
		} else {
			warnings = append(warnings, "a candidate pin position fell outside the cap polygon and was dropped")
		}
	}
	return centers, warnings
}

func midpoint(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}
