package keyplan

import (
	"testing"

	"github.com/jeeveshs/steelsplit/internal/capsurface"
	"gonum.org/v1/gonum/spatial/r2"
)

func squareCap(side float64) capsurface.MultiPolygon {
	h := side / 2
	ring := capsurface.Ring{
		{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
	}
	return capsurface.MultiPolygon{{Outer: ring}}
}

func rectCap(w, h float64) capsurface.MultiPolygon {
	hw, hh := w/2, h/2
	ring := capsurface.Ring{
		{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
	}
	return capsurface.MultiPolygon{{Outer: ring}}
}

func TestPlaceSquareCapGetsOnePin(t *testing.T) {
	mp := squareCap(40)
	plan := Place(mp)
	if len(plan.Centers) != 1 {
		t.Fatalf("expected 1 pin, got %d", len(plan.Centers))
	}
	c := plan.Centers[0]
	if c.X*c.X+c.Y*c.Y > 1e-6 {
		t.Fatalf("expected centroid pin at origin, got %v", c)
	}
	if plan.SafeRadius <= 0 {
		t.Fatalf("expected positive safe radius, got %v", plan.SafeRadius)
	}
}

func TestPlaceElongatedRectGetsTwoPins(t *testing.T) {
	mp := rectCap(100, 20) // aspect 5 -> 2 pins
	plan := Place(mp)
	if len(plan.Centers) != 2 {
		t.Fatalf("expected 2 pins, got %d", len(plan.Centers))
	}
}

func TestPlaceVeryElongatedRectGetsThreePins(t *testing.T) {
	mp := rectCap(200, 10) // aspect 20 -> 3 pins
	plan := Place(mp)
	if len(plan.Centers) != 3 {
		t.Fatalf("expected 3 pins, got %d", len(plan.Centers))
	}
}

func TestPlaceLShapeFallsBackToPoleOfInaccessibility(t *testing.T) {
	// Thin-armed L-shape: its area centroid (about (3.2, 3.2)) lies in the
	// notch, outside the polygon.
	ring := capsurface.Ring{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 10}, {X: 0, Y: 10},
	}
	mp := capsurface.MultiPolygon{{Outer: ring}}
	plan := Place(mp)
	if len(plan.Centers) != 1 {
		t.Fatalf("expected 1 pin for a compact L-shape, got %d", len(plan.Centers))
	}
	p := capsurface.Polygon{Outer: ring}
	if !p.ContainsPoint(plan.Centers[0], 1e-9) {
		t.Fatalf("chosen pin %v must lie inside the L-shaped polygon", plan.Centers[0])
	}
}

func TestConvexHullDropsInteriorPoints(t *testing.T) {
	pts := []r2.Vec{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 5, Y: 5},
	}
	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected hull of 4 corners, got %d: %v", len(hull), hull)
	}
}

func TestMinimumRotatedRectangleAxisAligned(t *testing.T) {
	hull := convexHull([]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 2}, {X: 0, Y: 2}})
	r := minimumRotatedRectangle(hull)
	e0, e1 := r.edgeLengths()
	long, short := e0, e1
	if short > long {
		long, short = short, long
	}
	if long < 9.9 || long > 10.1 {
		t.Fatalf("expected long edge ~10, got %v", long)
	}
	if short < 1.9 || short > 2.1 {
		t.Fatalf("expected short edge ~2, got %v", short)
	}
}
