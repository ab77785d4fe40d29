package capsurface

import (
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

// flatCapMesh builds a single square cap face sitting in the z=0 plane,
// wound so its outward normal is -Z (as slicer.Slice produces for a
// positive-side cap on normal=+Z).
func flatCapMesh(half float64) meshkit.Mesh {
	v := []meshkit.Vec{
		{X: -half, Y: -half, Z: 0}, {X: half, Y: -half, Z: 0},
		{X: half, Y: half, Z: 0}, {X: -half, Y: half, Z: 0},
	}
	f := []meshkit.Face{{0, 2, 1}, {0, 3, 2}}
	return meshkit.NewMesh(v, f)
}

func TestExtractSquareCapProducesOneOuterRing(t *testing.T) {
	m := flatCapMesh(10)
	res, err := Extract(m, meshkit.Vec{}, meshkit.Vec{X: 0, Y: 0, Z: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(res.Polygons))
	}
	p := res.Polygons[0]
	if len(p.Holes) != 0 {
		t.Fatalf("expected no holes, got %d", len(p.Holes))
	}
	area := math.Abs(p.Outer.SignedArea())
	want := 400.0
	if math.Abs(area-want) > 1e-6*want {
		t.Fatalf("area = %v, want %v", area, want)
	}
}

func TestExtractNoCapFound(t *testing.T) {
	m := flatCapMesh(10)
	// Plane far from the mesh: no triangle lies on it.
	_, err := Extract(m, meshkit.Vec{Z: 50}, meshkit.Vec{X: 0, Y: 0, Z: 1})
	if err == nil {
		t.Fatal("expected ErrNoCapFound")
	}
}

func TestExtractRoundTripsToWorld(t *testing.T) {
	origin := meshkit.Vec{X: 1, Y: 2, Z: 3}
	normal := meshkit.Vec{X: 0, Y: 0, Z: 1}
	m := flatCapMesh(5)
	m = meshkit.Translate(m, origin)

	res, err := Extract(m, origin, normal)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	p := res.Polygons[0]
	for _, pt2d := range p.Outer {
		world := res.ToWorld.Apply(meshkit.Vec{X: pt2d.X, Y: pt2d.Y, Z: 0})
		if math.Abs(world.Z-origin.Z) > 1e-6 {
			t.Fatalf("expected world point back on the cut plane, got z=%v", world.Z)
		}
	}
}
