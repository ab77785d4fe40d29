package pingen

import (
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshio"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

func TestChamferedVertexCount(t *testing.T) {
	p := Params{Radius: 5, Height: 15, Chamfer: 1, TaperTop: true, FlareBottom: true}
	m := Chamfered(p)
	// 4 profile points (flare adds 2, taper adds 2) -> 32*4+2 vertices.
	want := sections*4 + 2
	if len(m.Vertices) != want {
		t.Fatalf("vertex count = %d, want %d", len(m.Vertices), want)
	}
}

func TestChamferedSimpleCylinderVertexCount(t *testing.T) {
	p := Params{Radius: 5, Height: 15, Chamfer: 1}
	m := Chamfered(p)
	want := sections*2 + 2
	if len(m.Vertices) != want {
		t.Fatalf("vertex count = %d, want %d", len(m.Vertices), want)
	}
}

func TestChamferedIsWatertight(t *testing.T) {
	p := Params{Radius: 5, Height: 15, Chamfer: 1, TaperTop: true, FlareBottom: true}
	m := Chamfered(p)
	if !meshio.IsWatertight(m) {
		t.Fatal("chamfered pin mesh must be watertight")
	}
}

func TestChamferedOutwardWinding(t *testing.T) {
	p := Params{Radius: 5, Height: 15, Chamfer: 1, TaperTop: true, FlareBottom: true}
	m := Chamfered(p)
	if m.Volume() <= 0 {
		t.Fatalf("expected positive enclosed volume, got %v", m.Volume())
	}
}

func TestProfileRescalesOversizedChamfer(t *testing.T) {
	p := Params{Radius: 5, Height: 6, Chamfer: 10, TaperTop: true, FlareBottom: true}
	prof := profile(p)
	// chamferBudget=2, so c should have been rescaled to h/3=2.
	if prof[1].z != 2 {
		t.Fatalf("expected rescaled chamfer z=2, got %v", prof[1].z)
	}
}

func TestPinAndHoleClampsAndOffsets(t *testing.T) {
	pin, hole := PinAndHole(1.0) // 0.6*1.0 = 0.6, clamped up to 2.0
	if pin.Radius != 2.0 {
		t.Fatalf("pin radius = %v, want 2.0", pin.Radius)
	}
	if pin.Height != 10.0 {
		t.Fatalf("pin height = %v, want 10.0 (clamped)", pin.Height)
	}
	if math.Abs(hole.Radius-pin.Radius-0.2) > 1e-9 {
		t.Fatalf("hole radius - pin radius = %v, want 0.2", hole.Radius-pin.Radius)
	}
	if hole.TaperTop {
		t.Fatal("hole cutter must not taper at the tip")
	}
	if !pin.TaperTop || !pin.FlareBottom {
		t.Fatal("pin must taper at the tip and flare at the base")
	}
}

func TestPlaceTranslatesAndOrients(t *testing.T) {
	p := Params{Radius: 5, Height: 15, Chamfer: 1}
	m := Chamfered(p)
	center := meshkit.Vec{X: 10, Y: 20, Z: 30}
	placed := Place(m, center, meshkit.Vec{X: 0, Y: 0, Z: -1})

	min, _ := placed.Bounds()
	if math.Abs(min.Z-(center.Z-p.Height)) > 1e-6 {
		t.Fatalf("expected pin to extend downward from center, min.Z = %v", min.Z)
	}
}
