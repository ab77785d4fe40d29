package meshio

import (
	"bytes"
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

func cubeMesh(size float64) meshkit.Mesh {
	h := size / 2
	v := []meshkit.Vec{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	f := []meshkit.Face{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}
	return meshkit.NewMesh(v, f)
}

func TestBinaryRoundTrip(t *testing.T) {
	m := cubeMesh(10)
	var buf bytes.Buffer
	if err := Export(&buf, m, true); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Volume()-m.Volume()) > 1e-3 {
		t.Fatalf("volume after round trip = %v, want %v", got.Volume(), m.Volume())
	}
	if !IsWatertight(got) {
		t.Fatal("round-tripped cube should be watertight")
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	m := cubeMesh(10)
	var buf bytes.Buffer
	if err := Export(&buf, m, false); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Volume()-m.Volume()) > 1e-3 {
		t.Fatalf("volume after ascii round trip = %v, want %v", got.Volume(), m.Volume())
	}
}

func TestIsWatertightDetectsOpenMesh(t *testing.T) {
	m := cubeMesh(10)
	m.Faces = m.Faces[:len(m.Faces)-1] // drop one triangle: opens the mesh
	if IsWatertight(m) {
		t.Fatal("mesh missing a face should not be watertight")
	}
}

func TestFillHolesClosesSingleMissingFace(t *testing.T) {
	m := cubeMesh(10)
	m.Faces = m.Faces[:len(m.Faces)-1]
	repaired := FillHoles(m)
	if len(repaired.Faces) <= len(m.Faces) {
		t.Fatalf("expected FillHoles to add faces, got %d (had %d)", len(repaired.Faces), len(m.Faces))
	}
}

func TestLoadRejectsEmptyInput(t *testing.T) {
	_, err := Load(bytes.NewReader(nil))
	if err == nil {
		t.Fatal("expected error loading empty input")
	}
}
