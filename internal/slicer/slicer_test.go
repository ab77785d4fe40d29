package slicer

import (
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshio"
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

func TestSliceVolumesSumToWhole(t *testing.T) {
	m := cubeMesh(20)
	origin := meshkit.Vec{}
	normal := meshkit.Vec{X: 1, Y: 0, Z: 0}

	a := Slice(m, origin, normal, true)
	b := Slice(m, origin, normal.MulScalar(-1), true)

	total := m.Volume()
	got := a.Volume() + b.Volume()
	if math.Abs(got-total) > 1e-3*total {
		t.Fatalf("volume(a)+volume(b) = %v, want ~%v", got, total)
	}
}

func TestSliceOffCenterPlane(t *testing.T) {
	m := cubeMesh(20) // extent -10..10 on every axis
	origin := meshkit.Vec{X: -5}
	normal := meshkit.Vec{X: 1}

	a := Slice(m, origin, normal, true) // x in [-5, 10]: 15x20x20
	want := 15.0 * 20 * 20
	if math.Abs(a.Volume()-want) > 1e-3*want {
		t.Fatalf("volume = %v, want %v", a.Volume(), want)
	}
}

func TestCapTrianglesLieOnPlane(t *testing.T) {
	m := cubeMesh(20)
	origin := meshkit.Vec{}
	normal := meshkit.Vec{X: 1}
	a := Slice(m, origin, normal, true)

	dist := func(v meshkit.Vec) float64 { return v.Sub(origin).Dot(normal) }
	found := false
	for _, f := range a.Faces {
		v0, v1, v2 := a.Vertices[f[0]], a.Vertices[f[1]], a.Vertices[f[2]]
		d0, d1, d2 := dist(v0), dist(v1), dist(v2)
		if math.Abs(d0) < 1e-4 && math.Abs(d1) < 1e-4 && math.Abs(d2) < 1e-4 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one cap face lying on the plane")
	}
}

func TestSliceWithoutCapIsOpen(t *testing.T) {
	m := cubeMesh(20)
	a := Slice(m, meshkit.Vec{}, meshkit.Vec{X: 1}, false)
	if meshio.IsWatertight(a) {
		t.Fatal("uncapped slice should have an open boundary")
	}
}
