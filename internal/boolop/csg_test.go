package boolop

import (
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

func cubeMesh(center meshkit.Vec, size float64) meshkit.Mesh {
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
	return meshkit.Translate(meshkit.NewMesh(v, f), center)
}

func TestUnionOfDisjointCubesConcatenatesVolume(t *testing.T) {
	a := cubeMesh(meshkit.Vec{}, 10)
	b := cubeMesh(meshkit.Vec{X: 100}, 10)

	result, warnings := Union(a, []meshkit.Mesh{b})
	_ = warnings
	want := a.Volume() + b.Volume()
	got := math.Abs(result.Volume())
	if math.Abs(got-want) > 1e-2*want {
		t.Fatalf("disjoint union volume = %v, want ~%v", got, want)
	}
}

func TestUnionOfOverlappingCubesIsSmallerThanSum(t *testing.T) {
	a := cubeMesh(meshkit.Vec{}, 10)
	b := cubeMesh(meshkit.Vec{X: 5}, 10)

	result, _ := Union(a, []meshkit.Mesh{b})
	sum := a.Volume() + b.Volume()
	got := math.Abs(result.Volume())
	if got >= sum {
		t.Fatalf("overlapping union volume %v should be less than sum %v", got, sum)
	}
	if got <= a.Volume() {
		t.Fatalf("overlapping union volume %v should exceed either input's volume %v", got, a.Volume())
	}
}

func TestDifferenceRemovesOverlap(t *testing.T) {
	a := cubeMesh(meshkit.Vec{}, 10)
	b := cubeMesh(meshkit.Vec{X: 5}, 10)

	result, _ := Difference(a, []meshkit.Mesh{b})
	got := math.Abs(result.Volume())
	if got >= a.Volume() {
		t.Fatalf("difference volume %v should be less than original %v", got, a.Volume())
	}
	if got <= 0 {
		t.Fatalf("expected a nonzero remainder, got %v", got)
	}
}

func TestDifferenceOfDisjointCubesKeepsOriginal(t *testing.T) {
	a := cubeMesh(meshkit.Vec{}, 10)
	b := cubeMesh(meshkit.Vec{X: 100}, 10)

	result, _ := Difference(a, []meshkit.Mesh{b})
	got := math.Abs(result.Volume())
	want := a.Volume()
	if math.Abs(got-want) > 1e-2*want {
		t.Fatalf("disjoint difference volume = %v, want ~%v", got, want)
	}
}
