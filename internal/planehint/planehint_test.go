package planehint

import (
	"math"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

func boxMesh(ex, ey, ez float64) meshkit.Mesh {
	hx, hy, hz := ex/2, ey/2, ez/2
	v := []meshkit.Vec{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
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

func TestSuggestAutoPicksLongestAxis(t *testing.T) {
	m := boxMesh(200, 20, 20)
	s := Suggest(m, Auto)
	want := meshkit.Vec{X: 1}
	if s.Normal.Sub(want).Length() > 1e-9 {
		t.Fatalf("normal = %v, want %v", s.Normal, want)
	}
	if math.Abs(s.Origin.X) > 1e-9 {
		t.Fatalf("origin.X = %v, want 0 (midpoint)", s.Origin.X)
	}
}

func TestSuggestHintOverridesAxis(t *testing.T) {
	m := boxMesh(200, 20, 20)
	s := Suggest(m, AxisZ)
	want := meshkit.Vec{Z: 1}
	if s.Normal.Sub(want).Length() > 1e-9 {
		t.Fatalf("normal = %v, want %v", s.Normal, want)
	}
}

func TestSuggestProducesNonEmptyVisualization(t *testing.T) {
	m := boxMesh(20, 20, 20)
	s := Suggest(m, Auto)
	if len(s.Visualization.Faces) == 0 {
		t.Fatal("expected a non-empty visualization mesh")
	}
}
