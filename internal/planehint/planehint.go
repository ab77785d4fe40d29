// Package planehint picks a default cut plane for a mesh: an axis
// (given or inferred from the mesh's longest extent) and a midplane
// along it, plus a decorative visualization of the resulting cut face.
package planehint

import (
	"github.com/jeeveshs/steelsplit/internal/capsurface"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/jeeveshs/steelsplit/internal/slicer"
)

// Axis names a preferred split axis, or Auto to infer one from the mesh.
type Axis int

const (
	Auto Axis = iota
	AxisX
	AxisY
	AxisZ
)

// Suggestion is a candidate cut plane plus a decorative preview mesh.
type Suggestion struct {
	Origin        meshkit.Vec
	Normal        meshkit.Vec
	Visualization meshkit.Mesh
}

// Suggest picks (origin, normal) for mesh given an axis hint, and builds a
// decorative visualization of the cut face. On any failure to build a
// real visualization (no cap found, degenerate projection), it falls
// back to a thin 1mm box shimming the mesh's X/Y extents regardless of
// which axis was actually cut, a cosmetic quirk of the fallback path
// that downstream consumers never rely on, since the visualization is
// decorative only.
func Suggest(mesh meshkit.Mesh, hint Axis) Suggestion {
	axisIdx := axisIndex(mesh, hint)

	bmin, bmax := mesh.Bounds()
	centroid := mesh.Centroid()
	origin := centroid
	mid := (component(bmin, axisIdx) + component(bmax, axisIdx)) / 2
	origin = setComponent(origin, axisIdx, mid)

	normal := unitAxis(axisIdx)

	viz := buildVisualization(mesh, origin, normal, bmin, bmax)

	return Suggestion{Origin: origin, Normal: normal, Visualization: viz}
}

func axisIndex(mesh meshkit.Mesh, hint Axis) int {
	switch hint {
	case AxisX:
		return 0
	case AxisY:
		return 1
	case AxisZ:
		return 2
	default:
		return meshkit.AxisArgmax(mesh.Extents())
	}
}

func unitAxis(i int) meshkit.Vec {
	v := meshkit.Vec{}
	switch i {
	case 0:
		v.X = 1
	case 1:
		v.Y = 1
	default:
		v.Z = 1
	}
	return v
}

func component(v meshkit.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(v meshkit.Vec, i int, val float64) meshkit.Vec {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// buildVisualization sections the mesh at the candidate plane, triangulates
// the resulting cap polygons, and lifts them back into world space. If
// the section yields no cap, it falls back to a flat box approximating
// the cut using the mesh's X and Y extents, regardless of which axis was
// actually cut.
func buildVisualization(mesh meshkit.Mesh, origin, normal meshkit.Vec, bmin, bmax meshkit.Vec) meshkit.Mesh {
	sliced := slicer.Slice(mesh, origin, normal, true)
	cap, err := capsurface.Extract(sliced, origin, normal)
	if err != nil {
		return fallbackBox(bmin, bmax, origin)
	}

	var faces []meshkit.Face
	var verts []meshkit.Vec
	for _, poly := range cap.Polygons {
		loop := make([]int, len(poly.Outer))
		for i, pt := range poly.Outer {
			loop[i] = len(verts)
			verts = append(verts, meshkit.Vec{X: pt.X, Y: pt.Y, Z: 0})
		}
		for i := 1; i+1 < len(loop); i++ {
			faces = append(faces, meshkit.Face{loop[0], loop[i], loop[i+1]})
		}
	}
	if len(faces) == 0 {
		return fallbackBox(bmin, bmax, origin)
	}

	local := meshkit.NewMesh(verts, faces)
	return meshkit.ApplyAffine(local, cap.ToWorld)
}

// fallbackBox approximates the cut with a thin 1mm-tall box spanning the
// mesh's X/Y extents, centered at origin. This mirrors a known fallback
// quirk: the box always uses X/Y extents even when the cut axis is X or
// Y, so the shim can look wrong for non-Z cuts. It is visualization only
// and never consumed by the split pipeline.
func fallbackBox(bmin, bmax, origin meshkit.Vec) meshkit.Mesh {
	const thickness = 1.0
	hx := (bmax.X - bmin.X) / 2
	hy := (bmax.Y - bmin.Y) / 2
	hz := thickness / 2

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
	return meshkit.Translate(meshkit.NewMesh(v, f), origin)
}
