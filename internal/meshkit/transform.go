package meshkit

import (
	"math"

	"github.com/pkg/errors"
)

// Transform is a rigid (rotation + translation) 4x4 affine transform,
// stored row-major. meshkit implements its own small matrix type rather
// than reaching for sdfx's solid-modeling matrix: sdfx's Matrix is built
// around composing SDF primitives, not transforming arbitrary triangle
// soups, and its exact composition order cannot be pinned down without
// running the toolchain against it, so a minimal verified-by-hand 4x4 is
// the safer choice here (see DESIGN.md).
type Transform struct {
	m [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.m[i][i] = 1
	}
	return t
}

// TranslationTransform returns a pure translation by d.
func TranslationTransform(d Vec) Transform {
	t := Identity()
	t.m[0][3] = d.X
	t.m[1][3] = d.Y
	t.m[2][3] = d.Z
	return t
}

// rotationFromAxisAngle builds a rotation transform about a unit axis by
// angle radians (Rodrigues' formula).
func rotationFromAxisAngle(axis Vec, angle float64) Transform {
	x, y, z := axis.X, axis.Y, axis.Z
	c := math.Cos(angle)
	s := math.Sin(angle)
	ic := 1 - c
	var t Transform
	t.m[0][0] = c + x*x*ic
	t.m[0][1] = x*y*ic - z*s
	t.m[0][2] = x*z*ic + y*s
	t.m[1][0] = y*x*ic + z*s
	t.m[1][1] = c + y*y*ic
	t.m[1][2] = y*z*ic - x*s
	t.m[2][0] = z*x*ic - y*s
	t.m[2][1] = z*y*ic + x*s
	t.m[2][2] = c + z*z*ic
	t.m[3][3] = 1
	return t
}

// Apply transforms a point by the affine matrix.
func (t Transform) Apply(v Vec) Vec {
	return Vec{
		X: t.m[0][0]*v.X + t.m[0][1]*v.Y + t.m[0][2]*v.Z + t.m[0][3],
		Y: t.m[1][0]*v.X + t.m[1][1]*v.Y + t.m[1][2]*v.Z + t.m[1][3],
		Z: t.m[2][0]*v.X + t.m[2][1]*v.Y + t.m[2][2]*v.Z + t.m[2][3],
	}
}

// ApplyVector transforms a direction by the linear (rotation) part only,
// ignoring translation.
func (t Transform) ApplyVector(v Vec) Vec {
	return Vec{
		X: t.m[0][0]*v.X + t.m[0][1]*v.Y + t.m[0][2]*v.Z,
		Y: t.m[1][0]*v.X + t.m[1][1]*v.Y + t.m[1][2]*v.Z,
		Z: t.m[2][0]*v.X + t.m[2][1]*v.Y + t.m[2][2]*v.Z,
	}
}

// Concat returns the transform equivalent to applying t first, then other
// (other * t, consistent with applying to a column vector).
func (t Transform) Concat(other Transform) Transform {
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += other.m[i][k] * t.m[k][j]
			}
			out.m[i][j] = sum
		}
	}
	return out
}

// Inverse returns the inverse of a rigid transform (orthonormal rotation +
// translation): the transpose of the rotation block and the negated,
// rotated translation.
func (t Transform) Inverse() Transform {
	var inv Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.m[i][j] = t.m[j][i]
		}
	}
	tr := Vec{X: t.m[0][3], Y: t.m[1][3], Z: t.m[2][3]}
	negRotated := inv.ApplyVector(tr)
	inv.m[0][3] = -negRotated.X
	inv.m[1][3] = -negRotated.Y
	inv.m[2][3] = -negRotated.Z
	inv.m[3][3] = 1
	return inv
}

// ErrAlignmentFailure reports that the rotation aligning a to b could not
// be computed. Callers treat this as non-fatal and keep the mesh's
// current orientation.
var ErrAlignmentFailure = errors.New("meshkit: could not align vectors")

// AlignVectors returns a rigid rotation sending unit vector a onto unit
// vector b. Degenerate cases: a == b returns the identity; a == -b returns
// a 180-degree rotation about an axis orthogonal to a. A zero-length input
// is reported as ErrAlignmentFailure; callers skip the rotation on error.
func AlignVectors(a, b Vec) (Transform, error) {
	const eps = 1e-9
	la, lb := a.Length(), b.Length()
	if la < eps || lb < eps {
		return Identity(), errors.WithStack(ErrAlignmentFailure)
	}
	a = a.MulScalar(1 / la)
	b = b.MulScalar(1 / lb)

	dot := a.Dot(b)
	if dot > 1-1e-9 {
		return Identity(), nil
	}
	if dot < -1+1e-9 {
		axis := arbitraryOrthogonal(a)
		return rotationFromAxisAngle(axis, math.Pi), nil
	}
	axis := a.Cross(b)
	axisLen := axis.Length()
	if axisLen < eps {
		return Identity(), errors.WithStack(ErrAlignmentFailure)
	}
	axis = axis.MulScalar(1 / axisLen)
	angle := math.Acos(clamp(dot, -1, 1))
	return rotationFromAxisAngle(axis, angle), nil
}

// arbitraryOrthogonal returns any unit vector orthogonal to a (a must be
// unit length).
func arbitraryOrthogonal(a Vec) Vec {
	ref := Vec{X: 1, Y: 0, Z: 0}
	if math.Abs(a.X) > 0.9 {
		ref = Vec{X: 0, Y: 1, Z: 0}
	}
	ortho := a.Cross(ref)
	return ortho.MulScalar(1 / ortho.Length())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
