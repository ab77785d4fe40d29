// Package pingen builds the chamfered cylinder solids used as alignment
// pins and their mating hole cutters: a mesh of revolution around the
// local +Z axis, optionally tapered at the tip and/or flared at the base.
package pingen

import (
	"math"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
)

const sections = 32

// Params describes one chamfered cylinder.
type Params struct {
	Radius      float64
	Height      float64
	Chamfer     float64
	TaperTop    bool
	FlareBottom bool
}

// profilePoint is one (z, r) sample of the revolved cross-section.
type profilePoint struct {
	z, r float64
}

// profile returns the ordered (z, r) cross-section samples for p, with the
// chamfer rescaled down if the requested chamfers would not fit within the
// cylinder's height.
func profile(p Params) []profilePoint {
	c := p.Chamfer
	var chamferBudget float64
	if p.TaperTop {
		chamferBudget++
	}
	if p.FlareBottom {
		chamferBudget++
	}
	if chamferBudget*c >= p.Height {
		c = p.Height / 3
	}

	var pts []profilePoint
	if p.FlareBottom {
		pts = append(pts, profilePoint{z: 0, r: p.Radius + c}, profilePoint{z: c, r: p.Radius})
	} else {
		pts = append(pts, profilePoint{z: 0, r: p.Radius})
	}
	if p.TaperTop {
		pts = append(pts, profilePoint{z: p.Height - c, r: p.Radius}, profilePoint{z: p.Height, r: p.Radius - c})
	} else {
		pts = append(pts, profilePoint{z: p.Height, r: p.Radius})
	}
	return pts
}

// Chamfered builds the solid described by p, centered on the local Z axis
// with its base at z=0. The result has exactly 32*len(profile)+2 vertices:
// one ring of 32 per profile sample plus a bottom and a top pole vertex,
// and is watertight and outward-wound.
func Chamfered(p Params) meshkit.Mesh {
	prof := profile(p)
	numRings := len(prof)

	verts := make([]meshkit.Vec, 0, sections*numRings+2)
	ringStart := make([]int, numRings)
	for ringIdx, pp := range prof {
		ringStart[ringIdx] = len(verts)
		for s := 0; s < sections; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sections)
			verts = append(verts, meshkit.Vec{
				X: pp.r * math.Cos(theta),
				Y: pp.r * math.Sin(theta),
				Z: pp.z,
			})
		}
	}
	bottomPole := len(verts)
	verts = append(verts, meshkit.Vec{X: 0, Y: 0, Z: prof[0].z})
	topPole := len(verts)
	verts = append(verts, meshkit.Vec{X: 0, Y: 0, Z: prof[numRings-1].z})

	var faces []meshkit.Face

	// Side walls between consecutive rings, wound for an outward normal.
	for ringIdx := 0; ringIdx+1 < numRings; ringIdx++ {
		a0 := ringStart[ringIdx]
		a1 := ringStart[ringIdx+1]
		for s := 0; s < sections; s++ {
			sNext := (s + 1) % sections
			v00 := a0 + s
			v01 := a0 + sNext
			v10 := a1 + s
			v11 := a1 + sNext
			faces = append(faces,
				meshkit.Face{v00, v01, v11},
				meshkit.Face{v00, v11, v10},
			)
		}
	}

	// Bottom cap: fan from the bottom pole, facing -Z.
	for s := 0; s < sections; s++ {
		sNext := (s + 1) % sections
		faces = append(faces, meshkit.Face{bottomPole, ringStart[0] + sNext, ringStart[0] + s})
	}
	// Top cap: fan from the top pole, facing +Z.
	topRing := ringStart[numRings-1]
	for s := 0; s < sections; s++ {
		sNext := (s + 1) % sections
		faces = append(faces, meshkit.Face{topPole, topRing + s, topRing + sNext})
	}

	return meshkit.NewMesh(verts, faces)
}

// Place rotates m (built on local +Z) so its axis points along axis, then
// translates it so its base sits at center.
func Place(m meshkit.Mesh, center, axis meshkit.Vec) meshkit.Mesh {
	rot, err := meshkit.AlignVectors(meshkit.Vec{X: 0, Y: 0, Z: 1}, axis)
	if err != nil {
		rot = meshkit.Identity()
	}
	t := rot.Concat(meshkit.TranslationTransform(center))
	return meshkit.ApplyAffine(m, t)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PinAndHole computes the dimensioned pin and mating hole-cutter
// parameters from a cap's safe radius: pin radius is 0.6 of the safe
// radius, clamped to [2.0, 20.0] mm; pin height is 3 times the pin
// radius, clamped to [10.0, 30.0] mm; chamfer is 0.2 of the radius. The
// hole cutter shares the pin's height, is 0.2mm larger in radius (a
// 0.4mm diametral clearance), tapers only at its flared base (it must
// slide fully over the pin, so it is not tapered at the tip), while the
// pin itself both flares at its base and tapers at its tip.
func PinAndHole(safeRadius float64) (pin, hole Params) {
	pinRadius := clamp(0.6*safeRadius, 2.0, 20.0)
	pinHeight := clamp(3*pinRadius, 10.0, 30.0)
	pinChamfer := 0.2 * pinRadius

	holeRadius := pinRadius + 0.2
	holeChamfer := 0.2 * holeRadius

	pin = Params{Radius: pinRadius, Height: pinHeight, Chamfer: pinChamfer, TaperTop: true, FlareBottom: true}
	hole = Params{Radius: holeRadius, Height: pinHeight, Chamfer: holeChamfer, TaperTop: false, FlareBottom: true}
	return pin, hole
}
