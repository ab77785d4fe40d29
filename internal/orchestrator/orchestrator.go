// Package orchestrator runs the end-to-end split: slice a mesh along a
// plane into two halves, optionally key them with interlocking pins and
// holes, and reorient each half so its cut face sits flat on the print
// bed.
package orchestrator

import (
	"log"

	"github.com/jeeveshs/steelsplit/internal/boolop"
	"github.com/jeeveshs/steelsplit/internal/capsurface"
	"github.com/jeeveshs/steelsplit/internal/keyplan"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/jeeveshs/steelsplit/internal/pingen"
	"github.com/jeeveshs/steelsplit/internal/slicer"
)

// Request describes one split operation.
type Request struct {
	Mesh    meshkit.Mesh
	Origin  meshkit.Vec
	Normal  meshkit.Vec
	AddKeys bool
}

// Result is the outcome of a split: two watertight halves, their
// volumes, and any non-fatal warnings accumulated along the way.
type Result struct {
	HalfA    meshkit.Mesh
	HalfB    meshkit.Mesh
	VolumeA  float64
	VolumeB  float64
	Keyed    bool
	Warnings []string
}

// Split runs the full pipeline described by req. It never returns an
// error: every failure mode in the keying pipeline (no cap, a dropped
// pin, a failed boolean, a failed alignment) is non-fatal and is recorded
// as a warning while the pipeline proceeds with the next best fallback.
func Split(logger *log.Logger, req Request) Result {
	halfA := slicer.Slice(req.Mesh, req.Origin, req.Normal, true)
	halfB := slicer.Slice(req.Mesh, req.Origin, req.Normal.MulScalar(-1), true)

	var warnings []string
	keyed := false

	if req.AddKeys {
		cap, err := capsurface.Extract(halfA, req.Origin, req.Normal)
		if err != nil {
			logger.Printf("no cap found on half A, skipping keying: %v", err)
			warnings = append(warnings, "no cap found on the cut plane; split proceeds without keys")
		} else {
			plan := keyplan.Place(cap.Polygons)
			warnings = append(warnings, plan.Warnings...)

			pinParams, holeParams := pingen.PinAndHole(plan.SafeRadius)

			// Both the pin and its mating hole cutter point the same way:
			// from the cap plane toward -normal, the direction a pin must
			// protrude from half A to reach into half B's former volume.
			axis := req.Normal.MulScalar(-1 / req.Normal.Length())

			var pins, cutters []meshkit.Mesh
			for _, c2d := range plan.Centers {
				world := cap.ToWorld.Apply(meshkit.Vec{X: c2d.X, Y: c2d.Y, Z: 0})
				pins = append(pins, pingen.Place(pingen.Chamfered(pinParams), world, axis))
				cutters = append(cutters, pingen.Place(pingen.Chamfered(holeParams), world, axis))
			}

			unioned, unionWarn := boolop.Union(halfA, pins)
			warnings = append(warnings, unionWarn...)
			halfA = unioned

			cutHalfB, diffWarn := boolop.Difference(halfB, cutters)
			warnings = append(warnings, diffWarn...)
			halfB = cutHalfB

			keyed = true
		}
	}

	halfA = reorientDown(logger, halfA, req.Normal.MulScalar(-1))
	halfB = reorientDown(logger, halfB, req.Normal)

	halfA = dropToFloor(halfA)
	halfB = dropToFloor(halfB)

	return Result{
		HalfA:    halfA,
		HalfB:    halfB,
		VolumeA:  halfA.Volume(),
		VolumeB:  halfB.Volume(),
		Keyed:    keyed,
		Warnings: warnings,
	}
}

// reorientDown rotates m so axis (any non-zero length, pointing away from
// the solid across the cut) aligns with (0, 0, -1), putting the cut face
// down. If alignment fails, m is returned unchanged.
func reorientDown(logger *log.Logger, m meshkit.Mesh, axis meshkit.Vec) meshkit.Mesh {
	rot, err := meshkit.AlignVectors(axis, meshkit.Vec{X: 0, Y: 0, Z: -1})
	if err != nil {
		logger.Printf("alignment failed, leaving half in its current orientation: %v", err)
		return m
	}
	return meshkit.ApplyAffine(m, rot)
}

func dropToFloor(m meshkit.Mesh) meshkit.Mesh {
	min, _ := m.Bounds()
	if min.Z == 0 {
		return m
	}
	return meshkit.Translate(m, meshkit.Vec{X: 0, Y: 0, Z: -min.Z})
}
