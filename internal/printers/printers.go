// Package printers holds the static catalog of supported desktop 3D
// printers and their bed dimensions.
package printers

// BedSize is a printer's build volume in millimeters.
type BedSize struct {
	X, Y, Z float64
}

// Printer describes one supported machine.
type Printer struct {
	ID                 string
	Name               string
	BedSize            BedSize
	SupportedMaterials []string
}

// Catalog is the fixed list of printers the frontend can choose from.
var Catalog = []Printer{
	{
		ID:                 "ender3",
		Name:               "Creality Ender 3",
		BedSize:            BedSize{X: 220, Y: 220, Z: 250},
		SupportedMaterials: []string{"pla", "petg", "abs"},
	},
	{
		ID:                 "bambu_x1c",
		Name:               "Bambu Lab X1C",
		BedSize:            BedSize{X: 256, Y: 256, Z: 256},
		SupportedMaterials: []string{"pla", "petg", "abs", "asa", "pa", "pc"},
	},
	{
		ID:                 "prusa_mk4",
		Name:               "Prusa MK4",
		BedSize:            BedSize{X: 250, Y: 210, Z: 220},
		SupportedMaterials: []string{"pla", "petg", "abs", "asa", "pa", "pc"},
	},
	{
		ID:                 "neptune4",
		Name:               "Elegoo Neptune 4",
		BedSize:            BedSize{X: 225, Y: 225, Z: 265},
		SupportedMaterials: []string{"pla", "petg", "abs", "tpu"},
	},
}
