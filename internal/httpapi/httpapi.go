// Package httpapi exposes the split pipeline over HTTP: upload a mesh,
// ask for a suggested cut plane, perform the split, and list supported
// printers. It mirrors the four-route shape of the Python prototype this
// tool replaces (upload / suggest_split / perform_split / printers) on
// top of github.com/labstack/echo/v4.
package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jeeveshs/steelsplit/internal/meshio"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/jeeveshs/steelsplit/internal/orchestrator"
	"github.com/jeeveshs/steelsplit/internal/planehint"
	"github.com/jeeveshs/steelsplit/internal/printers"
	"github.com/jeeveshs/steelsplit/internal/registry"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server holds the dependencies every route needs: where uploaded and
// generated STL files live on disk, and the in-memory id-to-path map
// shared between them.
type Server struct {
	Store     registry.Store
	UploadDir string
	OutputDir string
	Logger    *log.Logger
}

// NewServer wires an echo instance with CORS wide open (matching the
// prototype's dev-mode allow_origins=["*"]) and the four routes below.
func NewServer(s *Server) *echo.Echo {
	if s.Logger == nil {
		s.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Static("/outputs", s.OutputDir)

	e.POST("/upload", s.handleUpload)
	e.POST("/suggest_split", s.handleSuggestSplit)
	e.POST("/perform_split", s.handlePerformSplit)
	e.GET("/printers", s.handlePrinters)
	return e
}

type uploadResponse struct {
	Success bool   `json:"success"`
	FileID  string `json:"fileId"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field: "+err.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	name := filepath.Base(fh.Filename)
	id := uuid.NewString()
	storedName := fmt.Sprintf("%s_%s", id, name)
	path := filepath.Join(s.UploadDir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer dst.Close()
	if _, err := dst.ReadFrom(src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fileID := s.Store.Put(path)
	return c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		FileID:  fileID,
		URL:     "/uploads/" + storedName,
		Message: "File uploaded successfully",
	})
}

type suggestRequest struct {
	FileID string `json:"fileId"`
	Axis   string `json:"axis"`
}

type meshPayload struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

type suggestResponse struct {
	Position          [3]float64   `json:"position"`
	Normal            [3]float64   `json:"normal"`
	Axis              string       `json:"axis"`
	VisualizationMesh *meshPayload `json:"visualizationMesh"`
}

func (s *Server) handleSuggestSplit(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	path, ok := s.Store.Get(req.FileID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	mesh, err := loadMeshFile(path)
	if err != nil {
		s.Logger.Printf("suggest_split: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hint := axisFromString(req.Axis)
	sug := planehint.Suggest(mesh, hint)

	var viz *meshPayload
	if !sug.Visualization.Empty() {
		viz = toMeshPayload(sug.Visualization)
	}

	return c.JSON(http.StatusOK, suggestResponse{
		Position:          vecArray(sug.Origin),
		Normal:            vecArray(sug.Normal),
		Axis:              "auto",
		VisualizationMesh: viz,
	})
}

type performRequest struct {
	FileID  string     `json:"fileId"`
	Origin  [3]float64 `json:"origin"`
	Normal  [3]float64 `json:"normal"`
	AddKeys bool       `json:"addKeys"`
}

type partResult struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Volume float64 `json:"volume"`
}

type performResponse struct {
	PartA partResult `json:"partA"`
	PartB partResult `json:"partB"`
}

func (s *Server) handlePerformSplit(c echo.Context) error {
	var req performRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	path, ok := s.Store.Get(req.FileID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	mesh, err := loadMeshFile(path)
	if err != nil {
		s.Logger.Printf("perform_split: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	res := orchestrator.Split(s.Logger, orchestrator.Request{
		Mesh:    mesh,
		Origin:  arrayVec(req.Origin),
		Normal:  arrayVec(req.Normal),
		AddKeys: req.AddKeys,
	})
	for _, w := range res.Warnings {
		s.Logger.Printf("perform_split: %s", w)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = trimUploadPrefix(base)

	partA, err := writePart(s, base, "part_a", res.HalfA)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	partB, err := writePart(s, base, "part_b", res.HalfB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	partA.Volume = res.VolumeA
	partB.Volume = res.VolumeB

	return c.JSON(http.StatusOK, performResponse{PartA: partA, PartB: partB})
}

func writePart(s *Server, base, label string, mesh meshkit.Mesh) (partResult, error) {
	id := uuid.NewString()
	name := fmt.Sprintf("%s_%s_%s.stl", base, label, id)
	path := filepath.Join(s.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return partResult{}, err
	}
	defer f.Close()
	if err := meshio.Export(f, mesh, true); err != nil {
		return partResult{}, err
	}

	s.Store.Put(path)
	return partResult{ID: id, URL: "/outputs/" + name}, nil
}

type printerResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	BedSize            bedSizeResponse `json:"bedSize"`
	SupportedMaterials []string        `json:"supportedMaterials"`
}

type bedSizeResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (s *Server) handlePrinters(c echo.Context) error {
	out := make([]printerResponse, len(printers.Catalog))
	for i, p := range printers.Catalog {
		out[i] = printerResponse{
			ID:                 p.ID,
			Name:               p.Name,
			BedSize:            bedSizeResponse{X: p.BedSize.X, Y: p.BedSize.Y, Z: p.BedSize.Z},
			SupportedMaterials: p.SupportedMaterials,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// trimUploadPrefix strips the "{uuid}_" prefix handleUpload prepends to
// stored filenames, so exported part names read like the source file
// rather than like "3fa1...-part_a_....stl".
func trimUploadPrefix(base string) string {
	const uuidLen = 36
	if len(base) > uuidLen+1 && base[uuidLen] == '_' {
		if _, err := uuid.Parse(base[:uuidLen]); err == nil {
			return base[uuidLen+1:]
		}
	}
	return base
}

func loadMeshFile(path string) (meshkit.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return meshkit.Mesh{}, err
	}
	defer f.Close()
	return meshio.Load(f)
}

func axisFromString(s string) planehint.Axis {
	switch strings.ToLower(s) {
	case "x":
		return planehint.AxisX
	case "y":
		return planehint.AxisY
	case "z":
		return planehint.AxisZ
	default:
		return planehint.Auto
	}
}

func vecArray(v meshkit.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func arrayVec(a [3]float64) meshkit.Vec {
	return meshkit.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func toMeshPayload(m meshkit.Mesh) *meshPayload {
	p := &meshPayload{
		Vertices: make([][3]float64, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		p.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, f := range m.Faces {
		p.Faces[i] = [3]int{f[0], f[1], f[2]}
	}
	return p
}
