// Command splitcli is a command-line processor for STL files, built
// around the same split pipeline the HTTP API exposes: inspect a mesh,
// suggest a cut plane, cut the mesh into two keyed or unkeyed halves, list
// supported printers, or serve the HTTP API.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jeeveshs/steelsplit/internal/httpapi"
	"github.com/jeeveshs/steelsplit/internal/meshio"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/jeeveshs/steelsplit/internal/orchestrator"
	"github.com/jeeveshs/steelsplit/internal/planehint"
	"github.com/jeeveshs/steelsplit/internal/printers"
	"github.com/jeeveshs/steelsplit/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outPath    string
	axisHint   string
	coordX     float64
	coordY     float64
	coordZ     float64
	normalX    float64
	normalY    float64
	normalZ    float64
	addKeys    bool
	verbose    bool
	listenAddr string
	uploadDir  string
	outputDir  string
)

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func openIn(files []string) (string, io.ReadCloser, error) {
	if len(files) == 0 {
		return "", os.Stdin, nil
	}
	if len(files) > 1 {
		return "", nil, fmt.Errorf("multiple input files are not supported yet")
	}
	f, err := os.Open(files[0])
	return files[0], f, err
}

func openOut(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

func info(cmd *cobra.Command, args []string) {
	name, r, err := openIn(args)
	if err != nil {
		fail(err)
	}
	defer r.Close()
	mesh, err := meshio.Load(r)
	if err != nil {
		fail(fmt.Sprintf("Failed to read STL file %q: %v", name, err))
	}
	min, max := mesh.Bounds()
	fmt.Printf("File: %s\n", name)
	fmt.Printf("Vertices: %d\n", len(mesh.Vertices))
	fmt.Printf("Triangles: %d\n", len(mesh.Faces))
	fmt.Printf("Bounding box: %v - %v\n", min, max)
	fmt.Printf("Volume: %.3f\n", mesh.Volume())
}

func suggest(cmd *cobra.Command, args []string) {
	name, r, err := openIn(args)
	if err != nil {
		fail(err)
	}
	defer r.Close()
	mesh, err := meshio.Load(r)
	if err != nil {
		fail(fmt.Sprintf("Failed to read STL file %q: %v", name, err))
	}

	sug := planehint.Suggest(mesh, axisFromFlag(axisHint))
	fmt.Printf("origin: %v\n", sug.Origin)
	fmt.Printf("normal: %v\n", sug.Normal)

	if outPath != "" {
		w, err := openOut(outPath)
		if err != nil {
			fail(err)
		}
		defer w.Close()
		if err := meshio.Export(w, sug.Visualization, true); err != nil {
			fail("Failed to write visualization STL:", err)
		}
	}
}

func axisFromFlag(hint string) planehint.Axis {
	switch hint {
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

func split(cmd *cobra.Command, args []string) {
	name, r, err := openIn(args)
	if err != nil {
		fail(err)
	}
	defer r.Close()

	if outPath == "" {
		fail(fmt.Errorf("--output is not specified"))
	}

	mesh, err := meshio.Load(r)
	if err != nil {
		fail(fmt.Sprintf("Failed to read STL file %q: %v", name, err))
	}

	origin := meshkit.Vec{X: coordX, Y: coordY, Z: coordZ}
	normal := meshkit.Vec{X: normalX, Y: normalY, Z: normalZ}
	if normal.Length() == 0 {
		sug := planehint.Suggest(mesh, planehint.Auto)
		origin, normal = sug.Origin, sug.Normal
		if verbose {
			fmt.Fprintf(os.Stderr, "no normal given, using suggested plane: origin=%v normal=%v\n", origin, normal)
		}
	}

	logger := log.New(os.Stderr, "", 0)
	res := orchestrator.Split(logger, orchestrator.Request{
		Mesh:    mesh,
		Origin:  origin,
		Normal:  normal,
		AddKeys: addKeys,
	})
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	outExt := filepath.Ext(outPath)
	outBase := outPath[:len(outPath)-len(outExt)]

	if err := writeHalf(outBase+"_a"+outExt, res.HalfA); err != nil {
		fail("Failed to write part A:", err)
	}
	if err := writeHalf(outBase+"_b"+outExt, res.HalfB); err != nil {
		fail("Failed to write part B:", err)
	}
	fmt.Printf("part A volume: %.3f\n", res.VolumeA)
	fmt.Printf("part B volume: %.3f\n", res.VolumeB)
}

func writeHalf(path string, mesh meshkit.Mesh) error {
	w, err := openOut(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return meshio.Export(w, mesh, true)
}

func printPrinters(cmd *cobra.Command, args []string) {
	for _, p := range printers.Catalog {
		fmt.Printf("%-12s %-20s bed %gx%gx%g  materials: %v\n",
			p.ID, p.Name, p.BedSize.X, p.BedSize.Y, p.BedSize.Z, p.SupportedMaterials)
	}
}

func serve(cmd *cobra.Command, args []string) {
	// viper resolves each setting from, in priority order, the flag, then
	// a SPLITCLI_* environment variable, then the flag's default; this is
	// what lets an operator override --upload-dir with SPLITCLI_UPLOAD_DIR
	// without touching the invocation.
	addr := viper.GetString("listen_addr")
	uploads := viper.GetString("upload_dir")
	outputs := viper.GetString("output_dir")

	if err := os.MkdirAll(uploads, 0755); err != nil {
		fail("Failed to create upload dir:", err)
	}
	if err := os.MkdirAll(outputs, 0755); err != nil {
		fail("Failed to create output dir:", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	e := httpapi.NewServer(&httpapi.Server{
		Store:     registry.NewMemoryStore(),
		UploadDir: uploads,
		OutputDir: outputs,
		Logger:    logger,
	})
	logger.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		fail("server stopped:", err)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitcli",
		Short: "A tool to split STL meshes for 3D printing",
		Long:  "Command-line processor for STL files: inspect, suggest cut planes, split and key, list printers, or serve the HTTP API.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("splitcli -- split STL meshes along a plane, optionally keyed with alignment pins.")
			cmd.Usage()
		},
	}

	viper.SetEnvPrefix("splitcli")
	viper.AutomaticEnv()

	infoCmd := &cobra.Command{
		Use:   "info [STL file]",
		Short: "STL file info",
		Long: `info displays STL metrics, such as the number of triangles, bounding box, volume, etc.
If no STL file is specified, it will read from stdin`,
		Run: info,
	}
	rootCmd.AddCommand(infoCmd)

	suggestCmd := &cobra.Command{
		Use:   "suggest [STL file]",
		Short: "Suggest a cut plane",
		Long: `suggest picks a default cut plane for the mesh (its longest axis, or
the axis given by --axis) and prints its origin and normal.
If no STL file is specified, it will read from stdin.`,
		Run: suggest,
	}
	suggestCmd.Flags().StringVarP(&axisHint, "axis", "a", "", "Preferred split axis: x, y, or z. Default: longest extent.")
	suggestCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the decorative cut-face visualization as an STL file.")
	rootCmd.AddCommand(suggestCmd)

	splitCmd := &cobra.Command{
		Use:   "split [STL file]",
		Short: "Split mesh by a plane into two halves",
		Long: `split cuts the mesh by the plane (--x/--y/--z origin, --nx/--ny/--nz normal)
into two watertight halves, reorients each to sit flat, and writes them
beside --output with "_a" and "_b" inserted before its extension
(out.stl -> out_a.stl, out_b.stl). If no normal is given, a plane is
suggested automatically. With --keys, interlocking alignment pins and
holes are added to the cut faces.
If no STL file is specified, it will read from stdin.`,
		Run: split,
	}
	splitCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output STL base path.")
	splitCmd.Flags().Float64Var(&coordX, "x", 0, "Plane origin X.")
	splitCmd.Flags().Float64Var(&coordY, "y", 0, "Plane origin Y.")
	splitCmd.Flags().Float64Var(&coordZ, "z", 0, "Plane origin Z.")
	splitCmd.Flags().Float64Var(&normalX, "nx", 0, "Plane normal X.")
	splitCmd.Flags().Float64Var(&normalY, "ny", 0, "Plane normal Y.")
	splitCmd.Flags().Float64Var(&normalZ, "nz", 0, "Plane normal Z.")
	splitCmd.Flags().BoolVar(&addKeys, "keys", false, "Add interlocking alignment pins and holes to the cut faces.")
	splitCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the suggested plane when no normal is given.")
	rootCmd.AddCommand(splitCmd)

	printersCmd := &cobra.Command{
		Use:   "printers",
		Short: "List supported printers",
		Run:   printPrinters,
	}
	rootCmd.AddCommand(printersCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Run:   serve,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen-addr", ":8000", "Address to listen on.")
	serveCmd.Flags().StringVar(&uploadDir, "upload-dir", "./uploads", "Directory for uploaded STL files.")
	serveCmd.Flags().StringVar(&outputDir, "output-dir", "./outputs", "Directory for generated STL files.")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen-addr"))
	viper.BindPFlag("upload_dir", serveCmd.Flags().Lookup("upload-dir"))
	viper.BindPFlag("output_dir", serveCmd.Flags().Lookup("output-dir"))
	rootCmd.AddCommand(serveCmd)

	rootCmd.Execute()
}
