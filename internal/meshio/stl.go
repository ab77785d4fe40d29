// Package meshio loads and exports triangle meshes in the STL format:
// Load returns a watertight meshkit.Mesh (repairing holes best-effort),
// Export serializes one back to binary or ASCII STL.
//
// The binary/ASCII parsing generalizes github.com/krasin/stl's approach
// (a flat triangle slice, a v3 point type, matching
// Read/WriteBinary/WriteASCII functions) to the richer meshkit.Mesh
// (indexed vertices, merged within an epsilon) the rest of the pipeline
// needs.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/pkg/errors"
)

// ErrInvalidMesh reports that the mesh could not be loaded or its
// vertex/face arrays are malformed. Fatal for the request.
var ErrInvalidMesh = errors.New("meshio: invalid mesh")

const mergeEps = 1e-6

// Load reads an STL file (binary or ASCII, auto-detected) and returns a
// watertight mesh. If the input is not watertight, Load attempts a
// best-effort hole-fill pass and returns the (possibly still imperfect)
// result rather than failing outright.
func Load(r io.Reader) (meshkit.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, err.Error())
	}
	if len(data) == 0 {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "empty input")
	}

	var mesh meshkit.Mesh
	if looksASCII(data) {
		mesh, err = parseASCII(data)
	} else {
		mesh, err = parseBinary(data)
	}
	if err != nil {
		return meshkit.Mesh{}, err
	}

	if !IsWatertight(mesh) {
		mesh = FillHoles(mesh)
	}
	return mesh, nil
}

func looksASCII(data []byte) bool {
	trimmed := strings.TrimSpace(string(data[:minInt(len(data), 512)]))
	return strings.HasPrefix(trimmed, "solid") && !strings.Contains(trimmed, "\x00")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// parseBinary parses the 80-byte-header + uint32-count + 50-bytes-per-
// triangle binary STL layout, merging coincident vertices into a compact
// index within mergeEps.
func parseBinary(data []byte) (meshkit.Mesh, error) {
	const headerLen = 84
	if len(data) < headerLen {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "truncated binary STL header")
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	want := headerLen + int(count)*50
	if len(data) < want {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "truncated binary STL body")
	}

	b := newVertexBuilder()
	off := headerLen
	for i := uint32(0); i < count; i++ {
		// skip the 12-byte normal; it is not trusted (recomputed on export).
		var tri [3]meshkit.Vec
		p := off + 12
		for k := 0; k < 3; k++ {
			x := math.Float32frombits(binary.LittleEndian.Uint32(data[p : p+4]))
			y := math.Float32frombits(binary.LittleEndian.Uint32(data[p+4 : p+8]))
			z := math.Float32frombits(binary.LittleEndian.Uint32(data[p+8 : p+12]))
			tri[k] = meshkit.Vec{X: float64(x), Y: float64(y), Z: float64(z)}
			p += 12
		}
		b.addTriangle(tri)
		off += 50
	}
	return b.mesh(), nil
}

// parseASCII parses one or more concatenated "solid ... endsolid" blocks
// (a multi-object scene), merging them into a single mesh the way the
// original's trimesh.util.concatenate(scene.geometry.values()) did.
func parseASCII(data []byte) (meshkit.Mesh, error) {
	b := newVertexBuilder()
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var cur [3]meshkit.Vec
	vtxN := 0
	sawFacet := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "facet"):
			sawFacet = true
			vtxN = 0
		case strings.HasPrefix(line, "vertex"):
			var x, y, z float64
			if _, err := fmt.Sscanf(line, "vertex %g %g %g", &x, &y, &z); err != nil {
				return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "malformed vertex line: "+line)
			}
			if vtxN < 3 {
				cur[vtxN] = meshkit.Vec{X: x, Y: y, Z: z}
			}
			vtxN++
		case strings.HasPrefix(line, "endfacet"):
			if vtxN != 3 {
				return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "facet without exactly 3 vertices")
			}
			b.addTriangle(cur)
		}
	}
	if err := sc.Err(); err != nil {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, err.Error())
	}
	if !sawFacet {
		return meshkit.Mesh{}, errors.Wrap(ErrInvalidMesh, "no facets found in ASCII STL")
	}
	return b.mesh(), nil
}

// vertexBuilder merges coincident vertices (within mergeEps) while
// appending triangles, the same dedup behavior trimesh's merge_vertices
// applies before downstream analysis.
type vertexBuilder struct {
	index map[vkey]int
	verts []meshkit.Vec
	faces []meshkit.Face
}

type vkey struct{ x, y, z int64 }

func newVertexBuilder() *vertexBuilder {
	return &vertexBuilder{index: make(map[vkey]int)}
}

func (b *vertexBuilder) addTriangle(tri [3]meshkit.Vec) {
	var f meshkit.Face
	for i, v := range tri {
		f[i] = b.remap(v)
	}
	b.faces = append(b.faces, f)
}

func (b *vertexBuilder) remap(v meshkit.Vec) int {
	scale := 1.0 / mergeEps
	k := vkey{int64(math.Round(v.X * scale)), int64(math.Round(v.Y * scale)), int64(math.Round(v.Z * scale))}
	if i, ok := b.index[k]; ok {
		return i
	}
	i := len(b.verts)
	b.verts = append(b.verts, v)
	b.index[k] = i
	return i
}

func (b *vertexBuilder) mesh() meshkit.Mesh {
	return meshkit.Mesh{Vertices: b.verts, Faces: b.faces}
}

// Export writes the mesh as STL. binary selects binary vs ASCII output,
// matching the two writers krasin-steel exposes (WriteBinary/WriteASCII).
func Export(w io.Writer, m meshkit.Mesh, binaryFormat bool) error {
	if binaryFormat {
		return exportBinary(w, m)
	}
	return exportASCII(w, m)
}

func exportBinary(w io.Writer, m meshkit.Mesh) error {
	var header [80]byte
	copy(header[:], "steelsplit binary STL export")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(m.Faces)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return err
	}
	var buf [50]byte
	for _, f := range m.Faces {
		a, b2, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := faceNormal(a, b2, c)
		putVec(buf[0:12], n)
		putVec(buf[12:24], a)
		putVec(buf[24:36], b2)
		putVec(buf[36:48], c)
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func putVec(dst []byte, v meshkit.Vec) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(float32(v.Z)))
}

func exportASCII(w io.Writer, m meshkit.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "solid steelsplit")
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := faceNormal(a, b, c)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		fmt.Fprintf(bw, "      vertex %g %g %g\n", a.X, a.Y, a.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", b.X, b.Y, b.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", c.X, c.Y, c.Z)
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintln(bw, "endsolid steelsplit")
	return bw.Flush()
}

func faceNormal(a, b, c meshkit.Vec) meshkit.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l < 1e-12 {
		return meshkit.Vec{}
	}
	return n.MulScalar(1 / l)
}
