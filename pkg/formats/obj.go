package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJ = errors.New("invalid OBJ data")
)

// NoIndex marks an absent texture coordinate or normal reference.
const NoIndex = -1

// maxOBJLine bounds a single OBJ line; exporters sometimes write very long face lines.
const maxOBJLine = 1 << 20

// OBJIndex references the attributes of one face corner.
// All indices are 0-based; TexCoord and Normal may be NoIndex.
type OBJIndex struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJShape is a named group of triangulated faces.
// len(Indices) is always a multiple of 3.
type OBJShape struct {
	Name    string
	Indices []OBJIndex
}

// OBJ represents a parsed Wavefront OBJ file.
type OBJ struct {
	// Positions holds x, y, z triples.
	Positions []float32
	// Normals holds x, y, z triples. May be empty.
	Normals []float32
	// TexCoordCount is the number of vt records seen. Texture data is not kept.
	TexCoordCount int
	Shapes        []OBJShape
}

// VertexCount returns the number of position records.
func (o *OBJ) VertexCount() int {
	return len(o.Positions) / 3
}

// NormalCount returns the number of normal records.
func (o *OBJ) NormalCount() int {
	return len(o.Normals) / 3
}

// FaceVertexCount returns the total number of face corners over all shapes.
func (o *OBJ) FaceVertexCount() int {
	n := 0
	for i := range o.Shapes {
		n += len(o.Shapes[i].Indices)
	}
	return n
}

// ParseOBJ parses Wavefront OBJ text from raw bytes.
// Polygons are fan-triangulated. Each "o" or "g" statement starts a new shape.
// Positive indices beyond the declared data are kept as-is; consumers must
// range-check them.
func ParseOBJ(data []byte) (*OBJ, error) {
	p := objParser{obj: &OBJ{}}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, p.line+1, err)
	}

	p.flush()
	return p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

type objParser struct {
	obj     *OBJ
	current OBJShape
	line    int
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		xyz, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.obj.Positions = append(p.obj.Positions, xyz[:]...)

	case "vn":
		xyz, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.obj.Normals = append(p.obj.Normals, xyz[:]...)

	case "vt":
		if len(fields) < 2 {
			return errors.New("texcoord: missing components")
		}
		p.obj.TexCoordCount++

	case "f":
		return p.parseFace(fields[1:])

	case "o", "g":
		p.flush()
		p.current.Name = strings.Join(fields[1:], " ")

	default:
		// mtllib, usemtl, s, l, p and vendor extensions carry nothing we render.
	}
	return nil
}

func (p *objParser) parseFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(corners))
	}

	refs := make([]OBJIndex, len(corners))
	for i, c := range corners {
		ref, err := p.parseCorner(c)
		if err != nil {
			return fmt.Errorf("face vertex %q: %w", c, err)
		}
		refs[i] = ref
	}

	// Fan triangulation around the first corner.
	for i := 1; i+1 < len(refs); i++ {
		p.current.Indices = append(p.current.Indices, refs[0], refs[i], refs[i+1])
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (p *objParser) parseCorner(s string) (OBJIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return OBJIndex{}, errors.New("too many components")
	}

	ref := OBJIndex{TexCoord: NoIndex, Normal: NoIndex}

	var err error
	ref.Position, err = resolveIndex(parts[0], p.obj.VertexCount())
	if err != nil {
		return OBJIndex{}, fmt.Errorf("position: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.TexCoord, err = resolveIndex(parts[1], p.obj.TexCoordCount); err != nil {
			return OBJIndex{}, fmt.Errorf("texcoord: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.Normal, err = resolveIndex(parts[2], p.obj.NormalCount()); err != nil {
			return OBJIndex{}, fmt.Errorf("normal: %w", err)
		}
	}
	return ref, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index to 0-based.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return 0, errors.New("empty index")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if count+n < 0 {
			return 0, fmt.Errorf("relative index %d with only %d records", n, count)
		}
		return count + n, nil
	default:
		return 0, errors.New("index 0 is not valid")
	}
}

// flush closes the current shape if it produced any faces.
func (p *objParser) flush() {
	if len(p.current.Indices) > 0 {
		p.obj.Shapes = append(p.obj.Shapes, p.current)
	}
	p.current = OBJShape{}
}

func parseFloats(fields []string, n int) ([3]float32, error) {
	var out [3]float32
	if len(fields) < n {
		return out, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
