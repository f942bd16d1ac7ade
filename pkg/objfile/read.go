// Package objfile reads and writes the Wavefront OBJ subset the pipeline
// works with: positions, texture coordinates, normals, and triangulated
// faces. Groups, materials, and free-form geometry are ignored.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// corner is one face corner's v/vt/vn triple (0-based, -1 when absent).
type corner struct {
	v, vt, vn int
}

// Read parses OBJ data into a TRIANGLES mesh. Faces with more than three
// corners are triangulated as fans. Each distinct v/vt/vn combination
// becomes one output vertex, so positions shared across seams are duplicated
// exactly where the texture or normal data forces it.
func Read(r io.Reader) (*geom.Mesh, error) {
	var positions []float64
	var texCoords []float64
	var normals []float64

	vertexFor := make(map[corner]uint32)
	var outPositions, outTexCoords, outNormals []float64
	var indices []uint32
	hasTexCoords, hasNormals := false, false

	resolve := func(c corner) (uint32, error) {
		if idx, ok := vertexFor[c]; ok {
			return idx, nil
		}
		if c.v < 0 || c.v*3+2 >= len(positions) {
			return 0, fmt.Errorf("face references vertex %d, have %d", c.v+1, len(positions)/3)
		}
		idx := uint32(len(outPositions) / 3)
		outPositions = append(outPositions, positions[c.v*3:c.v*3+3]...)
		if c.vt >= 0 {
			if c.vt*2+1 >= len(texCoords) {
				return 0, fmt.Errorf("face references texcoord %d, have %d", c.vt+1, len(texCoords)/2)
			}
			outTexCoords = append(outTexCoords, texCoords[c.vt*2:c.vt*2+2]...)
			hasTexCoords = true
		} else {
			outTexCoords = append(outTexCoords, 0, 0)
		}
		if c.vn >= 0 {
			if c.vn*3+2 >= len(normals) {
				return 0, fmt.Errorf("face references normal %d, have %d", c.vn+1, len(normals)/3)
			}
			outNormals = append(outNormals, normals[c.vn*3:c.vn*3+3]...)
			hasNormals = true
		} else {
			outNormals = append(outNormals, 0, 0, 0)
		}
		vertexFor[c] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			vals, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, vals...)
		case "vt":
			vals, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			texCoords = append(texCoords, vals...)
		case "vn":
			vals, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, vals...)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face has %d corners, want >= 3", lineNo, len(fields)-1)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				c, err := parseCorner(spec, len(positions)/3, len(texCoords)/2, len(normals)/3)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, err := resolve(c)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, idx)
			}
			// Fan triangulation around the first corner.
			for i := 1; i+1 < len(corners); i++ {
				indices = append(indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	if len(outPositions) == 0 {
		return nil, fmt.Errorf("no faces in OBJ data")
	}

	m := geom.NewMesh(geom.Triangles)
	m.Attributes.Set(geom.AttrPosition, &geom.Attribute{
		Type:       geom.Float64,
		Components: 3,
		Values:     outPositions,
	})
	if hasTexCoords {
		m.Attributes.Set(geom.AttrST, &geom.Attribute{
			Type:       geom.Float32,
			Components: 2,
			Values:     outTexCoords,
		})
	}
	if hasNormals {
		m.Attributes.Set(geom.AttrNormal, &geom.Attribute{
			Type:       geom.Float32,
			Components: 3,
			Values:     outNormals,
		})
	}
	m.Indices = indices
	m.Bounds = geom.BoundingSphereFromPoints(outPositions)
	return m, nil
}

// ReadFile reads an OBJ mesh from disk.
func ReadFile(path string) (*geom.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

func parseFloats(fields []string, want int) ([]float64, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("have %d values, want %d", len(fields), want)
	}
	vals := make([]float64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// parseCorner parses a face corner spec (v, v/vt, v//vn, or v/vt/vn).
// OBJ indices are 1-based; negative values count back from the current end
// of the respective list.
func parseCorner(spec string, numV, numVT, numVN int) (corner, error) {
	parts := strings.Split(spec, "/")
	c := corner{v: -1, vt: -1, vn: -1}

	resolve := func(s string, count int) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return -1, err
		}
		if n < 0 {
			n = count + n + 1
		}
		if n < 1 {
			return -1, fmt.Errorf("index %s out of range", s)
		}
		return n - 1, nil
	}

	var err error
	if c.v, err = resolve(parts[0], numV); err != nil {
		return c, fmt.Errorf("corner %q: %w", spec, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolve(parts[1], numVT); err != nil {
			return c, fmt.Errorf("corner %q: %w", spec, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolve(parts[2], numVN); err != nil {
			return c, fmt.Errorf("corner %q: %w", spec, err)
		}
	}
	return c, nil
}
