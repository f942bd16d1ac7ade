package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// Write emits a TRIANGLES or LINES mesh as OBJ. Texture coordinates and
// normals are written when the mesh carries them; since objfile meshes keep
// one vt/vn per vertex, face corners reuse the position index for all three
// slots.
func Write(w io.Writer, m *geom.Mesh) error {
	if m.Primitive != geom.Triangles && m.Primitive != geom.Lines {
		return fmt.Errorf("cannot write %s mesh as OBJ", m.Primitive)
	}
	positions := m.Attributes.Get(geom.AttrPosition)
	if positions == nil || positions.Components != 3 {
		return fmt.Errorf("mesh has no 3-component position attribute")
	}

	bw := bufio.NewWriter(w)

	for i := 0; i+2 < len(positions.Values); i += 3 {
		fmt.Fprintf(bw, "v %g %g %g\n",
			positions.Values[i], positions.Values[i+1], positions.Values[i+2])
	}

	st := m.Attributes.Get(geom.AttrST)
	if st != nil && st.Components == 2 {
		for i := 0; i+1 < len(st.Values); i += 2 {
			fmt.Fprintf(bw, "vt %g %g\n", st.Values[i], st.Values[i+1])
		}
	}

	normals := m.Attributes.Get(geom.AttrNormal)
	if normals != nil && normals.Components == 3 {
		for i := 0; i+2 < len(normals.Values); i += 3 {
			fmt.Fprintf(bw, "vn %g %g %g\n",
				normals.Values[i], normals.Values[i+1], normals.Values[i+2])
		}
	}

	writeCorner := func(idx uint32) string {
		n := idx + 1
		switch {
		case st != nil && normals != nil:
			return fmt.Sprintf("%d/%d/%d", n, n, n)
		case st != nil:
			return fmt.Sprintf("%d/%d", n, n)
		case normals != nil:
			return fmt.Sprintf("%d//%d", n, n)
		}
		return fmt.Sprintf("%d", n)
	}

	if m.Primitive == geom.Lines {
		for i := 0; i+1 < len(m.Indices); i += 2 {
			fmt.Fprintf(bw, "l %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1)
		}
	} else {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			fmt.Fprintf(bw, "f %s %s %s\n",
				writeCorner(m.Indices[i]),
				writeCorner(m.Indices[i+1]),
				writeCorner(m.Indices[i+2]))
		}
	}

	return bw.Flush()
}

// WriteFile writes an OBJ mesh to disk.
func WriteFile(path string, m *geom.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ %s: %w", path, err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
