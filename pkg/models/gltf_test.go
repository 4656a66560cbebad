package models

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// writeQuad saves a two-triangle square in the xy plane, facing +z.
func writeQuad(t *testing.T, withNormals bool) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {4, 0, 0}, {4, 2, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	attrs := gltf.PrimitiveAttributes{gltf.POSITION: pos}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	doc.Meshes = []*gltf.Mesh{{
		Name:       "quad",
		Primitives: []*gltf.Primitive{{Indices: gltf.Index(idx), Attributes: attrs}},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals || !loader.SmoothNormals || !loader.Normalize {
		t.Errorf("unexpected defaults: %+v", loader)
	}
}

func TestLoadQuad(t *testing.T) {
	for _, withNormals := range []bool{true, false} {
		mesh, err := LoadGLB(writeQuad(t, withNormals))
		if err != nil {
			t.Fatal(err)
		}
		if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
			t.Fatalf("got %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
		}
		if mesh.Faces[0].V != [3]int{0, 1, 2} {
			t.Errorf("winding changed: %v", mesh.Faces[0].V)
		}
		for i, v := range mesh.Vertices {
			if math.Abs(v.Normal.Z-1) > 1e-9 {
				t.Errorf("normals=%v vertex %d normal %v, want +z", withNormals, i, v.Normal)
			}
		}
		// normalized: 4 wide becomes 2 wide, centered
		if math.Abs(mesh.BoundsMin.X+1) > 1e-9 || math.Abs(mesh.BoundsMax.X-1) > 1e-9 {
			t.Errorf("bounds x = %v..%v, want -1..1", mesh.BoundsMin.X, mesh.BoundsMax.X)
		}
		if math.Abs(mesh.BoundsMax.Y-0.5) > 1e-9 {
			t.Errorf("bounds max y = %v, want 0.5", mesh.BoundsMax.Y)
		}
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(gltf.NewDocument(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGLB(path); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}
