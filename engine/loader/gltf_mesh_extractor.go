package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts the primitives of a parsed glTF document into position-only
// meshes. Indexed primitives are expanded and strips, loops and fans are rewritten into the
// list topologies DrawArrays supports.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index, one model.Mesh per primitive.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []model.Mesh: one mesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]model.Mesh, error)

	// ExtractAllMeshes extracts every mesh in the document, flattened to one entry per primitive.
	//
	// Returns:
	//   - []model.Mesh: all meshes
	//   - error: error if extraction fails
	ExtractAllMeshes() ([]model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]model.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}

	result := make([]model.Mesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		primName := name
		if len(mesh.Primitives) > 1 {
			primName = fmt.Sprintf("%s#%d", name, primIdx)
		}
		m, err := e.extractPrimitive(&mesh.Primitives[primIdx], primName)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, m)
	}

	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]model.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	var all []model.Mesh
	for i := range doc.Meshes {
		meshes, err := e.ExtractMesh(i)
		if err != nil {
			return nil, err
		}
		all = append(all, meshes...)
	}

	return all, nil
}

// extractPrimitive expands a single primitive into a flat position list.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string) (model.Mesh, error) {
	posIdx, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return nil, fmt.Errorf("primitive has no %s attribute", gltfAttributePosition)
	}
	positions, err := e.parser.ReadVec3Accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var order []uint32
	if prim.Indices != nil {
		order, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range order {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
			}
		}
	} else {
		order = make([]uint32, len(positions))
		for i := range order {
			order[i] = uint32(i)
		}
	}

	mode := gltfPrimitiveModeTriangles
	if prim.Mode != nil {
		mode = *prim.Mode
	}
	primitive, order, err := topology(mode, order)
	if err != nil {
		return nil, err
	}

	flat := make([]float32, 0, len(order)*model.PositionSize)
	for _, idx := range order {
		p := positions[idx]
		flat = append(flat, p[0], p[1], p[2])
	}

	m, err := model.NewMesh(name, flat, model.WithPrimitive(primitive))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// topology maps a glTF primitive mode to the list primitive it is drawn with and rewrites the
// vertex order to match. Trailing vertices that do not complete a primitive are dropped.
func topology(mode int, order []uint32) (gl.Primitive, []uint32, error) {
	n := len(order)
	switch mode {
	case gltfPrimitiveModePoints:
		return gl.Points, order, nil
	case gltfPrimitiveModeLines:
		return gl.Lines, order[:n-n%2], nil
	case gltfPrimitiveModeLineStrip, gltfPrimitiveModeLineLoop:
		if n < 2 {
			return gl.Lines, nil, nil
		}
		out := make([]uint32, 0, 2*n)
		for i := 0; i+1 < n; i++ {
			out = append(out, order[i], order[i+1])
		}
		if mode == gltfPrimitiveModeLineLoop {
			out = append(out, order[n-1], order[0])
		}
		return gl.Lines, out, nil
	case gltfPrimitiveModeTriangles:
		return gl.Triangles, order[:n-n%3], nil
	case gltfPrimitiveModeTriangleStrip:
		out := make([]uint32, 0, 3*max(n-2, 0))
		for i := 0; i+2 < n; i++ {
			// Odd triangles swap their first two vertices to keep a consistent winding.
			if i%2 == 0 {
				out = append(out, order[i], order[i+1], order[i+2])
			} else {
				out = append(out, order[i+1], order[i], order[i+2])
			}
		}
		return gl.Triangles, out, nil
	case gltfPrimitiveModeTriangleFan:
		out := make([]uint32, 0, 3*max(n-2, 0))
		for i := 1; i+1 < n; i++ {
			out = append(out, order[0], order[i], order[i+1])
		}
		return gl.Triangles, out, nil
	default:
		return 0, nil, fmt.Errorf("unsupported primitive mode: %d", mode)
	}
}
