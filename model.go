package gltfscene

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec4"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// Model is the draw-ready geometry of one mesh primitive. Vertices are in
// world space. Models loaded together share the *Material of the source
// material they reference.
type Model struct {
	Vertices []Vertex
	// Indices is nil when the primitive is not indexed.
	Indices  []uint32
	Mode     Mode
	Material *Material

	HasNormals   bool
	HasTangents  bool
	HasTexCoords bool
	HasColors    bool

	MeshName       string
	MeshIndex      int
	PrimitiveIndex int
	NodeIndex      int
	// Instance is the EXT_mesh_gpu_instancing instance the model was
	// expanded from, or -1.
	Instance int
}

// indexList returns Indices, or 0..len(Vertices) for non-indexed models.
func (m *Model) indexList() []uint32 {
	if m.Indices != nil {
		return m.Indices
	}
	idx := make([]uint32, len(m.Vertices))
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// Triangles expands the model into triangles. Only defined for Triangles,
// TriangleStrip and TriangleFan; a trailing partial triangle is dropped.
func (m *Model) Triangles() ([]Triangle, error) {
	faces, err := m.TriangleIndices()
	if err != nil {
		return nil, err
	}
	vs := m.Vertices
	tris := make([]Triangle, len(faces))
	for i, f := range faces {
		tris[i] = Triangle{vs[f[0]], vs[f[1]], vs[f[2]]}
	}
	return tris, nil
}

// TriangleIndices is Triangles expressed as vertex indices.
func (m *Model) TriangleIndices() ([][3]uint32, error) {
	if !m.Mode.IsTriangles() {
		return nil, &ModeError{Mode: m.Mode}
	}
	idx := m.indexList()
	var faces [][3]uint32
	switch m.Mode {
	case Triangles:
		faces = make([][3]uint32, 0, len(idx)/3)
		for i := 0; i+2 < len(idx); i += 3 {
			faces = append(faces, [3]uint32{idx[i], idx[i+1], idx[i+2]})
		}
	case TriangleStrip:
		faces = make([][3]uint32, 0, max(len(idx)-2, 0))
		for i := 0; i+2 < len(idx); i++ {
			odd := i % 2
			faces = append(faces, [3]uint32{idx[i+odd], idx[i+1-odd], idx[i+2]})
		}
	case TriangleFan:
		faces = make([][3]uint32, 0, max(len(idx)-2, 0))
		for i := 1; i+1 < len(idx); i++ {
			faces = append(faces, [3]uint32{idx[0], idx[i], idx[i+1]})
		}
	}
	return faces, nil
}

// Lines expands the model into line segments. Only defined for Lines,
// LineStrip and LineLoop. A loop is closed with a (last, first) segment.
func (m *Model) Lines() ([]Line, error) {
	edges, err := m.LineIndices()
	if err != nil {
		return nil, err
	}
	vs := m.Vertices
	lines := make([]Line, len(edges))
	for i, e := range edges {
		lines[i] = Line{vs[e[0]], vs[e[1]]}
	}
	return lines, nil
}

// LineIndices is Lines expressed as vertex indices.
func (m *Model) LineIndices() ([][2]uint32, error) {
	if !m.Mode.IsLines() {
		return nil, &ModeError{Mode: m.Mode}
	}
	idx := m.indexList()
	var edges [][2]uint32
	switch m.Mode {
	case Lines:
		edges = make([][2]uint32, 0, len(idx)/2)
		for i := 0; i+1 < len(idx); i += 2 {
			edges = append(edges, [2]uint32{idx[i], idx[i+1]})
		}
	case LineStrip, LineLoop:
		edges = make([][2]uint32, 0, len(idx))
		for i := 0; i+1 < len(idx); i++ {
			edges = append(edges, [2]uint32{idx[i], idx[i+1]})
		}
		if m.Mode == LineLoop && len(idx) > 1 {
			edges = append(edges, [2]uint32{idx[len(idx)-1], idx[0]})
		}
	}
	return edges, nil
}

// Points returns the raw vertex list of a Points model.
func (m *Model) Points() ([]Vertex, error) {
	if m.Mode != Points {
		return nil, &ModeError{Mode: m.Mode}
	}
	return m.Vertices, nil
}

// BoundingBox returns minX, minY, minZ, maxX, maxY, maxZ of the vertices.
func (m *Model) BoundingBox() *[6]float64 {
	return m.box().Array()
}

func (m *Model) box() *dvec3.Box {
	bbx := dvec3.MinBox
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		bbx.Extend(&dvec3.T{float64(p[0]), float64(p[1]), float64(p[2])})
	}
	return &bbx
}

func (m Mode) stride() int {
	switch m {
	case Triangles:
		return 3
	case Lines:
		return 2
	}
	return 1
}

func (l *loader) loadModel(prim *gltf.Primitive, world *dmat.T) (*Model, error) {
	m := &Model{Mode: modeFromGltf(prim.Mode), Instance: -1}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, newLoadError(ErrMissingAttribute, "primitive has no POSITION attribute")
	}
	acc, err := l.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(l.doc, acc, nil)
	if err != nil {
		return nil, wrapLoadError(ErrDocumentParse, err, "reading POSITION accessor %d", posIdx)
	}
	m.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		m.Vertices[i].Position = transformPoint(world, p)
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(l.doc, acc, nil)
		if err != nil {
			return nil, wrapLoadError(ErrDocumentParse, err, "reading NORMAL accessor %d", idx)
		}
		for i, n := range normals[:l.clip("NORMAL", len(normals), len(m.Vertices))] {
			m.Vertices[i].Normal = transformDirection(world, n)
		}
		m.HasNormals = true
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		tangents, err := modeler.ReadTangent(l.doc, acc, nil)
		if err != nil {
			return nil, wrapLoadError(ErrDocumentParse, err, "reading TANGENT accessor %d", idx)
		}
		for i, t := range tangents[:l.clip("TANGENT", len(tangents), len(m.Vertices))] {
			d := transformDirection(world, [3]float32{t[0], t[1], t[2]})
			m.Vertices[i].Tangent = vec4.T{d[0], d[1], d[2], t[3]}
		}
		m.HasTangents = true
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(l.doc, acc, nil)
		if err != nil {
			return nil, wrapLoadError(ErrDocumentParse, err, "reading TEXCOORD_0 accessor %d", idx)
		}
		for i, uv := range uvs[:l.clip("TEXCOORD_0", len(uvs), len(m.Vertices))] {
			m.Vertices[i].TexCoord = vec2.T(uv)
		}
		m.HasTexCoords = true
	}

	if idx, ok := prim.Attributes["COLOR_0"]; ok && l.opts.VertexColors {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		colors, err := readColors(l.doc, acc)
		if err != nil {
			return nil, wrapLoadError(ErrDocumentParse, err, "reading COLOR_0 accessor %d", idx)
		}
		for i, c := range colors[:l.clip("COLOR_0", len(colors), len(m.Vertices))] {
			m.Vertices[i].Color = c
		}
		m.HasColors = true
	}

	if prim.Indices != nil {
		acc, err := l.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(l.doc, acc, nil)
		if err != nil {
			return nil, wrapLoadError(ErrDocumentParse, err, "reading indices accessor %d", *prim.Indices)
		}
		for _, v := range indices {
			if int(v) >= len(m.Vertices) {
				return nil, newLoadError(ErrDocumentParse, "index %d out of range of %d vertices", v, len(m.Vertices))
			}
		}
		if indices == nil {
			indices = []uint32{}
		}
		m.Indices = indices
	}

	if err := l.checkStride(m); err != nil {
		return nil, err
	}

	m.Material, err = l.cache.Material(prim.Material)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// readColors reads COLOR_0 as RGBA. Float components are kept as stored,
// normalized integers are scaled to [0, 1] and RGB gets an alpha of 1.
func readColors(doc *gltf.Document, acc *gltf.Accessor) ([]vec4.T, error) {
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	var out []vec4.T
	switch v := data.(type) {
	case [][4]float32:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T(c)
		}
	case [][3]float32:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T{c[0], c[1], c[2], 1}
		}
	case [][4]uint8:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
		}
	case [][3]uint8:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
		}
	case [][4]uint16:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T{float32(c[0]) / 65535, float32(c[1]) / 65535, float32(c[2]) / 65535, float32(c[3]) / 65535}
		}
	case [][3]uint16:
		out = make([]vec4.T, len(v))
		for i, c := range v {
			out[i] = vec4.T{float32(c[0]) / 65535, float32(c[1]) / 65535, float32(c[2]) / 65535, 1}
		}
	default:
		return nil, errors.Errorf("unsupported color accessor %T", data)
	}
	return out, nil
}

// clip bounds an attribute stream to the vertex count.
func (l *loader) clip(name string, n, vertices int) int {
	if n < vertices {
		l.log.Warn("attribute stream shorter than POSITION",
			zap.String("attribute", name), zap.Int("count", n), zap.Int("vertices", vertices))
		return n
	}
	if n > vertices {
		return vertices
	}
	return n
}

func (l *loader) checkStride(m *Model) error {
	stride := m.Mode.stride()
	n := len(m.indexList())
	if n%stride == 0 {
		return nil
	}
	if l.opts.StrictIndices {
		return newLoadError(ErrMalformedIndices, "%d indices is not a multiple of %d for %s", n, stride, m.Mode)
	}
	l.log.Warn("truncating trailing partial primitive",
		zap.String("mode", m.Mode.String()), zap.Int("indices", n), zap.Int("dropped", n%stride))
	return nil
}
