package gltfscene

import (
	"image"

	mst "github.com/flywave/go-mst"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"go.uber.org/zap"
)

// GltfToMst flattens the triangle models of every scene of a glTF file into
// one mst mesh. Line and point models have no mst counterpart and are
// skipped.
type GltfToMst struct {
	Options *Options

	mtlMap map[*Material]int32
	texMap map[interface{}]*mst.Texture
}

func (g *GltfToMst) Convert(path string) (*mst.Mesh, *[6]float64, error) {
	scenes, err := Load(path, g.Options)
	if err != nil {
		return nil, nil, err
	}
	return g.ConvertScenes(scenes)
}

func (g *GltfToMst) ConvertScenes(scenes []*Scene) (*mst.Mesh, *[6]float64, error) {
	g.mtlMap = make(map[*Material]int32)
	g.texMap = make(map[interface{}]*mst.Texture)
	log := zap.NewNop()
	if g.Options != nil && g.Options.Logger != nil {
		log = g.Options.Logger
	}

	mesh := mst.NewMesh()
	bbx := dvec3.MinBox
	for _, sc := range scenes {
		for _, m := range sc.Models {
			faces, err := m.TriangleIndices()
			if err != nil {
				log.Warn("skipping model without triangles",
					zap.String("mesh", m.MeshName), zap.Int("primitive", m.PrimitiveIndex),
					zap.String("mode", m.Mode.String()))
				continue
			}
			mesh.Nodes = append(mesh.Nodes, g.transModel(mesh, m, faces))
			bbx.Join(m.box())
		}
	}
	return mesh, bbx.Array(), nil
}

func (g *GltfToMst) transModel(mstMh *mst.Mesh, m *Model, faces [][3]uint32) *mst.MeshNode {
	mhNode := &mst.MeshNode{}
	repete := false
	for i := range m.Vertices {
		v := &m.Vertices[i]
		mhNode.Vertices = append(mhNode.Vertices, v.Position)
		if m.HasNormals {
			mhNode.Normals = append(mhNode.Normals, v.Normal)
		}
		if m.HasTexCoords {
			mhNode.TexCoords = append(mhNode.TexCoords, v.TexCoord)
			repete = repete || v.TexCoord[0] > 1.1 || v.TexCoord[1] > 1.1
		}
	}

	tg := &mst.MeshTriangle{Batchid: g.transMaterial(mstMh, m.Material, repete)}
	for _, f := range faces {
		tg.Faces = append(tg.Faces, &mst.Face{Vertex: f})
	}
	mhNode.FaceGroup = append(mhNode.FaceGroup, tg)
	return mhNode
}

func (g *GltfToMst) transMaterial(mstMh *mst.Mesh, mt *Material, repete bool) int32 {
	if id, ok := g.mtlMap[mt]; ok {
		return id
	}
	mtl := &mst.PbrMaterial{}
	mtl.Color = [3]byte{unorm8(mt.BaseColorFactor[0]), unorm8(mt.BaseColorFactor[1]), unorm8(mt.BaseColorFactor[2])}
	mtl.Transparency = 1 - mt.BaseColorFactor[3]
	mtl.Emissive = [3]byte{unorm8(mt.EmissiveFactor[0]), unorm8(mt.EmissiveFactor[1]), unorm8(mt.EmissiveFactor[2])}
	mtl.Metallic = mt.MetallicFactor
	mtl.Roughness = mt.RoughnessFactor
	if mt.BaseColorTexture != nil {
		mtl.TextureMaterial.Texture = g.texture(mt.BaseColorTexture, mt.BaseColorTexture, repete)
	}
	if mt.NormalTexture != nil {
		mtl.TextureMaterial.Normal = g.texture(mt.NormalTexture, nrgbaFromRGB(mt.NormalTexture), repete)
	}

	id := int32(len(mstMh.Materials))
	mstMh.Materials = append(mstMh.Materials, mtl)
	g.mtlMap[mt] = id
	return id
}

// texture converts a decoded image into a zlib compressed RGBA mst texture,
// bottom row first. Textures shared by several materials are converted once.
func (g *GltfToMst) texture(key interface{}, img *image.NRGBA, repete bool) *mst.Texture {
	if tex, ok := g.texMap[key]; ok {
		return tex
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, 0, w*h*4)
	for y := h - 1; y >= 0; y-- {
		row := img.Pix[y*img.Stride:]
		buf = append(buf, row[:w*4]...)
	}
	tex := &mst.Texture{}
	tex.Id = int32(len(g.texMap))
	tex.Size = [2]uint64{uint64(w), uint64(h)}
	tex.Format = mst.TEXTURE_FORMAT_RGBA
	tex.Compressed = mst.TEXTURE_COMPRESSED_ZLIB
	tex.Data = mst.CompressImage(buf)
	tex.Repeated = repete
	g.texMap[key] = tex
	return tex
}

func nrgbaFromRGB(src *RGBImage) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	for i := 0; i < src.Width*src.Height; i++ {
		copy(dst.Pix[i*4:i*4+3], src.Pix[i*3:i*3+3])
		dst.Pix[i*4+3] = 0xff
	}
	return dst
}

func unorm8(f float32) byte {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return byte(f*255 + 0.5)
}
