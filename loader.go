package gltfscene

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"go.uber.org/zap"
)

// Options selects what a load extracts.
type Options struct {
	// LoadImages decodes textures. When false every texture field of every
	// Material is nil.
	LoadImages bool `yaml:"load_images"`
	// VertexColors reads COLOR_0 into Vertex.Color.
	VertexColors bool `yaml:"vertex_colors"`
	// StrictIndices rejects index lists that are not a multiple of the
	// primitive stride instead of dropping the trailing partial primitive.
	StrictIndices bool `yaml:"strict_indices"`
	// GPUInstancing expands EXT_mesh_gpu_instancing nodes into one set of
	// models per instance.
	GPUInstancing bool `yaml:"gpu_instancing"`

	Logger *zap.Logger `yaml:"-"`
}

func DefaultOptions() *Options {
	return &Options{
		LoadImages:    true,
		VertexColors:  true,
		GPUInstancing: true,
	}
}

// Source is an already parsed document.
type Source struct {
	Document *gltf.Document
	// BaseDir resolves relative image URIs.
	BaseDir string
	// Images optionally holds encoded image bytes indexed like
	// Document.Images; nil entries are resolved from the document.
	Images [][]byte
}

// Load reads a .gltf or .glb file and returns one Scene per document scene.
// A nil opts means DefaultOptions.
func Load(path string, opts *Options) ([]*Scene, error) {
	scenes, _, err := LoadWithCache(path, opts)
	return scenes, err
}

// LoadWithCache is Load that also returns the cache of the load.
func LoadWithCache(path string, opts *Options) ([]*Scene, *ResourceCache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, wrapLoadError(ErrIO, err, "opening %s", path)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, nil, wrapLoadError(ErrIO, err, "reading %s", path)
		}
		return nil, nil, wrapLoadError(ErrDocumentParse, err, "parsing %s", path)
	}
	return LoadDocumentWithCache(&Source{Document: doc, BaseDir: filepath.Dir(path)}, opts)
}

// LoadDocument converts a parsed document. It either returns every scene or
// fails without any partial result.
func LoadDocument(src *Source, opts *Options) ([]*Scene, error) {
	scenes, _, err := LoadDocumentWithCache(src, opts)
	return scenes, err
}

// LoadDocumentWithCache is LoadDocument that also returns the cache holding
// the shared materials and textures of the load.
func LoadDocumentWithCache(src *Source, opts *Options) ([]*Scene, *ResourceCache, error) {
	l, err := newLoader(src, opts)
	if err != nil {
		return nil, nil, err
	}
	scenes, err := l.load()
	if err != nil {
		return nil, nil, err
	}
	return scenes, l.cache, nil
}

type loader struct {
	doc    *gltf.Document
	opts   *Options
	log    *zap.Logger
	cache  *ResourceCache
	lights []*lightspunctual.Light
}

func newLoader(src *Source, opts *Options) (*loader, error) {
	if src == nil || src.Document == nil {
		return nil, newLoadError(ErrDocumentParse, "no document")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var decoder TextureDecoder
	if opts.LoadImages {
		decoder = &documentDecoder{doc: src.Document, baseDir: src.BaseDir, images: src.Images}
	}
	lights, err := documentLights(src.Document)
	if err != nil {
		return nil, wrapLoadError(ErrDocumentParse, err, "reading lights")
	}
	return &loader{
		doc:    src.Document,
		opts:   opts,
		log:    log,
		cache:  NewResourceCache(src.Document, decoder),
		lights: lights,
	}, nil
}

func (l *loader) load() ([]*Scene, error) {
	scenes := make([]*Scene, 0, len(l.doc.Scenes))
	for i, gs := range l.doc.Scenes {
		if gs == nil {
			return nil, newLoadError(ErrDocumentParse, "scene %d is null", i)
		}
		scene, err := l.loadScene(gs)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	st := l.cache.Stats()
	l.log.Debug("document loaded",
		zap.Int("scenes", len(scenes)),
		zap.Int("materials", st.Materials),
		zap.Int("decodes", st.Decodes))
	return scenes, nil
}

func (l *loader) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(l.doc.Accessors) || l.doc.Accessors[index] == nil {
		return nil, newLoadError(ErrDocumentParse, "accessor %d out of range", index)
	}
	return l.doc.Accessors[index], nil
}
