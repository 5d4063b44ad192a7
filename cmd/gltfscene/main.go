// gltfscene is a CLI utility for inspecting glTF scenes and exporting them to mst.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	mst "github.com/flywave/go-mst"
	"go.uber.org/zap"

	gltfscene "github.com/flywave/go-gltfscene"
	"github.com/flywave/go-gltfscene/internal/config"
	"github.com/flywave/go-gltfscene/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "export":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gltfscene - glTF scene utility

Usage:
  gltfscene <command> [options]

Commands:
  info <file.gltf|file.glb>              Show scenes, models, cameras and lights
  export <file.gltf|file.glb> <out.mst>  Export triangle models to an mst mesh

Options:
  -config <file.yaml>  Load options from a YAML file
  -no-images           Skip texture decoding
  -debug               Enable debug logging
  -log <file>          Also write logs to a rotating file

Examples:
  gltfscene info model.glb
  gltfscene export -no-images scene.gltf scene.mst`)
}

type commonFlags struct {
	config   *string
	noImages *bool
	debug    *bool
	logFile  *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:   fs.String("config", "", "YAML config file"),
		noImages: fs.Bool("no-images", false, "Skip texture decoding"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
		logFile:  fs.String("log", "", "Log file path"),
	}
}

// setup loads the config, initializes logging and returns the load options.
func (c *commonFlags) setup() *gltfscene.Options {
	cfg := config.Default()
	if *c.config != "" {
		var err error
		if cfg, err = config.LoadFile(*c.config); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *c.debug {
		cfg.Logging.Level = "debug"
	}
	if *c.logFile != "" {
		cfg.Logging.LogFile = *c.logFile
	}
	if *c.noImages {
		cfg.Load.LoadImages = false
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg.Options(logger.Log)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	common := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltfscene info [options] <file.gltf|file.glb>")
		os.Exit(1)
	}
	opts := common.setup()
	defer logger.Sync()

	path := fs.Arg(0)
	scenes, cache, err := gltfscene.LoadWithCache(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:   %s\n", path)
	fmt.Printf("Scenes: %d\n", len(scenes))
	for i, sc := range scenes {
		name := sc.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Println()
		fmt.Printf("Scene %d: %s\n", i, name)
		fmt.Printf("  Models:  %d\n", len(sc.Models))
		fmt.Printf("  Cameras: %d\n", len(sc.Cameras))
		fmt.Printf("  Lights:  %d\n", len(sc.Lights))
		if len(sc.Models) > 0 {
			b := sc.BoundingBox()
			fmt.Printf("  Bounds:  [%.3f %.3f %.3f] - [%.3f %.3f %.3f]\n", b[0], b[1], b[2], b[3], b[4], b[5])
		}

		modes := make(map[gltfscene.Mode]int)
		verts := 0
		for _, m := range sc.Models {
			modes[m.Mode]++
			verts += len(m.Vertices)
		}
		fmt.Printf("  Vertices: %d\n", verts)
		for mode := gltfscene.Points; mode <= gltfscene.TriangleFan; mode++ {
			if n := modes[mode]; n > 0 {
				fmt.Printf("    %-14s %d\n", mode, n)
			}
		}
	}

	st := cache.Stats()
	fmt.Println()
	fmt.Printf("Materials: %d\n", st.Materials)
	fmt.Printf("Textures:  %d rgba, %d rgb, %d gray (%d decodes)\n", st.RGBA, st.RGB, st.Gray, st.Decodes)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	common := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: gltfscene export [options] <file.gltf|file.glb> <out.mst>")
		os.Exit(1)
	}
	opts := common.setup()
	defer logger.Sync()

	src, dst := fs.Arg(0), fs.Arg(1)
	conv := gltfscene.FormatFactory(gltfscene.FormatOf(src), opts)
	if conv == nil {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q\n", filepath.Ext(src))
		os.Exit(1)
	}
	mesh, bbx, err := conv.Convert(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	mst.MeshMarshal(f, mesh)

	logger.Log.Info("exported",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int("nodes", len(mesh.Nodes)),
		zap.Int("materials", len(mesh.Materials)),
		zap.Float64s("bbox", bbx[:]))
}
