// meshtool is a CLI utility for inspecting and optimizing OBJ meshes with
// the meshpipe geometry pipeline.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meshworks/meshpipe/internal/config"
	"github.com/meshworks/meshpipe/internal/logger"
	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/objfile"
	"github.com/meshworks/meshpipe/pkg/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("MESHTOOL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "wireframe", "wf":
		cmdWireframe(args)
	case "optimize", "opt":
		cmdOptimize(args, cfg)
	case "split":
		cmdSplit(args)
	case "shade":
		cmdShade(args, cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - OBJ mesh inspection and optimization

Usage:
  meshtool <command> [options]

Commands:
  info <mesh.obj>                 Show mesh statistics
  wireframe <in.obj> <out.obj>    Convert triangles to line wireframe
  optimize <in.obj> <out.obj>     Reorder for GPU vertex caches
  split <in.obj> <out-prefix>     Split into 16-bit indexable meshes
  shade <in.obj> <out.obj>        Derive normals (and tangents, if enabled)

Configuration is read from meshtool.yaml in the working directory or the
user config directory; MESHTOOL_CONFIG overrides the path.

Examples:
  meshtool info model.obj
  meshtool optimize model.obj model_opt.obj
  meshtool split huge.obj part`)
}

func loadMesh(path string) *geom.Mesh {
	m, err := objfile.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := m.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
		os.Exit(1)
	}
	return m
}

func saveMesh(path string, m *geom.Mesh) {
	if err := objfile.WriteFile(path, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("wrote mesh", zap.String("path", path),
		zap.Int("vertices", m.VertexCount()), zap.Int("indices", len(m.Indices)))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <mesh.obj>")
		os.Exit(1)
	}
	m := loadMesh(args[0])

	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Primitive: %s\n", m.Primitive)
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Indices:   %d (%d triangles)\n", len(m.Indices), len(m.Indices)/3)
	if m.Bounds != nil {
		fmt.Printf("Bounds:    center (%.3f, %.3f, %.3f) radius %.3f\n",
			m.Bounds.Center.X, m.Bounds.Center.Y, m.Bounds.Center.Z, m.Bounds.Radius)
	}
	fmt.Println("Attributes:")
	for _, name := range m.Attributes.Names() {
		attr := m.Attributes.Get(name)
		fmt.Printf("  %-12s %s x%d\n", name, attr.Type, attr.Components)
	}
}

func cmdWireframe(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool wireframe <in.obj> <out.obj>")
		os.Exit(1)
	}
	m := loadMesh(args[0])
	saveMesh(args[1], pipeline.Wireframe(m))
}

func cmdOptimize(args []string, cfg *config.Config) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool optimize <in.obj> <out.obj>")
		os.Exit(1)
	}
	m := loadMesh(args[0])

	if _, err := pipeline.ReorderForPostVertexCache(m, cfg.Pipeline.CacheCapacity); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := pipeline.ReorderForPreVertexCache(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("optimized for vertex caches",
		zap.Int("cache_capacity", cfg.Pipeline.CacheCapacity))
	saveMesh(args[1], m)
}

func cmdSplit(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool split <in.obj> <out-prefix>")
		os.Exit(1)
	}
	m := loadMesh(args[0])

	parts, err := pipeline.FitToUnsignedShortIndices(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(parts) == 1 {
		fmt.Println("Mesh already fits 16-bit indices; nothing to split.")
		return
	}
	for i, part := range parts {
		saveMesh(fmt.Sprintf("%s-%d.obj", args[1], i), part)
	}
	fmt.Printf("Split into %d meshes.\n", len(parts))
}

func cmdShade(args []string, cfg *config.Config) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool shade <in.obj> <out.obj>")
		os.Exit(1)
	}
	m := loadMesh(args[0])

	if cfg.Pipeline.ComputeNormals || !m.Attributes.Has(geom.AttrNormal) {
		if _, err := pipeline.ComputeNormals(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if cfg.Pipeline.ComputeTangents {
		if _, err := pipeline.ComputeTangentBinormal(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	saveMesh(args[1], m)
}
