// projbox - project scene vertices through a camera and report their 2D
// bounding box in render pixels.
//
// Usage:
//
//	projbox project [model.glb|points.json] [--json]
//	projbox render  [model.glb] -o overlay.png
//	projbox preview [model.glb]
//
// Without a model the built-in demo scene is used. --select replaces the
// vertex selection that --selected-only projects. Settings come from the
// environment (PROJBOX_*, optionally via .env) and are overridden by flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yami-no-senshi/Blender-Python-tools/internal/config"
	"github.com/yami-no-senshi/Blender-Python-tools/internal/logging"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/pipeline"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/scene"
)

var version = "dev"

// app carries the resolved configuration between cobra hooks and commands.
type app struct {
	cfg      *config.Config
	envFile  string
	closeLog func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fang prints the error itself.
	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "projbox",
		Short:         "Project 3D scene vertices to pixels and compute their bounding box",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", "", "env file to load (default .env)")
	pf.String("camera", "", "camera object name (default: active camera)")
	pf.String("object", "", "mesh object name (default: every mesh)")
	pf.Int("res-x", 0, "render width in pixels")
	pf.Int("res-y", 0, "render height in pixels")
	pf.String("select", "", `vertex selection, e.g. "0-3,6" or "Cube:0,Cube:2"`)
	pf.Bool("selected-only", false, "project only selected vertices")
	pf.Int("workers", 0, "projection goroutines (0: sequential)")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newProjectCmd(a), newRenderCmd(a), newPreviewCmd(a))
	return root
}

// setup loads config, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("camera") {
		cfg.Camera, _ = flags.GetString("camera")
	}
	if flags.Changed("object") {
		cfg.Object, _ = flags.GetString("object")
	}
	if flags.Changed("res-x") {
		cfg.Render.ResolutionX, _ = flags.GetInt("res-x")
	}
	if flags.Changed("res-y") {
		cfg.Render.ResolutionY, _ = flags.GetInt("res-y")
	}
	if flags.Changed("select") {
		cfg.Select, _ = flags.GetString("select")
	}
	if flags.Changed("selected-only") {
		cfg.SelectedOnly, _ = flags.GetBool("selected-only")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	closeLog, err := logging.Init(cfg.Log.Logging())
	if err != nil {
		return err
	}
	a.cfg, a.closeLog = cfg, closeLog
	return nil
}

// options converts the configuration into pipeline options.
func (a *app) options() pipeline.Options {
	return pipeline.Options{
		Camera:       a.cfg.Camera,
		Object:       a.cfg.Object,
		SelectedOnly: a.cfg.SelectedOnly,
		Workers:      a.cfg.Workers,
	}
}

// loadScene imports the model named in args or falls back to the demo
// scene. The configured render settings and vertex selection apply either
// way.
func (a *app) loadScene(args []string) (*scene.Scene, error) {
	s, err := a.readScene(args)
	if err != nil {
		return nil, err
	}
	s.Render = a.cfg.Render.Projection()

	if a.cfg.Select != "" {
		sel, err := scene.ParseSelection(a.cfg.Select)
		if err != nil {
			return nil, err
		}
		if err := s.ApplySelection(sel); err != nil {
			return nil, err
		}
		log.Debug().Str("select", a.cfg.Select).Msg("vertex selection applied")
	}
	return s, nil
}

func (a *app) readScene(args []string) (*scene.Scene, error) {
	r := a.cfg.Render.Projection()
	if len(args) == 0 {
		log.Debug().Msg("using demo scene")
		return scene.Demo(), nil
	}

	path := args[0]
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
	default:
		return nil, fmt.Errorf("unsupported scene format %q (use .glb or .gltf)", ext)
	}

	var s *scene.Scene
	err := logging.Timed("import scene", func() error {
		var err error
		s, err = scene.ImportGLTF(path, r.ResolutionX, r.ResolutionY)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filepath.Base(path)).Int("objects", len(s.Objects)).Msg("scene loaded")
	return s, nil
}

func isPointsFile(args []string) bool {
	return len(args) > 0 && strings.EqualFold(filepath.Ext(args[0]), ".json")
}
