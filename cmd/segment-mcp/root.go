package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	segimaging "github.com/ironsheep/segment-tools-mcp/internal/imaging"
	"github.com/ironsheep/segment-tools-mcp/internal/segment"
	"github.com/ironsheep/segment-tools-mcp/internal/server"
)

// app carries state shared by every command.
type app struct {
	cfg     server.Config
	verbose bool
	logger  *log.Logger
	cache   *segimaging.ImageCache
}

func versionString() string {
	return fmt.Sprintf("segment-tools-mcp %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit)
}

// envFlags maps each config flag to the variable it overrides.
var envFlags = map[string]string{
	"threshold":     server.EnvThreshold,
	"invert":        server.EnvInvert,
	"workers":       server.EnvWorkers,
	"max-dimension": server.EnvMaxDimension,
}

// newRootCmd builds the command tree. The SEGMENT_MCP_* environment is
// applied in setup, after flag parsing, and only to settings whose flag
// was not given.
func newRootCmd() *cobra.Command {
	a := &app{
		cfg:   server.DefaultConfig(),
		cache: segimaging.NewImageCache(),
	}

	root := &cobra.Command{
		Use:   "segment-mcp",
		Short: "MCP server for binary image segmentation",
		Long: `segment-mcp labels connected components and skeletonizes shapes in binary images.

Without a subcommand it serves MCP over stdin/stdout; configure it in your
MCP client. The label and skeleton subcommands run the same pipeline on a
single file.`,
		Version:           Version,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
	root.SetVersionTemplate(versionString())

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	pf.Uint8Var(&a.cfg.Threshold, "threshold", a.cfg.Threshold, "luminance level separating foreground from background (0-255)")
	pf.BoolVar(&a.cfg.Invert, "invert", a.cfg.Invert, "treat bright pixels as foreground")
	pf.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "goroutines per thinning sub-pass")
	pf.IntVar(&a.cfg.MaxDimension, "max-dimension", a.cfg.MaxDimension, "shrink images whose longer side exceeds this (0 = never)")

	root.AddCommand(a.serveCommand())
	root.AddCommand(a.labelCommand())
	root.AddCommand(a.skeletonCommand())
	root.AddCommand(versionCommand())

	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	skip := make(map[string]bool)
	for name, key := range envFlags {
		if cmd.Flags().Changed(name) {
			skip[key] = true
		}
	}
	if err := a.cfg.LoadEnv(skip); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.logger = newLogger(cmd.ErrOrStderr(), logLevel(a.verbose, os.Getenv(envLogLevel)))
	return nil
}

func (a *app) serve(cmd *cobra.Command) error {
	a.logger.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit,
		"threshold", a.cfg.Threshold, "invert", a.cfg.Invert, "workers", a.cfg.Workers,
		"max_dimension", a.cfg.MaxDimension)

	server.Version = Version
	srv := server.New(a.cfg, a.logger)
	return srv.Run(cmd.Context())
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}

// loadRaster reads, prepares and binarizes the image at path.
func (a *app) loadRaster(path string) (*segment.Raster, error) {
	img, err := a.cache.Load(path)
	if err != nil {
		return nil, err
	}
	img, err = segimaging.Prepare(img, nil, a.cfg.MaxDimension)
	if err != nil {
		return nil, err
	}
	r := segimaging.Binarize(img, segimaging.BinarizeOptions{Threshold: a.cfg.Threshold, Invert: a.cfg.Invert})
	a.logger.Debug("binarized", "path", path, "height", r.Height, "width", r.Width, "foreground", r.Foreground())
	return r, nil
}

// outputPath returns out, or in with its extension replaced by
// "-<suffix>.png" when out is empty.
func outputPath(in, out, suffix string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + "-" + suffix + ".png"
}

func (a *app) labelCommand() *cobra.Command {
	var (
		output  string
		method  string
		seed    int64
		minArea int
	)

	cmd := &cobra.Command{
		Use:   "label <image>",
		Short: "Label connected components and write a colorized image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := segment.ParseMethod(method)
			if err != nil {
				return err
			}
			r, err := a.loadRaster(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(a.logger)
			labels, lm, err := segment.Label(m, r)
			if err != nil {
				return err
			}
			if minArea > 1 {
				lm = segment.Filter(lm, minArea)
				labels = lm.Distinct()
			}

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}
			dst := outputPath(args[0], output, "labels")
			if err := imaging.Save(segimaging.Colorize(labels, lm, rng), dst); err != nil {
				return fmt.Errorf("failed to save image: %w", err)
			}
			prog.done("labeled", "method", m, "components", labels.Components(), "output", dst)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default <image>-labels.png)")
	cmd.Flags().StringVar(&method, "method", string(segment.MethodBFS), "labeling method: dfs, bfs or two-pass")
	cmd.Flags().Int64Var(&seed, "seed", 0, "palette seed (random when unset)")
	cmd.Flags().IntVar(&minArea, "min-area", 0, "drop components smaller than this many pixels")
	return cmd
}

func (a *app) skeletonCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "skeleton <image>",
		Short: "Thin the foreground to one-pixel-wide curves and write a mask image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRaster(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(a.logger)
			out, stats := segment.Thinner{Workers: a.cfg.Workers}.Thin(r)

			dst := outputPath(args[0], output, "skeleton")
			if err := imaging.Save(segimaging.RenderMask(out), dst); err != nil {
				return fmt.Errorf("failed to save image: %w", err)
			}
			prog.done("skeletonized", "iterations", stats.Iterations, "removed", stats.Removed,
				"remaining", out.Foreground(), "output", dst)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default <image>-skeleton.png)")
	return cmd
}
