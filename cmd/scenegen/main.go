// Command scenegen writes a generated scene to disk as a PNG or as JSON draw
// commands. Scene settings come from the same SCENE_* environment as the
// server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inamate/fractalscape/internal/config"
	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/export"
	"github.com/inamate/fractalscape/internal/scene"
)

const (
	formatPNG  = "png"
	formatJSON = "json"
)

type renderOptions struct {
	seed     string
	kind     string
	showcase bool
	out      string
	format   string
	width    int
	count    int
	jobs     int
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts renderOptions

	rootCmd := &cobra.Command{
		Use:           "scenegen",
		Short:         "Generate a fractal landscape",
		Long:          "Generate a fractal landscape and write it as a PNG image or as JSON draw commands.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), cfg, opts)
		},
	}
	rootCmd.Flags().StringVarP(&opts.seed, "seed", "s", "", "scene seed (default: SEED, or random)")
	rootCmd.Flags().StringVarP(&opts.kind, "kind", "k", string(scene.KindScene), "composition: scene or showcase")
	rootCmd.Flags().BoolVar(&opts.showcase, "showcase", false, "shorthand for --kind showcase")
	rootCmd.Flags().StringVarP(&opts.out, "out", "o", "scene.png", `output file, "-" for stdout`)
	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "", "png or json (default: from the output extension)")
	rootCmd.Flags().IntVarP(&opts.width, "width", "w", 0, "image width in pixels (default: scene width)")
	rootCmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of scenes, with consecutive seeds")
	rootCmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "scenes rendered in parallel")

	var checkCmd = &cobra.Command{
		Use:   "checkconfig",
		Short: "Check scene configuration",
		Long:  "Load the configuration from the environment and report whether it is valid.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: %dx%d canvas\n", cfg.Scene.Width, cfg.Scene.Height)
			return nil
		},
	}

	rootCmd.AddCommand(checkCmd)
	return rootCmd
}

func render(stdout io.Writer, cfg *config.Config, opts renderOptions) error {
	kind, err := scene.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	if opts.showcase {
		kind = scene.KindShowcase
	}
	seed, err := engine.ResolveSeed(opts.seed, cfg.Seed)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = formatPNG
		if strings.EqualFold(filepath.Ext(opts.out), ".json") {
			format = formatJSON
		}
	}
	if format != formatPNG && format != formatJSON {
		return fmt.Errorf("unknown format %q", format)
	}
	if opts.count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.count)
	}
	if opts.count > 1 && opts.out == "-" {
		return fmt.Errorf("cannot write %d scenes to stdout", opts.count)
	}

	width := cfg.Scene.Width
	if opts.width > 0 {
		width = min(opts.width, cfg.ExportMaxSize)
	}
	height := max(1, width*cfg.Scene.Height/cfg.Scene.Width)

	job := renderJob{cfg: cfg.Scene, kind: kind, format: format, width: width, height: height}
	if opts.count == 1 {
		return job.run(stdout, seed, opts.out)
	}

	// Each scene gets its own engine, so they render independently.
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(1, opts.jobs))
	for i := range opts.count {
		s := seed + uint64(i)
		path := seededPath(opts.out, s)
		g.Go(func() error {
			var buf strings.Builder
			if err := job.run(&buf, s, path); err != nil {
				return fmt.Errorf("seed %d: %w", s, err)
			}
			mu.Lock()
			defer mu.Unlock()
			_, err := io.WriteString(stdout, buf.String())
			return err
		})
	}
	return g.Wait()
}

// seededPath turns out/scene.png into out/scene-<seed>.png.
func seededPath(out string, seed uint64) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-" + strconv.FormatUint(seed, 10) + ext
}

type renderJob struct {
	cfg           scene.Config
	kind          scene.Kind
	format        string
	width, height int
}

func (j renderJob) run(stdout io.Writer, seed uint64, out string) error {
	e := engine.NewEngine(j.cfg)
	if err := e.Generate(j.kind, seed); err != nil {
		return err
	}

	if out == "-" {
		return j.write(stdout, e)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := j.write(f, e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	info, _ := e.Info()
	fmt.Fprintf(stdout, "wrote %s (%s, seed %s, %d shapes)\n", out, j.kind, strconv.FormatUint(seed, 10), len(e.Scene().Shapes))
	slog.Debug("scene written", "scene", info.ID, "counts", info.Counts)
	return nil
}

func (j renderJob) write(w io.Writer, e *engine.Engine) error {
	switch j.format {
	case formatJSON:
		if j.width != j.cfg.Width {
			e.SetViewport(j.width, j.height)
		}
		_, err := io.WriteString(w, e.Render())
		return err
	default:
		e.SetViewport(j.width, j.height)
		return export.WritePNG(w, e.Commands(), j.width, j.height)
	}
}
