package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/ppm"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

type CLI struct {
	Debug bool `help:"Whether to enable debug logging." default:"${debug}"`

	Render struct {
		SceneFile string `name:"scene-file" short:"f" help:"YAML scene description to render." type:"existingfile"`
		Scene     string `help:"Built-in scene to render when no scene file is given." default:"default" enum:"${scenes}"`
		Width     int    `help:"Image width in pixels (0 keeps the scene's)."`
		Height    int    `help:"Image height in pixels (0 keeps the scene's)."`
		Samples   int    `help:"Rays per pixel (0 keeps the scene's)."`
		Depth     int    `help:"Maximum bounces per ray (negative keeps the scene's)." default:"-1"`
		Workers   int    `help:"Parallel workers (0 uses every CPU)." default:"${workers}"`
		Seed      int64  `help:"Base random seed (negative picks one)." default:"${seed}"`
		Output    string `help:"Where to write the PPM image ('-' for stdout)." short:"o" default:"${output}"`
	} `cmd:"" default:"withargs" help:"Render a scene to a P3 PPM image."`

	Scene struct {
		Name string `arg:"" optional:"" help:"Built-in scene to dump." default:"default" enum:"${scenes}"`
	} `cmd:"" help:"Write a built-in scene as YAML to standard output."`

	List struct {
	} `cmd:"" help:"List the built-in scenes."`
}

// newParser builds the command line parser. Flag defaults come from the
// environment.
func newParser(cli *CLI, cfg *config.Config, stdout io.Writer) (*kong.Kong, error) {
	var ids []string
	for _, info := range scene.ListScenes() {
		ids = append(ids, info.ID)
	}

	return kong.New(cli,
		kong.Name("pathtracer"),
		kong.Description("a stochastic path tracer writing PPM images"),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"scenes":  strings.Join(ids, ","),
			"workers": strconv.Itoa(cfg.Workers),
			"seed":    strconv.FormatInt(cfg.Seed, 10),
			"output":  cfg.Output,
			"debug":   strconv.FormatBool(cfg.Debug),
		},
	)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	var cli CLI
	parser, err := newParser(&cli, cfg, stdout)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	switch kctx.Command() {
	case "render":
		return renderCommand(ctx, &cli, stdout)
	case "scene", "scene <name>":
		s, err := scene.NewBuiltin(cli.Scene.Name)
		if err != nil {
			return err
		}
		return loaders.DumpScene(stdout, s)
	case "list":
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "%-12s %s\n", info.ID, info.Description)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", kctx.Command())
}

func renderCommand(ctx context.Context, cli *CLI, stdout io.Writer) error {
	opts := cli.Render

	var s *scene.Scene
	var err error
	if opts.SceneFile != "" {
		s, err = loaders.LoadSceneFile(opts.SceneFile)
	} else {
		s, err = scene.NewBuiltin(opts.Scene)
	}
	if err != nil {
		return err
	}

	camera := s.Camera
	if opts.Width > 0 {
		camera.Width = opts.Width
	}
	if opts.Height > 0 {
		camera.Height = opts.Height
	}
	if opts.Samples > 0 {
		camera.PixelSamples = opts.Samples
	}
	if opts.Depth >= 0 {
		camera.ScatterDepth = opts.Depth
	}

	raytracer, err := renderer.NewRaytracer(s, camera)
	if err != nil {
		return err
	}

	seed := opts.Seed
	if seed < 0 {
		seed = rand.Int63()
		log.Info().Int64("seed", seed).Msg("no seed given; pass --seed to reproduce this image")
	}

	frame, stats, err := raytracer.Render(ctx, renderer.RenderOptions{
		Workers: opts.Workers,
		Seed:    seed,
		Logger:  log.Logger,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("pixels", stats.TotalPixels).
		Float64("samples_per_pixel", stats.AverageSamples).
		Int("workers", stats.Workers).
		Msgf("rendered in %v", stats.Duration.Round(time.Millisecond))

	return writeImage(opts.Output, frame, stdout)
}

// writeImage encodes frame to path, or to stdout when path is "-"
func writeImage(path string, frame *renderer.Frame, stdout io.Writer) error {
	if path == "-" || path == "" {
		// Nothing reaches stdout unless the whole image encodes
		var buf bytes.Buffer
		if err := ppm.Encode(&buf, frame); err != nil {
			return err
		}
		_, err := buf.WriteTo(stdout)
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := ppm.Encode(file, frame); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("image saved")
	return nil
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("pathtracer failed")
	}
}
