package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/spectraforge/spectraforge/pkg/log"
	"github.com/spectraforge/spectraforge/pkg/renderer"
	"github.com/spectraforge/spectraforge/pkg/scene"
	"github.com/spectraforge/spectraforge/web/server"
)

var logger = log.New("spectraforge")

func main() {
	app := cli.NewApp()
	app.Name = "spectraforge"
	app.Usage = "physically based Monte Carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "q",
			Usage: "only log warnings and errors",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "scene to render (default, cornell, foggy)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 800,
					Usage: "image width in pixels",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 600,
					Usage: "image height in pixels",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 12,
					Usage: "maximum path length",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "render workers (0 = one per CPU)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "random seed",
				},
				cli.BoolFlag{
					Name:  "adaptive",
					Usage: "enable adaptive sampling",
				},
				cli.Float64Flag{
					Name:  "adaptive-min",
					Value: 0.25,
					Usage: "fraction of the sample budget spent uniformly before adapting",
				},
				cli.Float64Flag{
					Name:  "adaptive-threshold",
					Value: 0.02,
					Usage: "relative error below which a pixel is converged",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.0,
					Usage: "display gamma for the PNG output",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "output PNG filename",
				},
				cli.StringFlag{
					Name:  "raw",
					Usage: "also write the HDR framebuffer to this gzip file",
				},
			},
			Action: renderCmd,
		},
		{
			Name:  "serve",
			Usage: "start the web UI and render API",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to listen on",
				},
			},
			Action: serveCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Debug)
	}
	if ctx.GlobalBool("q") {
		log.SetLevel(log.Warning)
	}
}

func renderCmd(ctx *cli.Context) error {
	setupLogging(ctx)

	width := ctx.Int("width")
	height := ctx.Int("height")
	aspect := float64(width) / float64(height)

	scn := createScene(ctx.String("scene"), aspect)
	if scn == nil {
		return fmt.Errorf("unknown scene: %s", ctx.String("scene"))
	}

	config := renderer.DefaultConfig(width, height)
	config.SamplesPerPixel = ctx.Int("spp")
	config.MaxDepth = ctx.Int("max-depth")
	config.Workers = ctx.Int("workers")
	config.Seed = ctx.Int64("seed")
	config.Adaptive = ctx.Bool("adaptive")
	config.AdaptiveMin = ctx.Float64("adaptive-min")
	config.AdaptiveThreshold = ctx.Float64("adaptive-threshold")

	r, err := renderer.NewRenderer(config, scn)
	if err != nil {
		return err
	}

	// Ctrl-C cancels the render cleanly at the next pixel boundary
	renderCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	if err := writePNG(ctx.String("out"), result, ctx.Float64("gamma")); err != nil {
		return err
	}
	logger.Noticef("wrote %s", ctx.String("out"))

	if rawPath := ctx.String("raw"); rawPath != "" {
		if err := writeRaw(rawPath, result); err != nil {
			return err
		}
		logger.Noticef("wrote %s", rawPath)
	}

	displayRenderStats(result)
	return nil
}

func serveCmd(ctx *cli.Context) error {
	setupLogging(ctx)
	return server.NewServer(ctx.Int("port")).Start()
}

func createScene(name string, aspect float64) *scene.Scene {
	switch name {
	case "default":
		return scene.NewDefaultScene(aspect)
	case "cornell":
		return scene.NewCornellScene(aspect)
	case "foggy":
		return scene.NewFoggyScene(aspect)
	default:
		return nil
	}
}

func writePNG(path string, result *renderer.RenderResult, gamma float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, result.Framebuffer.ToImage(gamma))
}

func writeRaw(path string, result *renderer.RenderResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return result.Framebuffer.WriteRaw(f)
}

func displayRenderStats(result *renderer.RenderResult) {
	stats := result.Stats

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)})
	table.Append([]string{"Total samples", fmt.Sprintf("%d", stats.TotalSamples)})
	table.Append([]string{"Samples/pixel (avg)", fmt.Sprintf("%.1f", stats.AverageSamples)})
	table.Append([]string{"Samples/pixel (min/max)", fmt.Sprintf("%d / %d", stats.MinSamples, stats.MaxSamples)})
	table.Append([]string{"Throughput", fmt.Sprintf("%.0f samples/s", stats.SamplesPerSecond())})
	table.Append([]string{"Workers", fmt.Sprintf("%d", stats.Workers)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d (%d failed)", stats.Tiles, stats.FailedTiles)})
	table.Append([]string{"BVH nodes", fmt.Sprintf("%d (%d leaves, depth %d)", stats.BVHNodes, stats.BVHLeaves, stats.BVHMaxDepth)})
	table.Append([]string{"Render time", stats.Duration.Round(time.Millisecond).String()})
	table.Render()

	for _, tileErr := range result.TileErrors {
		logger.Warningf("tile %d (%d,%d)-(%d,%d) failed: %v",
			tileErr.TileIndex, tileErr.Bounds.X0, tileErr.Bounds.Y0,
			tileErr.Bounds.X1, tileErr.Bounds.Y1, tileErr.Err)
	}
}
