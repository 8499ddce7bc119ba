package main

import (
	"log/slog"
	"os"

	"pixed/convert"
	"pixed/parallel"
	"pixed/render"
	"pixed/swatch"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers int  `help:"Number of parallel workers, 0 uses every CPU" default:"0"`
	Debug   bool `help:"Log every gesture" default:"false"`

	Render  render.CLICmd  `cmd:"" help:"Replay gesture scripts onto indexed canvases"`
	Convert convert.CLICmd `cmd:"" help:"Quantize images onto a palette"`
	Swatch  swatch.CLICmd  `cmd:"" help:"Inspect and write palettes"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pixed"),
		kong.Description("Indexed-colour drawing engine."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Workers)
	defer pool.Cancel()

	err := kctx.Run(pool.Do, pool.Wait)
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
