package main

import (
	"log/slog"
	"os"

	"bullseye/parallel"
	"bullseye/render"

	"github.com/alecthomas/kong"
)

func main() {
	var cli render.CLI
	kctx := kong.Parse(&cli,
		kong.Name("bullseye"),
		kong.Description("Draws concentric circles into uncompressed 24-bit BMP files."),
		kong.UsageOnError(),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		kctx.FatalIfErrorf(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("running", "command", kctx.Command(), "workers", cli.Workers)

	pool := parallel.Start(cli.Workers)
	err := cli.Execute(kctx, pool)
	kctx.FatalIfErrorf(err)
}
