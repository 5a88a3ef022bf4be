package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"bullseye/palette"

	"github.com/alecthomas/kong"
)

type PaletteCmd struct {
	Radius int    `help:"Radius of the outermost ring" default:"511"`
	Out    string `help:"Output RIFF palette file" default:"rings.pal"`
	Check  bool   `help:"Read the written palette back and compare it" default:"false"`
}

func (c *PaletteCmd) Validate(kctx *kong.Context) error {
	if c.Radius < 1 {
		return fmt.Errorf("invalid radius: %d", c.Radius)
	}

	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Out, err)
	}
	c.Out = out

	return nil
}

func (c *PaletteCmd) Run() error {
	pals := palette.Bullseye(c.Radius)
	if err := writePalettes(c.Out, pals); err != nil {
		return err
	}

	colors := 0
	for _, pal := range pals {
		colors += len(pal)
	}
	slog.Info("palette saved", "file", c.Out, "rings", len(pals), "colors", colors)

	if c.Check {
		return checkPalettes(c.Out, pals)
	}
	return nil
}

func writePalettes(path string, pals []color.Palette) (err error) {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open destination file %q: %w", path, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			slog.Error("could not close destination file", "name", path, "error", closeErr)
			if err == nil {
				err = fmt.Errorf("could not close destination file %q: %w", path, closeErr)
			}
		}
	}()

	if _, err = palette.WriteTo(outFile, pals); err != nil {
		return fmt.Errorf("could not write palette %q: %w", path, err)
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination file %q: %w", path, err)
	}
	return nil
}

func checkPalettes(path string, want []color.Palette) error {
	inFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open palette %q: %w", path, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close palette", "name", path, "error", closeErr)
		}
	}()

	got, err := palette.ReadFrom(inFile)
	if err != nil {
		return fmt.Errorf("could not read palette %q back: %w", path, err)
	}

	if len(got) != len(want) {
		return fmt.Errorf("palette %q holds %d rings, wrote %d", path, len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			return fmt.Errorf("ring %d of %q holds %d colors, wrote %d", i, path, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if color.RGBAModel.Convert(got[i][j]) != color.RGBAModel.Convert(want[i][j]) {
				return fmt.Errorf("ring %d color %d of %q differs", i, j, path)
			}
		}
	}

	slog.Debug("palette verified", "file", path)
	return nil
}
