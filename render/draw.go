// Package render wires canvas, raster and bitmap into the bullseye commands.
package render

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"bullseye/bitmap"
	"bullseye/canvas"
	"bullseye/parallel"
	"bullseye/raster"

	"github.com/alecthomas/kong"
)

// CLI is the command line of the bullseye binary.
type CLI struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Workers  int    `help:"Number of images rendered at once, 0 for one per CPU" default:"0"`

	Draw    DrawCmd    `cmd:"" default:"withargs" help:"Draw concentric rings into 24-bit BMP files"`
	Palette PaletteCmd `cmd:"" help:"Export the ring colors as a RIFF palette"`
}

// Execute runs the selected command on pool and always drains it afterwards,
// so commands that never submit a job still release the workers.
func (c *CLI) Execute(kctx *kong.Context, pool *parallel.Pool) error {
	err := kctx.Run(pool.Do, pool.Wait)
	if werr := pool.Wait(); err == nil {
		err = werr
	}
	return err
}

// Job is one image to render.
type Job struct {
	Width  int
	Height int
	Path   string
}

// ParseJob reads a WIDTHxHEIGHT:FILE job description.
func ParseJob(s string) (Job, error) {
	size, path, ok := strings.Cut(s, ":")
	if !ok || path == "" {
		return Job{}, fmt.Errorf("invalid job %q, should be WIDTHxHEIGHT:FILE", s)
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return Job{}, fmt.Errorf("invalid size %q, should be WIDTHxHEIGHT", size)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return Job{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Job{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return Job{}, fmt.Errorf("invalid dimensions in %q: %dx%d", s, width, height)
	}

	return Job{Width: width, Height: height, Path: path}, nil
}

type DrawCmd struct {
	Width  int      `help:"Image width in pixels" default:"1024"`
	Height int      `help:"Image height in pixels" default:"1024"`
	Out    string   `help:"Output bitmap file" default:"myBitmap.bmp"`
	Order  string   `help:"Channel byte order on disk: packed keeps the cell bytes as they are, bgr makes channel0 red" enum:"packed,bgr" default:"packed"`
	Extra  []string `arg:"" optional:"" name:"job" help:"Additional images as WIDTHxHEIGHT:FILE"`

	Jobs         []Job               `kong:"-"`
	ChannelOrder bitmap.ChannelOrder `kong:"-"`
}

func (c *DrawCmd) Validate(kctx *kong.Context) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size: %dx%d", c.Width, c.Height)
	}

	var err error
	if c.ChannelOrder, err = bitmap.ParseChannelOrder(c.Order); err != nil {
		return err
	}

	jobs := []Job{{Width: c.Width, Height: c.Height, Path: c.Out}}
	for _, s := range c.Extra {
		job, err := ParseJob(s)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}

	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		path, err := filepath.Abs(jobs[i].Path)
		if err != nil {
			return fmt.Errorf("invalid output path %q: %w", jobs[i].Path, err)
		}
		if _, ok := seen[path]; ok {
			return fmt.Errorf("output %q given more than once", path)
		}
		seen[path] = struct{}{}
		jobs[i].Path = path
	}
	c.Jobs = jobs

	return nil
}

func (c *DrawCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	var processedCount, errCount atomic.Uint64
	for _, job := range c.Jobs {
		worker(func() error {
			if err := Render(job, c.ChannelOrder); err != nil {
				errCount.Add(1)
				slog.Error("could not render image", "file", job.Path, "error", err)
				return err
			}
			processedCount.Add(1)
			return nil
		})
	}

	err := wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if err != nil {
		return fmt.Errorf("error rendering %d images: %w", errors, err)
	}
	return nil
}

// Render draws one bullseye and saves it. The canvas lives only for the
// duration of the call.
func Render(job Job, order bitmap.ChannelOrder) error {
	logger := slog.Default().With("file", job.Path)

	c, err := canvas.New(job.Width, job.Height)
	if err != nil {
		return fmt.Errorf("could not create canvas for %q: %w", job.Path, err)
	}
	defer c.Release()

	logger.Debug("drawing", "width", job.Width, "height", job.Height,
		"rings", max(raster.StartRadius(job.Width, job.Height), 0))
	raster.Bullseye(c)

	if err := bitmap.Save(job.Path, c, &bitmap.Encoder{Order: order}); err != nil {
		return err
	}

	logger.Info("saved", "width", job.Width, "height", job.Height,
		"bytes", bitmap.FileSize(job.Width, job.Height))
	return nil
}
