// Package app wires the vectorization pipeline to its outputs: the device,
// the dry-run listing, job export and previews.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"strokeplot/internal/config"
	"strokeplot/internal/device"
	"strokeplot/internal/image"
	"strokeplot/internal/preview"
	"strokeplot/internal/project"
	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
	"strokeplot/internal/transform"
	"strokeplot/pkg/geometry"
)

// Job is a fully planned plot: trajectories in device units and the command
// stream that draws them. A Job is not modified after Plan returns.
type Job struct {
	layer        *image.Layer
	cfg          config.Config
	trajectories []trace.Trajectory
	commands     []toolpath.Command
	stats        toolpath.Stats
}

// Snapshot is a read-only view of the final trajectories for visualization.
type Snapshot struct {
	Trajectories []trace.Trajectory
	Extent       geometry.Extent
}

// PlanFile loads the image at path and plans it.
func PlanFile(path string, cfg config.Config) (*Job, error) {
	layer, err := image.Load(path)
	if err != nil {
		return nil, err
	}
	return Plan(layer, cfg)
}

// Plan runs segmentation, contour tracing, flipping, scaling and encoding.
func Plan(layer *image.Layer, cfg config.Config) (*Job, error) {
	// Step 1: Trajectories in bottom-left pixel space
	pixels, err := trace.Vectorize(layer.Image, cfg.VectorizeOptions())
	if err != nil {
		return nil, fmt.Errorf("vectorize %s: %w", layer.Path, err)
	}

	// Step 2: Pixel space to device units
	scaled, err := transform.Scale(pixels, layer.Extent(), cfg.Plotter.Units)
	if err != nil {
		return nil, fmt.Errorf("scale %s: %w", layer.Path, err)
	}

	// Step 3: Command stream
	cmds := toolpath.Encode(scaled, cfg.EncodeOptions())
	stats := toolpath.Summarize(cmds)

	log.Info().
		Str("image", layer.Path).
		Int("width", layer.Width()).
		Int("height", layer.Height()).
		Int("trajectories", len(scaled)).
		Int("commands", len(cmds)).
		Int("color_changes", stats.ColorChanges).
		Float64("pen_down", stats.PenDownDistance).
		Float64("travel", stats.TravelDistance).
		Msg("job planned")

	return &Job{
		layer:        layer,
		cfg:          cfg,
		trajectories: scaled,
		commands:     cmds,
		stats:        stats,
	}, nil
}

// Snapshot returns a copy of the final trajectory list and its extent.
func (j *Job) Snapshot() Snapshot {
	return Snapshot{
		Trajectories: trace.Clone(j.trajectories),
		Extent:       j.cfg.Plotter.Units,
	}
}

// Commands returns a copy of the command stream.
func (j *Job) Commands() []toolpath.Command {
	return append([]toolpath.Command(nil), j.commands...)
}

// Stats returns the command stream summary.
func (j *Job) Stats() toolpath.Stats {
	return j.stats
}

// Print writes the command stream, one protocol line per command.
func (j *Job) Print(w io.Writer) error {
	for _, c := range j.commands {
		if _, err := fmt.Fprintln(w, c.Line()); err != nil {
			return err
		}
	}
	return nil
}

// Send streams the command stream to the device, logging its feedback.
// It returns the number of commands acknowledged.
func (j *Job) Send(ctx context.Context, s device.Sender) (int, error) {
	return device.Stream(ctx, s, j.commands, func(i int, cmd toolpath.Command, lines []string) {
		for _, l := range lines {
			log.Info().Int("index", i).Str("cmd", cmd.Line()).Msg(l)
		}
	})
}

// Export writes the job file to path.
func (j *Job) Export(path string) error {
	job := project.New(j.trajectories, j.commands)
	job.Source = j.layer.Extent()
	job.Device = j.cfg.Plotter.Units
	job.ContourMode = j.cfg.Vectorize.ContourMode
	job.FirstPoint = j.cfg.Vectorize.FirstPoint
	job.SetImage(path, j.layer.Path)
	if err := job.Save(path); err != nil {
		return fmt.Errorf("export job: %w", err)
	}
	log.Info().Str("path", path).Msg("job exported")
	return nil
}

// Preview renders the snapshot to an .svg or .png file.
func (j *Job) Preview(path string) error {
	snap := j.Snapshot()
	if err := preview.WriteFile(path, snap.Trajectories, snap.Extent); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("preview written")
	return nil
}
