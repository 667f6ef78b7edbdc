package trace

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
)

// VectorizeOptions configures color segmentation and contour tracing.
type VectorizeOptions struct {
	Mode  ContourMode // Which boundaries become strokes
	Order []Color     // Colors are traced, and strokes concatenated, in this order
}

// DefaultVectorizeOptions returns the full-hierarchy mode and RED, GREEN, BLUE order.
func DefaultVectorizeOptions() VectorizeOptions {
	return VectorizeOptions{
		Mode:  ContourTree,
		Order: DefaultColorOrder(),
	}
}

// Vectorize converts an image into color-tagged trajectories in a
// bottom-left-origin pixel space. A color with no matching pixels
// contributes nothing.
func Vectorize(img image.Image, opts VectorizeOptions) ([]Trajectory, error) {
	if err := ValidateOrder(opts.Order); err != nil {
		return nil, err
	}
	height := img.Bounds().Dy()

	var trajectories []Trajectory
	for _, c := range opts.Order {
		// Step 1: Exact-match membership mask
		mask := Segment(img, c)

		// Step 2: Trace region boundaries
		contours, err := ExtractContours(mask, opts.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to trace %s: %w", c, err)
		}

		// Step 3: Flip into plotter orientation
		built, err := Build(height, c, contours)
		if err != nil {
			return nil, err
		}

		log.Debug().
			Str("color", c.Token()).
			Int("pixels", mask.Count()).
			Int("contours", len(contours)).
			Msg("vectorized color")

		trajectories = append(trajectories, built...)
	}

	return trajectories, nil
}
