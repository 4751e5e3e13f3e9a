package heatmap

import (
	"errors"
)

// Errors reported by the rendering pipeline.
var (
	// ErrInvalidConfig marks an unusable render configuration, such as an
	// empty color ramp or a non-positive radius at render time. A render
	// that hits it is skipped; any previously presented raster stays shown.
	ErrInvalidConfig = errors.New("heatmap: invalid render configuration")

	// ErrViewportUnready marks a render requested before the host viewport
	// is attached or while its pixel dimensions are degenerate. The render
	// is a no-op, not a failure.
	ErrViewportUnready = errors.New("heatmap: viewport not ready")
)
