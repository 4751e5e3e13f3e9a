package basemap

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"geoheat/pkg/geometry"
)

// worldExtensions maps image extensions to their world file counterparts.
var worldExtensions = map[string]string{
	".png":  ".pgw",
	".jpg":  ".jgw",
	".jpeg": ".jgw",
	".tif":  ".tfw",
	".tiff": ".tfw",
}

// worldFilePath returns the path of an existing world file sidecar for the
// image, or "".
func worldFilePath(imagePath string) string {
	ext := strings.ToLower(filepath.Ext(imagePath))
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))

	candidates := []string{base + ext + "w"}
	if w, ok := worldExtensions[ext]; ok {
		candidates = append(candidates, base+w)
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// readWorldFile parses an ESRI world file: six lines holding the affine
// parameters A, D, B, E, C, F where A/E are the pixel sizes (E negative for
// north-up images) and C/F the geographic coordinates of the center of the
// top-left pixel.
func readWorldFile(path string, width, height int) (geometry.Bounds, error) {
	file, err := os.Open(path)
	if err != nil {
		return geometry.Bounds{}, fmt.Errorf("failed to open world file: %w", err)
	}
	defer file.Close()

	var params []float64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(params) < 6 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return geometry.Bounds{}, fmt.Errorf("invalid world file value %q: %w", line, err)
		}
		params = append(params, v)
	}
	if err := scanner.Err(); err != nil {
		return geometry.Bounds{}, err
	}
	if len(params) != 6 {
		return geometry.Bounds{}, fmt.Errorf("world file %s has %d values, want 6", path, len(params))
	}

	a, d, b, e, c, f := params[0], params[1], params[2], params[3], params[4], params[5]
	if d != 0 || b != 0 {
		return geometry.Bounds{}, fmt.Errorf("world file %s describes a rotated image", path)
	}
	if a <= 0 || e >= 0 {
		return geometry.Bounds{}, fmt.Errorf("world file %s is not a north-up registration", path)
	}

	minX := c - a/2
	maxY := f - e/2
	return geometry.Bounds{
		MinX: minX,
		MaxX: minX + a*float64(width),
		MinY: maxY + e*float64(height),
		MaxY: maxY,
	}, nil
}
