// Command heatsnap renders a GeoJSON point set as a heat-map PNG snapshot.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"geoheat/internal/basemap"
	"geoheat/internal/feature"
	"geoheat/internal/heatmap"
	"geoheat/internal/version"
	"geoheat/internal/viewport"
	"geoheat/pkg/geometry"
)

func main() {
	input := flag.String("input", "", "Path to GeoJSON point features")
	output := flag.String("output", "heatmap.png", "Output PNG path")
	configPath := flag.String("config", "", "Optional TOML configuration file")
	width := flag.Int("width", 1024, "Output width in pixels")
	height := flag.Int("height", 768, "Output height in pixels")
	boundsSpec := flag.String("bounds", "", "View bounds minLon,minLat,maxLon,maxLat (default: fit to features)")
	basemapPath := flag.String("basemap", "", "Optional georeferenced basemap image")
	legend := flag.Bool("legend", false, "Draw a gradient legend bar")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("heatsnap %s\n", version.String())
		return
	}

	if *input == "" {
		fmt.Println("Usage: heatsnap -input <points.geojson> [-output heatmap.png] [-config run.toml]")
		fmt.Println("       [-width 1024] [-height 768] [-bounds minLon,minLat,maxLon,maxLat]")
		fmt.Println("       [-basemap map.png] [-legend]")
		os.Exit(1)
	}

	cfg := heatmap.DefaultConfig()
	var runCfg *RunConfig
	if *configPath != "" {
		var err error
		runCfg, err = LoadRunConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg, err = runCfg.Apply(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}
	points, err := feature.DecodeGeoJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode features: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d point features\n", len(points))

	view, err := resolveBounds(*boundsSpec, runCfg, points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("View: lon [%.4f, %.4f] lat [%.4f, %.4f] at %dx%d\n",
		view.MinX, view.MaxX, view.MinY, view.MaxY, *width, *height)

	host := viewport.NewOffscreen(view, *width, *height)

	var bm *basemap.Basemap
	if *basemapPath != "" {
		bm, err = basemap.Load(*basemapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load basemap: %v\n", err)
			os.Exit(1)
		}
		if !bm.Registered() {
			fmt.Fprintln(os.Stderr, "Basemap has no world file registration, skipping")
			bm = nil
		}
	}

	layer, err := heatmap.NewLayer("heat", cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid render configuration: %v\n", err)
		os.Exit(1)
	}
	if err := layer.Attach(host); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to attach layer: %v\n", err)
		os.Exit(1)
	}
	layer.AddFeatures(points)
	if err := layer.Refresh(); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	out := image.NewRGBA(image.Rect(0, 0, *width, *height))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.RGBA{R: 24, G: 26, B: 30, A: 255}}, image.Point{}, draw.Src)
	if bm != nil {
		bm.Draw(out, view)
	}
	for _, id := range host.OverlayIDs() {
		host.Surface(id).CompositeOver(out)
	}
	if *legend {
		drawLegend(out, cfg.Colors)
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *output)
}

// resolveBounds picks the view bounds: the -bounds flag wins, then the TOML
// config, then a padded fit around the features.
func resolveBounds(spec string, runCfg *RunConfig, points []feature.Point) (geometry.Bounds, error) {
	if spec != "" {
		return parseBounds(spec)
	}
	if runCfg != nil && runCfg.Bounds != nil {
		b := runCfg.Bounds.toBounds()
		if b.Empty() {
			return geometry.Bounds{}, fmt.Errorf("config bounds are degenerate")
		}
		return b, nil
	}
	if len(points) == 0 {
		return geometry.Bounds{}, fmt.Errorf("no features and no explicit bounds")
	}
	b := geometry.NewBounds(points[0].Lon, points[0].Lat, points[0].Lon, points[0].Lat)
	for _, p := range points[1:] {
		b = b.Extend(geometry.NewPoint2D(p.Lon, p.Lat))
	}
	if b.Empty() {
		b = geometry.NewBounds(b.MinX-1, b.MinY-1, b.MaxX+1, b.MaxY+1)
	}
	return b.Pad(0.1), nil
}

func parseBounds(spec string) (geometry.Bounds, error) {
	var b geometry.Bounds
	n, err := fmt.Sscanf(spec, "%f,%f,%f,%f", &b.MinX, &b.MinY, &b.MaxX, &b.MaxY)
	if err != nil || n != 4 {
		return geometry.Bounds{}, fmt.Errorf("invalid bounds %q, want minLon,minLat,maxLon,maxLat", spec)
	}
	if b.Empty() {
		return geometry.Bounds{}, fmt.Errorf("bounds %q are degenerate", spec)
	}
	return b, nil
}
