// Package main provides the entry point for the GeoHeat viewer.
package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"geoheat/internal/app"
	"geoheat/internal/basemap"
	"geoheat/internal/heatmap"
	"geoheat/internal/version"
	"geoheat/ui/mapview"
	"geoheat/ui/prefs"
)

const appTitle = "GeoHeat"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	state, err := app.NewState()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	appPrefs := prefs.Load()

	// Handle command line arguments: a project file, a GeoJSON feature
	// file, and/or a basemap image, in any order. With no arguments the
	// last opened project is restored.
	args := os.Args[1:]
	if len(args) == 0 {
		if last := appPrefs.String(prefs.KeyLastProject); last != "" {
			args = []string{last}
		}
	}
	for _, arg := range args {
		switch ext := strings.ToLower(filepath.Ext(arg)); {
		case ext == ".heatproj":
			if err := state.LoadProject(arg); err != nil {
				log.Printf("Failed to load project %s: %v", arg, err)
			}
		case ext == ".geojson" || ext == ".json":
			if err := state.LoadFeatures(arg); err != nil {
				log.Printf("Failed to load features %s: %v", arg, err)
			}
		case basemap.IsSupportedFormat(arg):
			if err := state.LoadBasemap(arg); err != nil {
				log.Printf("Failed to load basemap %s: %v", arg, err)
			}
		default:
			log.Printf("Ignoring unrecognized argument %s", arg)
		}
	}

	fa := fyneapp.New()
	fa.Settings().SetTheme(&app.GeoHeatTheme{})
	win := fa.NewWindow(appTitle)

	view := mapview.New(state.FitBounds())
	view.SetBasemap(state.Basemap)
	if err := state.Layer.Attach(view); err != nil {
		log.Fatalf("Failed to attach heat layer: %v", err)
	}
	state.Layer.On(heatmap.EventRenderCompleted, func(interface{}) {
		view.Refresh()
	})

	setupKeys(win, view, state)
	setupHotReload()

	win.SetContent(view)
	win.Resize(fyne.NewSize(
		float32(appPrefs.Float(prefs.KeyWindowWidth, 1024)),
		float32(appPrefs.Float(prefs.KeyWindowHeight, 768)),
	))
	win.SetCloseIntercept(func() {
		size := win.Canvas().Size()
		appPrefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		appPrefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		if state.ProjectPath != "" {
			appPrefs.SetString(prefs.KeyLastProject, state.ProjectPath)
		}
		if err := appPrefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		win.Close()
	})
	win.ShowAndRun()
}

// setupKeys binds the keyboard shortcuts: +/- zoom, arrows rotate, 0 resets
// the bearing, H toggles the heat overlay, S saves the open project.
func setupKeys(win fyne.Window, view *mapview.MapView, state *app.State) {
	visible := true
	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyPlus, fyne.KeyEqual:
			view.ZoomIn()
		case fyne.KeyMinus:
			view.ZoomOut()
		case fyne.KeyLeft:
			view.RotateLeft()
		case fyne.KeyRight:
			view.RotateRight()
		case fyne.Key0:
			view.ResetBearing()
		case fyne.KeyH:
			visible = !visible
			state.Layer.SetVisibility(visible)
			view.Refresh()
		case fyne.KeyS:
			if state.ProjectPath == "" {
				log.Println("No project file open, nothing to save")
				return
			}
			state.SetViewBounds(view.Bounds())
			if err := state.SaveProject(state.ProjectPath); err != nil {
				log.Printf("Failed to save project: %v", err)
			}
		}
	})
}

// setupHotReload watches the binary during development sessions.
func setupHotReload() {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))
	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected, restart to pick it up")
	})
	reloader.Start()
}
