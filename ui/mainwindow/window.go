// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"nifti-viewer/internal/config"
	"nifti-viewer/internal/nifti"
	"nifti-viewer/internal/version"
	"nifti-viewer/internal/viewer"
	"nifti-viewer/internal/volume"
	"nifti-viewer/ui/panels"
	"nifti-viewer/ui/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *viewer.State
	playback *viewer.PlaybackController
	cfg      *config.Config

	sliceViews [viewer.NumPlanes]*views.SliceView
	volumeView *views.VolumeView
	controls   *panels.ControlPanel
	statusBar  *widget.Label
	loadBtn    *widget.Button

	stopTicker chan struct{}
}

// New creates a new main window.
func New(fyneApp fyne.App, state *viewer.State, playback *viewer.PlaybackController, cfg *config.Config) *MainWindow {
	win := fyneApp.NewWindow("NIfTI Viewer")

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		state:      state,
		playback:   playback,
		cfg:        cfg,
		stopTicker: make(chan struct{}),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.startCrosshairTicker()

	win.SetOnClosed(func() {
		close(mw.stopTicker)
		mw.playback.StopAll()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	labelW := mw.cfg.Display.LabelWidth
	labelH := mw.cfg.Display.LabelHeight
	for _, p := range viewer.Planes {
		mw.sliceViews[p] = views.NewSliceView(mw.state, p, labelW, labelH)
	}
	mw.volumeView = views.NewVolumeView(mw.state, mw.cfg.Rendering.FrameWidth, mw.cfg.Rendering.FrameHeight)

	mw.controls = panels.NewControlPanel(mw.state, mw.playback)
	mw.statusBar = widget.NewLabel("Ready")

	sliceGrid := container.NewGridWithColumns(viewer.NumPlanes,
		mw.sliceViews[viewer.PlaneAxial],
		mw.sliceViews[viewer.PlaneCoronal],
		mw.sliceViews[viewer.PlaneSagittal],
	)

	split := container.NewHSplit(
		container.NewVScroll(mw.controls.Container()),
		sliceGrid,
	)
	split.SetOffset(0.25)

	tabs := container.NewAppTabs(
		container.NewTabItem("2D Viewer", split),
		container.NewTabItem("3D Renderer", mw.volumeView),
	)

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		tabs,                              // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with the load action.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.loadBtn = widget.NewButton("Load Volume...", mw.onOpenVolume)
	return container.NewHBox(mw.loadBtn)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Volume...", mw.onOpenVolume),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for viewer state events. Listeners fire on
// whatever goroutine mutated the state (decode worker, playback ticker), so
// every widget update is marshalled onto the UI loop with fyne.Do.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(viewer.EventVolumeLoaded, func(data interface{}) {
		vol, _ := data.(*volume.Volume)
		fyne.Do(func() {
			mw.refreshSliceViews()
			if err := mw.volumeView.SetVolume(); err != nil {
				dialog.ShowError(fmt.Errorf("3D rendering unavailable: %w", err), mw.Window)
			}
			mw.volumeView.Refresh()
			mw.loadBtn.Enable()
			if vol != nil {
				d := vol.Dims()
				mw.updateStatus(fmt.Sprintf("Loaded %s volume, %dx%dx%d", vol.Type(), d[0], d[1], d[2]))
			}
		})
	})

	mw.state.On(viewer.EventLoadFailed, func(data interface{}) {
		fyne.Do(func() {
			mw.loadBtn.Enable()
			mw.updateStatus("Load failed")
			if err, ok := data.(error); ok && err != nil {
				dialog.ShowError(err, mw.Window)
			}
		})
	})

	// A slice change in one plane moves the crosshair target for the others,
	// so every view redraws on any of these.
	redraw := func(interface{}) {
		fyne.Do(mw.refreshSliceViews)
	}
	mw.state.On(viewer.EventSliceChanged, redraw)
	mw.state.On(viewer.EventDisplayChanged, redraw)
	mw.state.On(viewer.EventCrosshairMoved, redraw)
}

// startCrosshairTicker periodically repaints the slice views while a
// crosshair is visible so the overlay stays in sync with slider changes.
func (mw *MainWindow) startCrosshairTicker() {
	interval := mw.cfg.CrosshairRefresh()
	if interval <= 0 {
		interval = 30 * time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-mw.stopTicker:
				return
			case <-ticker.C:
				if _, ok := mw.state.Crosshair(); ok {
					fyne.Do(mw.refreshSliceViews)
				}
			}
		}
	}()
}

func (mw *MainWindow) refreshSliceViews() {
	for _, sv := range mw.sliceViews {
		sv.Refresh()
	}
}

// onOpenVolume shows the file picker and starts a background load.
func (mw *MainWindow) onOpenVolume() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		mw.saveLastDir(reader.URI().Path())
		mw.loadVolume(reader)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".nii", ".gz"}))
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

// loadVolume decodes a volume off the UI goroutine. The load button stays
// disabled until FinishLoad fires one of the load events.
func (mw *MainWindow) loadVolume(reader fyne.URIReadCloser) {
	if err := mw.state.BeginLoad(); err != nil {
		reader.Close()
		mw.updateStatus(err.Error())
		return
	}

	name := reader.URI().Name()
	mw.loadBtn.Disable()
	mw.updateStatus("Loading " + name + "...")

	go func() {
		defer reader.Close()
		vol, _, err := nifti.Decode(reader)
		if err != nil {
			log.Printf("Failed to load %s: %v", name, err)
		}
		mw.state.FinishLoad(vol, err)
	}()
}

// LoadPath starts a background load of a volume file path, used for files
// given on the command line.
func (mw *MainWindow) LoadPath(path string) {
	if err := mw.state.BeginLoad(); err != nil {
		mw.updateStatus(err.Error())
		return
	}

	mw.loadBtn.Disable()
	mw.updateStatus("Loading " + filepath.Base(path) + "...")

	go func() {
		vol, _, err := nifti.Load(path)
		if err != nil {
			log.Printf("Failed to load %s: %v", path, err)
		}
		mw.state.FinishLoad(vol, err)
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About NIfTI Viewer",
		fmt.Sprintf("NIfTI Viewer v%s\n\nOrthogonal slice viewer and volume renderer\nfor NIfTI-1 medical images.", version.Version),
		mw.Window)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}
