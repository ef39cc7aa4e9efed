// Package app runs the viewer: window, input, file watching and the render loop.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/screenshot"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/internal/watch"
	"github.com/Faultbox/meshview/pkg/math"
)

const appTitle = "MeshView"

// App is the running viewer instance.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	view     *viewer.Context
	watcher  *watch.Watcher
	shots    *screenshot.Writer

	wantShot      bool
	lastRenderErr string
	fps           int
}

// FrameSettings converts the viewer config into projection and light inputs.
func FrameSettings(cfg config.ViewerConfig) viewer.FrameSettings {
	return viewer.FrameSettings{
		FovY:     cfg.FovDegrees * math32.Pi / 180,
		Near:     cfg.Near,
		Far:      cfg.Far,
		LightDir: math.Vec3FromArray(cfg.Light),
	}
}

// New creates the window, GL renderer and viewer context, then loads the
// initial mesh.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("model", cfg.Viewer.Model),
	)

	a := &App{config: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      appTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: cfg.Graphics.Background,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = screenshot.NewWriter(cfg.Viewer.ScreenshotDir, "meshview")

	a.view = viewer.NewContext(a.renderer, viewer.Options{
		Frame:   FrameSettings(cfg.Viewer),
		Initial: viewer.DefaultState(),
	})
	a.view.Resize(dw, dh)

	if err := a.loadInitial(); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Viewer.Watch && cfg.Viewer.Model != "" {
		a.watch(cfg.Viewer.Model)
	}

	a.updateTitle()
	logger.Info("viewer initialized successfully")
	return a, nil
}

// loadInitial shows the configured model, falling back to the cube so the
// window always has something to draw.
func (a *App) loadInitial() error {
	if path := a.config.Viewer.Model; path != "" {
		if err := a.view.ReloadFile(path); err == nil {
			return nil
		}
		logger.Warn("showing default cube instead", zap.String("model", path))
	}
	if err := a.view.LoadDefault(); err != nil {
		return fmt.Errorf("failed to load default mesh: %w", err)
	}
	return nil
}

func (a *App) watch(path string) {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	w, err := watch.New(path)
	if err != nil {
		logger.Warn("file watching disabled", zap.String("path", path), zap.Error(err))
		return
	}
	a.watcher = w
}

// Run starts the main loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for a.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents(a.input.Events())
		a.drainWatcher()

		a.view.Dispatch()
		a.render()
		if a.wantShot {
			a.wantShot = false
			a.capture()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.fps = frameCount
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
			if a.config.Viewer.ShowFPS {
				a.updateTitle()
			}
		}

		a.limitFrameRate(frameStart)
	}

	return nil
}

func (a *App) handleEvents(events []input.Event) {
	changed := false
	for _, ev := range events {
		switch ev.Type {
		case input.EventWindowResize:
			w, h := a.window.DrawableSize()
			a.renderer.Resize(w, h)
			a.view.Resize(w, h)

		case input.EventDropFile:
			if a.view.ReloadFile(ev.Path) == nil {
				a.config.Viewer.Model = ev.Path
				if a.config.Viewer.Watch {
					a.watch(ev.Path)
				}
				changed = true
			}

		default:
			switch command(ev) {
			case cmdQuit:
				a.running = false
			case cmdReset:
				a.view.Reset()
			case cmdScreenshot:
				a.wantShot = true
			default:
				if vev, ok := Translate(ev); ok {
					a.view.Push(vev)
				}
			}
		}
	}
	if changed {
		a.updateTitle()
	}
}

func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}
	select {
	case p, ok := <-a.watcher.Updates():
		if !ok {
			a.watcher = nil
			return
		}
		if p.Err != nil {
			logger.Warn("reading watched model failed", zap.String("path", p.Path), zap.Error(p.Err))
			return
		}
		if a.view.Reload(p.Path, p.Data) == nil {
			a.updateTitle()
		}
	default:
	}
}

func (a *App) render() {
	a.renderer.Begin()
	err := a.view.Render()

	// Minimized windows report a zero viewport every frame; log changes only.
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg != a.lastRenderErr {
		if err != nil {
			logger.Debug("frame skipped", zap.Error(err))
		}
		a.lastRenderErr = msg
	}
}

// capture saves the back buffer. It must run before SwapBuffers.
func (a *App) capture() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.shots.SavePixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", name))
}

func (a *App) limitFrameRate(frameStart time.Time) {
	limit := a.config.Graphics.FPSLimit
	if limit <= 0 {
		return
	}
	budget := time.Second / time.Duration(limit)
	if spent := time.Since(frameStart); spent < budget {
		time.Sleep(budget - spent)
	}
}

func (a *App) updateTitle() {
	info := a.view.Info()
	title := fmt.Sprintf("%s - %s (%d triangles)", appTitle, filepath.Base(info.Source), info.Triangles)
	if a.config.Viewer.ShowFPS && a.fps > 0 {
		title = fmt.Sprintf("%s - %d fps", title, a.fps)
	}
	a.window.SetTitle(title)
}

// Close releases the mesh, renderer and window in reverse creation order.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if a.view != nil {
		a.view.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
