// Package app is the frame driver: it owns the window, samples the attitude
// source once per tick and renders the HUD every frame.
package app

import (
	"context"
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"elrs-hud/internal/config"
	"elrs-hud/internal/flight"
	"elrs-hud/internal/hud"
	"elrs-hud/internal/screen"
)

// App is the main application
type App struct {
	cfg      config.Config
	source   flight.Source
	renderer *hud.Renderer
	faces    *screen.Faces
	ctx      context.Context

	attitude flight.Attitude
	lastErr  error
}

// New creates an application rendering attitudes from source.
func New(cfg config.Config, source flight.Source) *App {
	return &App{
		cfg:      cfg,
		source:   source,
		renderer: hud.NewRenderer(cfg.HUD),
		faces:    screen.NewFaces(),
		ctx:      context.Background(),
	}
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx

	w := a.cfg.Window
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowDecorated(w.Decorated)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(w.TPS)

	log.Printf("app: %dx%d @ %d TPS, decorated=%v transparent=%v", w.Width, w.Height, w.TPS, w.Decorated, w.Transparent)
	return ebiten.RunGameWithOptions(a, &ebiten.RunGameOptions{
		ScreenTransparent: w.Transparent,
	})
}

// Update advances the attitude once per tick.
func (a *App) Update() error {
	if a.ctx.Err() != nil {
		log.Println("app: shutting down")
		return ebiten.Termination
	}
	a.tick()
	return nil
}

// tick samples the source. On error the previous attitude is kept; each
// distinct failure is logged once.
func (a *App) tick() {
	att, err := a.source.Sample()
	if err != nil {
		if a.lastErr == nil || !errors.Is(err, a.lastErr) {
			log.Printf("app: attitude source: %v (holding last attitude)", err)
		}
		a.lastErr = err
		return
	}
	if a.lastErr != nil {
		log.Println("app: attitude source recovered")
		a.lastErr = nil
	}
	a.attitude = att
}

// Attitude returns the attitude the next frame will show.
func (a *App) Attitude() flight.Attitude {
	return a.attitude
}

// Draw clears the frame to transparent black and renders the HUD.
func (a *App) Draw(dst *ebiten.Image) {
	dst.Clear()
	b := dst.Bounds()
	a.render(screen.NewCanvas(dst, a.faces), b.Dx(), b.Dy())
}

func (a *App) render(c hud.Canvas, width, height int) {
	a.renderer.Draw(c, a.attitude, width, height)
}

// Layout returns the screen dimensions
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
