package handlers

import (
	"context"
	"net/http"
	"time"

	"imagegw/internal/catalog"
	"imagegw/internal/http/render"
	"imagegw/internal/imagegen"
)

// ImageGenerator runs a validated plan against the provider.
type ImageGenerator interface {
	Generate(ctx context.Context, plan imagegen.Plan) ([]imagegen.Image, error)
}

// ImageRecorder counts images handed back to clients.
type ImageRecorder interface {
	RecordImages(model, format string, n int)
}

// App carries the dependencies shared by all handlers.
type App struct {
	Registry   *catalog.Registry
	Normalizer *imagegen.Normalizer
	Generator  ImageGenerator
	Recorder   ImageRecorder
	Version    string

	now func() time.Time
}

func NewApp(registry *catalog.Registry, normalizer *imagegen.Normalizer, generator ImageGenerator, recorder ImageRecorder) *App {
	return &App{
		Registry:   registry,
		Normalizer: normalizer,
		Generator:  generator,
		Recorder:   recorder,
		Version:    "1.0.0",
		now:        time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	render.JSON(w, code, v)
}

func (a *App) error(w http.ResponseWriter, err error) {
	render.Error(w, err)
}
