package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"imagegw/internal/domain"
	"imagegw/internal/imagegen"
)

// maxRequestBody bounds the generation request body.
const maxRequestBody = 1 << 20

type generationResponse struct {
	Created int64            `json:"created"`
	Data    []imagegen.Image `json:"data"`
}

// ImagesGenerate handles POST /v1/images/generations. Validation errors are
// returned before any provider call; any provider failure fails the whole
// batch with a single ai_service_error.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imagegen.GenerationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("decode generation request")
		a.error(w, domain.Internal(err.Error()))
		return
	}

	plan, err := a.Normalizer.Prepare(req)
	if err != nil {
		a.error(w, err)
		return
	}

	images, err := a.Generator.Generate(r.Context(), plan)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("model", plan.Model.ID).Int("n", plan.N).Msg("image generation failed")
		if !imagegen.IsProviderError(err) {
			a.error(w, domain.Internal(err.Error()))
			return
		}
		a.error(w, domain.ServiceFailure(err))
		return
	}
	if a.Recorder != nil {
		a.Recorder.RecordImages(plan.Model.ID, string(plan.Format), len(images))
	}
	a.json(w, http.StatusOK, generationResponse{Created: a.now().Unix(), Data: images})
}

// ImagesEdit is intentionally unimplemented.
func (a *App) ImagesEdit(w http.ResponseWriter, r *http.Request) {
	a.error(w, domain.NotImplemented("Image editing endpoint not implemented yet"))
}

// ImagesVariation is intentionally unimplemented.
func (a *App) ImagesVariation(w http.ResponseWriter, r *http.Request) {
	a.error(w, domain.NotImplemented("Image variations endpoint not implemented yet"))
}
