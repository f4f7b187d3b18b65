package handlers

import (
	"net/http"

	"imagegw/internal/catalog"
)

type modelList struct {
	Object string                `json:"object"`
	Data   []catalog.PublicModel `json:"data"`
}

type serviceInfo struct {
	Message         string            `json:"message"`
	Version         string            `json:"version"`
	Endpoints       map[string]string `json:"endpoints"`
	SupportedModels []string          `json:"supported_models"`
	ModelLimits     map[string]int    `json:"model_limits"`
}

// Models lists public model ids. Provider references are never included.
func (a *App) Models(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, modelList{Object: "list", Data: a.Registry.List()})
}

// Root describes the service.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, serviceInfo{
		Message: "Cloudflare Worker AI - OpenAI Compatible Image Generation API",
		Version: a.Version,
		Endpoints: map[string]string{
			"models":   "GET /v1/models",
			"generate": "POST /v1/images/generations",
		},
		SupportedModels: a.Registry.IDs(),
		ModelLimits:     a.Registry.Limits(),
	})
}
