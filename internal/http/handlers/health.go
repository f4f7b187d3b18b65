package handlers

import (
	"net/http"

	"imagegw/internal/domain"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown paths and known paths hit with the wrong method.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, domain.RouteNotFound())
}
