package handler

import (
	"net/http"

	"github.com/RenatoCabral2022/spirit/internal/model"
)

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Health{
		Status:     "ok",
		Categories: len(h.catalog.Categories()),
		Workers:    h.runner.Workers(),
	})
}
