package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RenatoCabral2022/spirit/internal/catalog"
	"github.com/RenatoCabral2022/spirit/internal/model"
)

func summary(c catalog.Category) model.CategorySummary {
	return model.CategorySummary{Command: c.Command, Display: c.Display, Count: len(c.Frequencies)}
}

// ListCatalog handles GET /v1/catalog.
func (h *Handlers) ListCatalog(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	out := make([]model.CategorySummary, len(cats))
	for i, c := range cats {
		out[i] = summary(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCategory handles GET /v1/catalog/{command}.
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	command := chi.URLParam(r, "command")
	c, ok := h.catalog.Category(command)
	if !ok {
		writeError(w, http.StatusNotFound, "", fmt.Sprintf("unknown category %q", command))
		return
	}
	detail := model.CategoryDetail{CategorySummary: summary(c)}
	for _, e := range c.Frequencies {
		detail.Frequencies = append(detail.Frequencies, model.Frequency{
			Hz:          e.Hz,
			Name:        e.Name,
			Description: e.Description,
		})
	}
	writeJSON(w, http.StatusOK, detail)
}
