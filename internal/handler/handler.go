package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/catalog"
	"github.com/RenatoCabral2022/spirit/internal/model"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	catalog     *catalog.Catalog
	runner      *batch.Runner
	logger      *zap.Logger
	outputDir   string
	duration    int
	maxDuration int
}

// Options configure the render API.
type Options struct {
	OutputDir       string
	DefaultDuration int
	MaxDuration     int
}

// NewHandlers creates handlers that render into opts.OutputDir/renders.
func NewHandlers(cat *catalog.Catalog, runner *batch.Runner, logger *zap.Logger, opts Options) *Handlers {
	return &Handlers{
		catalog:     cat,
		runner:      runner,
		logger:      logger,
		outputDir:   opts.OutputDir,
		duration:    opts.DefaultDuration,
		maxDuration: opts.MaxDuration,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Kind: kind})
}
