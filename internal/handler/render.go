package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/metrics"
	"github.com/RenatoCabral2022/spirit/internal/middleware"
	"github.com/RenatoCabral2022/spirit/internal/model"
	"github.com/RenatoCabral2022/spirit/internal/render"
	"github.com/RenatoCabral2022/spirit/internal/synth"
)

const maxRequestBody = 64 << 10

func (h *Handlers) renderPath(id string) string {
	return filepath.Join(h.outputDir, "renders", id+".wav")
}

// specFromRequest maps a request body to a spec and mode. Errors are client
// errors.
func specFromRequest(req model.RenderRequest) (render.FrequencySpec, render.Mode, error) {
	var spec render.FrequencySpec
	hint, err := render.ParseHint(req.Hint)
	if err != nil {
		return spec, "", err
	}
	mode, err := render.ParseMode(req.Mode)
	if err != nil {
		return spec, "", err
	}
	spec = render.FrequencySpec{
		TargetHz:  req.Frequency,
		Label:     req.Label,
		Category:  "api",
		Hint:      hint,
		Seed:      req.Seed,
		EndHz:     req.EndFrequency,
		CarrierHz: req.Carrier,
		Drift:     req.Drift,
	}
	if spec.Label == "" {
		spec.Label = hint.String()
	}
	if hint == render.HintNoise && req.Noise != "" {
		if spec.Noise, err = synth.ParseColor(req.Noise); err != nil {
			return spec, "", err
		}
	}
	if spec.Curve, err = synth.ParseCurve(req.Curve); err != nil {
		return spec, "", err
	}
	if spec.Gate, err = synth.ParseGate(req.Gate); err != nil {
		return spec, "", err
	}
	if hint == render.HintDrone && len(req.Layers) > 0 {
		if spec.TargetHz == 0 {
			spec.TargetHz = req.Layers[0]
		}
		spec.Partials = synth.LayerPartials(req.Layers)
	}
	return spec, mode, nil
}

func statusFor(err error) int {
	switch render.KindOf(err) {
	case render.KindConfiguration:
		return http.StatusBadRequest
	case render.KindSynthesis:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// CreateRender handles POST /v1/renders.
// Renders synchronously and returns where to download the file.
func (h *Handlers) CreateRender(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(zap.String("requestId", middleware.GetRequestID(r.Context())))

	var req model.RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		metrics.RenderRequestsTotal.WithLabelValues("400").Inc()
		writeError(w, http.StatusBadRequest, render.KindConfiguration.String(), "invalid request body: "+err.Error())
		return
	}

	seconds := req.Duration
	if seconds == 0 {
		seconds = h.duration
	}
	if h.maxDuration > 0 && seconds > h.maxDuration {
		metrics.RenderRequestsTotal.WithLabelValues("400").Inc()
		writeError(w, http.StatusBadRequest, render.KindConfiguration.String(),
			fmt.Sprintf("duration %d s exceeds the %d s limit", seconds, h.maxDuration))
		return
	}

	spec, mode, err := specFromRequest(req)
	if err != nil {
		metrics.RenderRequestsTotal.WithLabelValues("400").Inc()
		writeError(w, http.StatusBadRequest, render.KindConfiguration.String(), err.Error())
		return
	}

	id := uuid.NewString()
	job := batch.Job{ID: id, Spec: spec, Mode: mode, Seconds: seconds, Stereo: req.Stereo, Path: h.renderPath(id)}
	res := h.runner.Run(r.Context(), []batch.Job{job}).Results[0]
	if res.Err != nil {
		status := statusFor(res.Err)
		metrics.RenderRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		logger.Warn("render request failed", zap.String("render", id), zap.Error(res.Err))
		writeError(w, status, render.KindOf(res.Err).String(), res.Err.Error())
		return
	}

	metrics.RenderRequestsTotal.WithLabelValues("201").Inc()
	writeJSON(w, http.StatusCreated, model.RenderResponse{
		RenderID:  id,
		Generator: res.Generator,
		Channels:  res.Channels,
		Duration:  seconds,
		Bytes:     res.Bytes,
		Seed:      res.Seed,
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000.0,
		URL:       "/v1/renders/" + id,
	})
}

// GetRender handles GET /v1/renders/{renderId}.
func (h *Handlers) GetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "renderId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "", "render not found")
		return
	}
	f, err := os.Open(h.renderPath(id))
	if err != nil {
		writeError(w, http.StatusNotFound, "", "render not found")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, render.KindIO.String(), err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.wav"`, id))
	http.ServeContent(w, r, id+".wav", info.ModTime(), f)
}

// DeleteRender handles DELETE /v1/renders/{renderId}.
func (h *Handlers) DeleteRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "renderId")
	if _, err := uuid.Parse(id); err == nil {
		os.Remove(h.renderPath(id)) // best-effort
	}
	w.WriteHeader(http.StatusNoContent)
}
