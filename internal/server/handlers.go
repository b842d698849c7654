package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/pipeline"
)

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    int       `json:"uptime_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// LayoutRequest carries image dimensions and layout parameters inline.
// GapFraction is a pointer so an explicit "gap_fraction": 0 is kept apart
// from an omitted field, which falls back to the default.
type LayoutRequest struct {
	Images        []layout.Image `json:"images"`
	PixelsPerInch float64        `json:"pixels_per_inch,omitempty"`
	GapFraction   *float64       `json:"gap_fraction,omitempty"`
	CurveFraction float64        `json:"curve_fraction,omitempty"`
	ImagesPerRow  int            `json:"images_per_row,omitempty"`
}

// LayoutResponse carries the computed transforms.
type LayoutResponse struct {
	Transforms map[string]layout.Transform `json:"transforms"`
	Count      int                         `json:"count"`
	CacheHit   bool                        `json:"cache_hit"`
	RequestID  string                      `json:"request_id,omitempty"`
}

// ArrangeResponse carries rendered artifacts. Artifact bytes are base64 in
// the JSON encoding.
type ArrangeResponse struct {
	SequenceHash string             `json:"sequence_hash"`
	ImageCount   int                `json:"image_count"`
	Artifacts    map[string][]byte  `json:"artifacts"`
	CacheInfo    pipeline.CacheInfo `json:"cache_info"`
	RequestID    string             `json:"request_id,omitempty"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Timestamp: time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, req *http.Request) {
	requestID := requestID(req)

	var body LayoutRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON in request body", requestID)
		return
	}
	if len(body.Images) == 0 {
		s.writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidParameter),
			"images is required", requestID)
		return
	}

	opts := pipeline.Options{
		Images:        body.Images,
		PixelsPerInch: body.PixelsPerInch,
		GapFraction:   body.GapFraction,
		CurveFraction: body.CurveFraction,
		ImagesPerRow:  body.ImagesPerRow,
		Logger:        s.logger,
	}
	opts.SetLayoutDefaults()

	seq, err := pipeline.Probe(req.Context(), opts)
	if err != nil {
		s.writePipelineError(w, err, requestID)
		return
	}
	transforms, hit, err := s.runner.ComputeLayoutWithCacheInfo(req.Context(), seq, opts)
	if err != nil {
		s.writePipelineError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		Transforms: transforms,
		Count:      len(transforms),
		CacheHit:   hit,
		RequestID:  requestID,
	})
}

func (s *Server) handleArrange(w http.ResponseWriter, req *http.Request) {
	requestID := requestID(req)

	var opts pipeline.Options
	if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON in request body", requestID)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.writePipelineError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, ArrangeResponse{
		SequenceHash: result.SequenceHash,
		ImageCount:   result.Stats.ImageCount,
		Artifacts:    result.Artifacts,
		CacheInfo:    result.CacheInfo,
		RequestID:    requestID,
	})
}

// writePipelineError maps pipeline error codes onto HTTP status codes.
func (s *Server) writePipelineError(w http.ResponseWriter, err error, requestID string) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidParameter, errors.ErrCodeInvalidImage, errors.ErrCodeInvalidStage,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidGlob:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("pipeline failure", "error", err, "request_id", requestID)
		s.writeError(w, status, string(errors.ErrCodeInternal), "internal server error", requestID)
		return
	}
	s.writeError(w, status, string(code), errors.UserMessage(err), requestID)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	writeJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID returns the chi request ID, or a fresh UUID when the middleware
// did not run (direct handler tests).
func requestID(req *http.Request) string {
	if id := middleware.GetReqID(req.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
