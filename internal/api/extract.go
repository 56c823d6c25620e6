package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"catalogsync/internal/pipeline"
)

const usage = `Use POST with { "url": "supplier_url", "type": "part|material" (optional), "insert": true (optional) }`

type ExtractRequest struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Insert bool   `json:"insert"`
}

type ExtractHandler struct {
	processor *pipeline.Processor
	logger    zerolog.Logger
}

func NewExtractHandler(processor *pipeline.Processor, logger zerolog.Logger) *ExtractHandler {
	return &ExtractHandler{processor: processor, logger: logger}
}

// Extract handles POST /extract. Failed extractions and failed
// reconciliation steps are reported with status 500 and the full outcome.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "url is required", usage)
		return
	}

	expected, err := pipeline.ParseExpectedType(req.Type)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "type must be either 'part' or 'material' if specified", "")
		return
	}

	out, err := h.processor.ProcessProduct(r.Context(), req.URL, expected, req.Insert)
	switch {
	case errors.Is(err, pipeline.ErrInvalidURL), errors.Is(err, pipeline.ErrInvalidType):
		h.writeError(w, http.StatusBadRequest, err.Error(), usage)
		return
	case err != nil:
		h.logger.Error().Err(err).Str("url", req.URL).Msg("extract request failed")
		h.writeError(w, http.StatusInternalServerError, "extraction failed", err.Error())
		return
	}

	status := http.StatusOK
	if !out.Success || (out.Reconciliation != nil && !out.Inserted()) {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

func (h *ExtractHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", usage)
}

func (h *ExtractHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]any{
		"success": false,
		"error":   message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
