package server

import (
	"encoding/json"
	"net/http"

	"artwork-helper/internal/logging"

	"github.com/gorilla/mux"
)

// ArtworkRequest is the body of POST /api/artwork.
type ArtworkRequest struct {
	ItemID    string            `json:"itemId"`
	URL       string            `json:"url,omitempty"`
	Context   string            `json:"context,omitempty"`
	Processes map[string]string `json:"processes,omitempty"`
	// Art holds art type to URL pairs stored under Context before
	// processing.
	Art map[string]string `json:"art,omitempty"`
}

const maxRequestBody = 1 << 20

// ProcessArtwork runs the artwork pipeline for one item and responds with
// the attribute map, which is empty when nothing could be produced.
func (s *Server) ProcessArtwork(w http.ResponseWriter, r *http.Request) {
	var req ArtworkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	processes := req.Processes
	if len(processes) == 0 {
		processes = s.processes
	}
	if len(processes) == 0 {
		writeJSONError(w, "no processes requested and none configured", http.StatusBadRequest)
		return
	}
	if len(req.Art) > 0 {
		if req.Context == "" {
			writeJSONError(w, "context is required when art is given", http.StatusBadRequest)
			return
		}
		s.contexts.Put(req.Context, req.Art)
	}
	if req.URL == "" && req.Context == "" {
		writeJSONError(w, "url or context is required", http.StatusBadRequest)
		return
	}

	if !s.acquire(r.Context()) {
		writeJSONError(w, "request canceled while waiting for a worker", http.StatusServiceUnavailable)
		return
	}
	defer s.release()

	logging.Debug("Processing artwork for item %s (context %q)", req.ItemID, req.Context)
	result := s.processor.ImageProcessor(r.Context(), req.ItemID, req.Context, processes, req.URL)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}

// DeleteContext forgets the art URLs stored under a context.
func (s *Server) DeleteContext(w http.ResponseWriter, r *http.Request) {
	s.contexts.Delete(mux.Vars(r)["name"])
	w.WriteHeader(http.StatusNoContent)
}
