package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/session"
)

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	if len(sess.Selected()) == 0 {
		jsonError(w, "no headings selected", http.StatusBadRequest)
		return
	}

	opts := pipeline.RunOptions{Force: r.URL.Query().Get("force") == "true"}
	results, err := s.orchestrator.Summarize(r.Context(), sess, opts)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoSummarizer) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.log.Warn("summarization interrupted", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"results":    results,
	})
}

type editSummaryRequest struct {
	Summary string `json:"summary"`
}

func (s *Server) handleEditSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	heading := headingParam(r)

	var req editSummaryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(req.Summary)
	if text == "" {
		jsonError(w, "summary is required", http.StatusBadRequest)
		return
	}

	if err := sess.EditSummary(heading, text); err != nil {
		var uh *session.UnknownHeadingError
		if errors.As(err, &uh) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sum, _ := sess.Summary(heading)
	writeJSON(w, http.StatusOK, map[string]any{
		"heading": heading,
		"summary": sum,
	})
}
