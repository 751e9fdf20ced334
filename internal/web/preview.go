package web

import (
	"errors"
	"log/slog"
	"net/http"

	"mdnotes/internal/render"
	"mdnotes/internal/store"
)

type previewRequest struct {
	Content *string `json:"content"`
}

type previewResponse struct {
	ID   string `json:"id,omitempty"`
	HTML string `json:"html"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	html, err := render.Markdown(*req.Content)
	if err != nil {
		slog.Error("render preview", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{HTML: html})
}

func (s *Server) handleNoteHTML(w http.ResponseWriter, r *http.Request) {
	note, err := s.store.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeStoreError(w, r, err, "failed to fetch note")
		return
	}
	html, err := render.Markdown(note.Content)
	if err != nil {
		slog.Error("render note", "id", note.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render note")
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{ID: note.ID, HTML: html})
}
