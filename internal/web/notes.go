package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mdnotes/internal/store"
)

type noteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	FolderID *string `json:"folderId"`
}

func (req noteRequest) validate() error {
	if req.Title == nil {
		return errors.New("title is required")
	}
	if req.Content == nil {
		return errors.New("content is required")
	}
	return nil
}

// noteEcho is what a lenient update of an unknown note answers with.
type noteEcho struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	FolderID *string `json:"folderId"`
}

// folderRef treats an empty folder id as unfiled.
func folderRef(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "failed to fetch notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.store.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeStoreError(w, r, err, "failed to fetch note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	note, err := s.store.CreateNote(r.Context(), store.NewNote{
		Title:    *req.Title,
		Content:  *req.Content,
		FolderID: folderRef(req.FolderID),
	})
	if err != nil {
		writeStoreError(w, r, err, "failed to create note")
		return
	}
	slog.Info("note created", "id", note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	folderID := folderRef(req.FolderID)
	note, err := s.store.UpdateNote(r.Context(), id, store.NoteUpdate{
		Title:    *req.Title,
		Content:  *req.Content,
		FolderID: folderID,
	})
	if errors.Is(err, store.ErrNotFound) && !s.cfg.StrictIDs {
		slog.Debug("update of unknown note", "id", id)
		writeJSON(w, http.StatusOK, noteEcho{ID: id, Title: *req.Title, Content: *req.Content, FolderID: folderID})
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	note, err := s.store.DeleteNote(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) && !s.cfg.StrictIDs {
		slog.Debug("delete of unknown note", "id", id)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "failed to delete note")
		return
	}
	if note.IsFile() && s.cfg.DeleteFiles {
		s.releaseFile(*note.FileURL)
	}
	slog.Info("note deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// releaseFile removes the stored file behind a deleted note. Failures are
// logged only; the note row is already gone.
func (s *Server) releaseFile(fileURL string) {
	name, err := s.uploads.NameFromURL(fileURL)
	if err != nil {
		slog.Warn("skip file removal", "url", fileURL, "err", err)
		return
	}
	if err := s.uploads.Remove(name); err != nil {
		slog.Warn("remove stored file", "name", name, "err", err)
		return
	}
	slog.Debug("stored file removed", "name", name)
}
