package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mdnotes/internal/store"
)

type folderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.store.ListFolders(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "failed to fetch folders")
		return
	}
	slog.Debug("folders fetched", "count", len(folders))
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(req.Color) == "" {
		writeError(w, http.StatusBadRequest, "color is required")
		return
	}
	folder, err := s.store.CreateFolder(r.Context(), store.NewFolder{Name: req.Name, Color: req.Color})
	if err != nil {
		writeStoreError(w, r, err, "failed to create folder")
		return
	}
	slog.Info("folder created", "id", folder.ID, "name", folder.Name)
	writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleRenameFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	folder, err := s.store.RenameFolder(r.Context(), id, req.Name)
	if errors.Is(err, store.ErrNotFound) && !s.cfg.StrictIDs {
		slog.Debug("rename of unknown folder", "id", id)
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": req.Name})
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "failed to rename folder")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}
