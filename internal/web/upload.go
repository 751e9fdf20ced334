package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"mdnotes/internal/storage/fs"
	"mdnotes/internal/store"
)

const (
	// multipartOverhead is the body allowance on top of the file ceiling for
	// part headers and the text fields.
	multipartOverhead = 1 << 20
	maxFieldBytes     = 4 << 10
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxBytes()+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	var (
		staged   *fs.StagedFile
		title    string
		folderID string
	)
	discard := func() {
		if staged == nil {
			return
		}
		if err := s.uploads.Remove(staged.Name); err != nil {
			slog.Warn("remove staged upload", "name", staged.Name, "err", err)
		}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			discard()
			writeUploadError(w, err)
			return
		}
		switch part.FormName() {
		case "file":
			if staged != nil {
				_ = part.Close()
				discard()
				writeUploadError(w, fs.ErrMultipleFiles)
				return
			}
			f, err := s.uploads.Stage(part.FileName(), part.Header.Get("Content-Type"), part)
			_ = part.Close()
			if err != nil {
				writeUploadError(w, err)
				return
			}
			staged = &f
		case "title":
			title, err = readField(part)
		case "folderId":
			folderID, err = readField(part)
		default:
			_ = part.Close()
		}
		if err != nil {
			discard()
			writeUploadError(w, err)
			return
		}
	}
	if staged == nil {
		writeUploadError(w, fs.ErrNoFile)
		return
	}

	if strings.TrimSpace(title) == "" {
		title = staged.OriginalName
	}
	if strings.TrimSpace(title) == "" {
		title = staged.Name
	}
	note, err := s.store.CreateFileNote(r.Context(), store.NewFileNote{
		Title:    title,
		FolderID: folderRef(&folderID),
		FileURL:  staged.URL(),
	})
	if err != nil {
		discard()
		writeStoreError(w, r, err, "failed to upload file")
		return
	}
	slog.Info("file note created",
		"id", note.ID,
		"file", staged.Name,
		"original", staged.OriginalName,
		"size", staged.Size,
		"blake2b", staged.Checksum,
	)
	w.Header().Set("X-Content-Checksum", "blake2b-256="+staged.Checksum)
	writeJSON(w, http.StatusCreated, note)
}

func readField(part *multipart.Part) (string, error) {
	defer part.Close()
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxFieldBytes {
		return "", fmt.Errorf("field %q is too long", part.FormName())
	}
	return string(data), nil
}

// writeUploadError answers intake rejections and malformed bodies with 400;
// only filesystem failures while storing become 500.
func writeUploadError(w http.ResponseWriter, err error) {
	var (
		maxErr  *http.MaxBytesError
		pathErr *os.PathError
		linkErr *os.LinkError
	)
	switch {
	case errors.Is(err, fs.ErrNotPDF),
		errors.Is(err, fs.ErrNoFile),
		errors.Is(err, fs.ErrMultipleFiles),
		errors.Is(err, fs.ErrTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &maxErr):
		writeError(w, http.StatusBadRequest, fs.ErrTooLarge.Error())
	case errors.Is(err, fs.ErrUnsafePath), errors.As(err, &pathErr), errors.As(err, &linkErr):
		slog.Error("store upload", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to upload file")
	default:
		writeError(w, http.StatusBadRequest, "malformed upload: "+err.Error())
	}
}
