package web

import (
	"context"
	"errors"
	"net/http"

	"mdnotes/internal/config"
	"mdnotes/internal/ratelimit"
	"mdnotes/internal/storage/fs"
	"mdnotes/internal/store"
)

// Store is the persistence surface the handlers depend on.
type Store interface {
	ListNotes(ctx context.Context) ([]store.Note, error)
	GetNote(ctx context.Context, id string) (store.Note, error)
	CreateNote(ctx context.Context, in store.NewNote) (store.Note, error)
	CreateFileNote(ctx context.Context, in store.NewFileNote) (store.Note, error)
	UpdateNote(ctx context.Context, id string, in store.NoteUpdate) (store.Note, error)
	DeleteNote(ctx context.Context, id string) (store.Note, error)
	ListFolders(ctx context.Context) ([]store.Folder, error)
	CreateFolder(ctx context.Context, in store.NewFolder) (store.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (store.Folder, error)
	Ping(ctx context.Context) error
}

type Server struct {
	cfg     config.Config
	store   Store
	uploads *fs.Uploads
	limiter ratelimit.Limiter
	mux     *http.ServeMux
}

// NewServer wires the API onto st and uploads. A nil limiter falls back to
// an in-memory fixed window sized from cfg.
func NewServer(cfg config.Config, st Store, uploads *fs.Uploads, limiter ratelimit.Limiter) (*Server, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if uploads == nil {
		return nil, errors.New("uploads are required")
	}
	if limiter == nil && cfg.RateLimit > 0 {
		limiter = ratelimit.NewMemory(cfg.RateLimit, cfg.RateWindow)
	}
	s := &Server{
		cfg:     cfg,
		store:   st,
		uploads: uploads,
		limiter: limiter,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.limiter != nil {
		h = s.withRateLimit(h)
	}
	h = s.withCORS(h)
	h = withRequestLog(h)
	return withRecover(h)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/notes", s.handleListNotes)
	s.mux.HandleFunc("POST /api/notes", s.handleCreateNote)
	s.mux.HandleFunc("GET /api/notes/{id}", s.handleGetNote)
	s.mux.HandleFunc("PUT /api/notes/{id}", s.handleUpdateNote)
	s.mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)
	s.mux.HandleFunc("GET /api/notes/{id}/html", s.handleNoteHTML)
	s.mux.HandleFunc("POST /api/notes/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/notes/preview", s.handlePreview)

	s.mux.HandleFunc("GET /api/notes/folders", s.handleListFolders)
	s.mux.HandleFunc("POST /api/notes/folders", s.handleCreateFolder)
	s.mux.HandleFunc("PUT /api/notes/folders/{id}", s.handleRenameFolder)

	s.mux.Handle("GET "+fs.URLPrefix, http.StripPrefix(fs.URLPrefix, uploadsHandler(s.uploads.Root())))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}
