// Package store persists notes and folders in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFolder = errors.New("folder does not exist")
)

// FileTypePDF is the only file type upload-created notes carry.
const FileTypePDF = "pdf"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FolderID  *string   `json:"folderId"`
	FileURL   *string   `json:"fileUrl"`
	FileType  *string   `json:"fileType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFile reports whether the note references an uploaded file instead of
// holding Markdown content.
func (n Note) IsFile() bool {
	return n.FileURL != nil && *n.FileURL != ""
}

type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewNote struct {
	Title    string
	Content  string
	FolderID *string
}

// NoteUpdate replaces every mutable field; a nil FolderID unfiles the note.
type NoteUpdate struct {
	Title    string
	Content  string
	FolderID *string
}

type NewFileNote struct {
	Title    string
	FolderID *string
	FileURL  string
}

type NewFolder struct {
	Name  string
	Color string
}

type OpenOptions struct {
	BusyTimeout time.Duration
	LockTimeout time.Duration
}

type Store struct {
	db          *sql.DB
	dialect     dialect
	lockTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

func Open(databaseURL string) (*Store, error) {
	return OpenWithOptions(databaseURL, OpenOptions{})
}

func OpenWithOptions(databaseURL string, opts OpenOptions) (*Store, error) {
	d, dsn, err := parseDatabaseURL(databaseURL, opts.BusyTimeout)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:          db,
		dialect:     d,
		lockTimeout: opts.LockTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect names the backend in use ("sqlite" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect.name
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() int64 {
	return s.now().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
