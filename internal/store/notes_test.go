package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateThenGetNote(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, NewFolder{Name: "Work", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	created, err := s.CreateNote(ctx, NewNote{Title: "Test", Content: "# Hi", FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected stored timestamps, got %+v", created)
	}

	got, err := s.GetNote(ctx, created.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.Title != "Test" || got.Content != "# Hi" {
		t.Fatalf("unexpected note: %+v", got)
	}
	if got.FolderID == nil || *got.FolderID != folder.ID {
		t.Fatalf("expected folder %s, got %v", folder.ID, got.FolderID)
	}
	if got.FileURL != nil || got.FileType != nil || got.IsFile() {
		t.Fatalf("markdown note should not reference a file: %+v", got)
	}
}

func TestCreateNoteUnfiled(t *testing.T) {
	s := openTestStore(t)
	n, err := s.CreateNote(context.Background(), NewNote{Title: "Loose", Content: "text"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if n.FolderID != nil {
		t.Fatalf("expected nil folder, got %v", *n.FolderID)
	}
}

func TestCreateNoteUnknownFolder(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreateNote(context.Background(), NewNote{Title: "x", Content: "y", FolderID: strPtr("missing")})
	if !errors.Is(err, ErrInvalidFolder) {
		t.Fatalf("expected ErrInvalidFolder, got %v", err)
	}
}

func TestGetNoteNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetNote(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNoteClearsFolderAndRefreshesUpdatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return clock }

	folder, err := s.CreateFolder(ctx, NewFolder{Name: "Inbox", Color: "blue"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	n, err := s.CreateNote(ctx, NewNote{Title: "a", Content: "b", FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	clock = clock.Add(time.Minute)
	updated, err := s.UpdateNote(ctx, n.ID, NoteUpdate{Title: "a2", Content: "b2", FolderID: nil})
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if updated.FolderID != nil {
		t.Fatalf("expected folder cleared, got %v", *updated.FolderID)
	}
	if updated.Title != "a2" || updated.Content != "b2" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(clock) {
		t.Fatalf("expected updatedAt %v, got %v", clock, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(n.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", n.CreatedAt, updated.CreatedAt)
	}

	got, err := s.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.FolderID != nil {
		t.Fatalf("expected folder cleared after reload, got %v", *got.FolderID)
	}
}

func TestUpdateNoteMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpdateNote(context.Background(), "missing", NoteUpdate{Title: "t", Content: "c"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNote(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	n, err := s.CreateNote(ctx, NewNote{Title: "gone", Content: "soon"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	deleted, err := s.DeleteNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if deleted.ID != n.ID {
		t.Fatalf("expected deleted note %s, got %s", n.ID, deleted.ID)
	}
	if _, err := s.GetNote(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.DeleteNote(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateFileNote(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	n, err := s.CreateFileNote(ctx, NewFileNote{Title: "paper.pdf", FileURL: "/uploads/abc.pdf"})
	if err != nil {
		t.Fatalf("create file note: %v", err)
	}
	if n.Content != "" {
		t.Fatalf("expected empty content, got %q", n.Content)
	}
	if n.FileType == nil || *n.FileType != FileTypePDF {
		t.Fatalf("expected pdf file type, got %v", n.FileType)
	}
	if n.FileURL == nil || *n.FileURL != "/uploads/abc.pdf" {
		t.Fatalf("unexpected file url: %v", n.FileURL)
	}
	if !n.IsFile() {
		t.Fatalf("expected file note")
	}
}

func TestListNotes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	notes, err := s.ListNotes(ctx)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", notes)
	}
	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.CreateNote(ctx, NewNote{Title: title, Content: title}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	notes, err = s.ListNotes(ctx)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
}
