package store

import (
	"context"
	"errors"
	"testing"
)

func TestRenameFolderKeepsIDAndColor(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, NewFolder{Name: "Old", Color: "#00ff00"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	note, err := s.CreateNote(ctx, NewNote{Title: "inside", Content: "x", FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	renamed, err := s.RenameFolder(ctx, folder.ID, "New")
	if err != nil {
		t.Fatalf("rename folder: %v", err)
	}
	if renamed.ID != folder.ID || renamed.Color != folder.Color || renamed.Name != "New" {
		t.Fatalf("unexpected rename result: %+v", renamed)
	}
	if !renamed.CreatedAt.Equal(folder.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", folder.CreatedAt, renamed.CreatedAt)
	}

	got, err := s.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.FolderID == nil || *got.FolderID != folder.ID || !got.UpdatedAt.Equal(note.UpdatedAt) {
		t.Fatalf("note changed by folder rename: %+v", got)
	}
}

func TestRenameFolderMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.RenameFolder(context.Background(), "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFolders(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		if _, err := s.CreateFolder(ctx, NewFolder{Name: name, Color: "gray"}); err != nil {
			t.Fatalf("create folder %s: %v", name, err)
		}
	}
	folders, err := s.ListFolders(ctx)
	if err != nil {
		t.Fatalf("list folders: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(folders))
	}
	seen := map[string]bool{}
	for _, f := range folders {
		seen[f.Name] = true
		if f.Color != "gray" {
			t.Fatalf("unexpected color %q", f.Color)
		}
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("missing folders: %+v", folders)
	}
}
