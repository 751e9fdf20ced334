package store

import (
	"context"
	"database/sql"
	"errors"
)

const noteColumns = "id, title, content, folder_id, file_url, file_type, created_at, updated_at"

func scanNote(row rowScanner) (Note, error) {
	var (
		n                 Note
		folderID, fileURL sql.NullString
		fileType          sql.NullString
		created, updated  int64
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &folderID, &fileURL, &fileType, &created, &updated); err != nil {
		return Note{}, err
	}
	n.FolderID = stringPtr(folderID)
	n.FileURL = stringPtr(fileURL)
	n.FileType = stringPtr(fileType)
	n.CreatedAt = fromMillis(created)
	n.UpdatedAt = fromMillis(updated)
	return n, nil
}

func (s *Store) ListNotes(ctx context.Context) ([]Note, error) {
	rows, err := s.queryContext(ctx, "SELECT "+noteColumns+" FROM notes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *Store) GetNote(ctx context.Context, id string) (Note, error) {
	n, err := scanNote(s.queryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (s *Store) CreateNote(ctx context.Context, in NewNote) (Note, error) {
	id := s.newID()
	now := s.timestamp()
	_, err := s.execContext(ctx, `
		INSERT INTO notes(id, title, content, folder_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Content, nullString(in.FolderID), now, now)
	if err != nil {
		return Note{}, s.classify(err)
	}
	return s.GetNote(ctx, id)
}

// CreateFileNote stores a note whose payload lives in the file store.
func (s *Store) CreateFileNote(ctx context.Context, in NewFileNote) (Note, error) {
	id := s.newID()
	now := s.timestamp()
	_, err := s.execContext(ctx, `
		INSERT INTO notes(id, title, content, folder_id, file_url, file_type, created_at, updated_at)
		VALUES(?, ?, '', ?, ?, ?, ?, ?)`,
		id, in.Title, nullString(in.FolderID), in.FileURL, FileTypePDF, now, now)
	if err != nil {
		return Note{}, s.classify(err)
	}
	return s.GetNote(ctx, id)
}

func (s *Store) UpdateNote(ctx context.Context, id string, in NoteUpdate) (Note, error) {
	res, err := s.execContext(ctx, `
		UPDATE notes SET title=?, content=?, folder_id=?, updated_at=? WHERE id=?`,
		in.Title, in.Content, nullString(in.FolderID), s.timestamp(), id)
	if err != nil {
		return Note{}, s.classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Note{}, ErrNotFound
	}
	return s.GetNote(ctx, id)
}

// DeleteNote removes the row and returns what was deleted so the caller can
// release the stored file of a file note.
func (s *Store) DeleteNote(ctx context.Context, id string) (Note, error) {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	res, err := s.execContext(ctx, "DELETE FROM notes WHERE id=?", id)
	if err != nil {
		return Note{}, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (s *Store) classify(err error) error {
	if s.dialect.fkViolation(err) {
		return ErrInvalidFolder
	}
	return err
}
