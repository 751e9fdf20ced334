package store

import (
	"context"
	"database/sql"
	"errors"
)

func scanFolder(row rowScanner) (Folder, error) {
	var (
		f       Folder
		created int64
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Color, &created); err != nil {
		return Folder{}, err
	}
	f.CreatedAt = fromMillis(created)
	return f, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.queryContext(ctx, "SELECT id, name, color, created_at FROM folders")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *Store) GetFolder(ctx context.Context, id string) (Folder, error) {
	f, err := scanFolder(s.queryRowContext(ctx, "SELECT id, name, color, created_at FROM folders WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Folder{}, ErrNotFound
	}
	return f, err
}

func (s *Store) CreateFolder(ctx context.Context, in NewFolder) (Folder, error) {
	id := s.newID()
	if _, err := s.execContext(ctx, "INSERT INTO folders(id, name, color, created_at) VALUES(?, ?, ?, ?)",
		id, in.Name, in.Color, s.timestamp()); err != nil {
		return Folder{}, err
	}
	return s.GetFolder(ctx, id)
}

// RenameFolder changes only the name; color and created_at are immutable.
func (s *Store) RenameFolder(ctx context.Context, id, name string) (Folder, error) {
	res, err := s.execContext(ctx, "UPDATE folders SET name=? WHERE id=?", name, id)
	if err != nil {
		return Folder{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Folder{}, ErrNotFound
	}
	return s.GetFolder(ctx, id)
}
