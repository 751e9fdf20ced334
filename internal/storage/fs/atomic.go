package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteStreamAtomic copies r into path through a temporary sibling and renames
// it into place only once the copy has finished. With limit >= 0, more than
// limit bytes aborts the write with ErrTooLarge and nothing is left on disk.
// Bytes are also teed into sink when it is non-nil.
func WriteStreamAtomic(path string, r io.Reader, limit int64, perm fs.FileMode, sink io.Writer) (int64, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", base, os.Getpid()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}
	fail := func(err error) (int64, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return 0, err
	}

	src := r
	if limit >= 0 {
		src = io.LimitReader(r, limit+1)
	}
	var w io.Writer = f
	if sink != nil {
		w = io.MultiWriter(f, sink)
	}
	n, err := io.Copy(w, src)
	if err != nil {
		return fail(err)
	}
	if limit >= 0 && n > limit {
		return fail(ErrTooLarge)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}

	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}
	return n, nil
}
