package web

import (
	"net/http"
	"os"
	"path"
	"strings"
)

type uploadsDir string

// Open serves stored files but refuses directories and in-flight temp files,
// so the uploads root is never listed.
func (d uploadsDir) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, os.ErrNotExist
	}
	f, err := http.Dir(d).Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

func uploadsHandler(root string) http.Handler {
	files := http.FileServer(uploadsDir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
