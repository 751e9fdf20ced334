package fs

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

const maxExtLen = 16

// ValidateStoredName accepts only a single, non-hidden path element.
func ValidateStoredName(name string) error {
	if name == "" || strings.ContainsRune(name, 0) {
		return ErrUnsafePath
	}
	if strings.ContainsAny(name, `/\`) {
		return ErrUnsafePath
	}
	if strings.HasPrefix(name, ".") {
		return ErrUnsafePath
	}
	return nil
}

// StoredFilePath resolves a stored name under root, refusing anything that
// would land outside of it.
func StoredFilePath(root, name string) (string, error) {
	if err := ValidateStoredName(name); err != nil {
		return "", err
	}
	full := filepath.Join(root, name)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel != name {
		return "", ErrUnsafePath
	}
	return full, nil
}

// SafeExt returns the lower-cased extension of a client-supplied file name,
// or "" when it is missing or contains anything beyond [a-z0-9].
func SafeExt(original string) string {
	ext := strings.ToLower(filepath.Ext(BaseName(original)))
	if len(ext) < 2 || len(ext) > maxExtLen+1 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// BaseName strips any directory part a client put into a file name.
func BaseName(original string) string {
	original = strings.ReplaceAll(original, "\\", "/")
	if i := strings.LastIndex(original, "/"); i >= 0 {
		original = original[i+1:]
	}
	return strings.TrimSpace(original)
}
