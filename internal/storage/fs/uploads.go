package fs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrNoFile        = errors.New("no file uploaded")
	ErrMultipleFiles = errors.New("only one file may be uploaded")
	ErrNotPDF        = errors.New("only PDF files are allowed")
	ErrTooLarge      = errors.New("file exceeds the upload size limit")
)

// DefaultMaxBytes is the upload ceiling when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// URLPrefix is the public path stored files are served under.
const URLPrefix = "/uploads/"

const pdfMediaType = "application/pdf"

// StagedFile is an accepted upload already written under the uploads root.
type StagedFile struct {
	Name         string
	OriginalName string
	Size         int64
	Checksum     string
}

func (f StagedFile) URL() string {
	return URLPrefix + f.Name
}

// Uploads owns the directory of uploaded binaries.
type Uploads struct {
	root     string
	maxBytes int64
}

func NewUploads(root string, maxBytes int64) (*Uploads, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("uploads root is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Uploads{root: root, maxBytes: maxBytes}, nil
}

func (u *Uploads) Root() string {
	return u.root
}

func (u *Uploads) MaxBytes() int64 {
	return u.maxBytes
}

// Stage validates and stores one uploaded file. The declared content type is
// checked before any byte is written; the stored name is a fresh UUID plus
// the original extension, so the client's file name never touches the disk.
func (u *Uploads) Stage(originalName, contentType string, r io.Reader) (StagedFile, error) {
	if !isPDF(contentType) {
		return StagedFile{}, ErrNotPDF
	}
	name := uuid.NewString() + SafeExt(originalName)
	path, err := StoredFilePath(u.root, name)
	if err != nil {
		return StagedFile{}, err
	}
	hash, err := blake2b.New256(nil)
	if err != nil {
		return StagedFile{}, err
	}
	n, err := WriteStreamAtomic(path, r, u.maxBytes, 0o644, hash)
	if err != nil {
		return StagedFile{}, err
	}
	staged := StagedFile{
		Name:         name,
		OriginalName: BaseName(originalName),
		Size:         n,
		Checksum:     hex.EncodeToString(hash.Sum(nil)),
	}
	slog.Debug("upload staged", "name", staged.Name, "original", staged.OriginalName, "size", staged.Size)
	return staged, nil
}

// Remove deletes a stored file by its generated name. A missing file is not
// an error.
func (u *Uploads) Remove(name string) error {
	path, err := StoredFilePath(u.root, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// NameFromURL maps a stored file URL back to its generated name.
func (u *Uploads) NameFromURL(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, URLPrefix) {
		return "", ErrUnsafePath
	}
	name := strings.TrimPrefix(fileURL, URLPrefix)
	if err := ValidateStoredName(name); err != nil {
		return "", err
	}
	return name, nil
}

func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, pdfMediaType)
}
