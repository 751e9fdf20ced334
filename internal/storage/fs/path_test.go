package fs

import (
	"path/filepath"
	"testing"
)

func TestValidateStoredName(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0b6c.pdf", true},
		{"abc", true},
		{"", false},
		{"../x.pdf", false},
		{"dir/x.pdf", false},
		{`dir\x.pdf`, false},
		{".tmp.x.pdf.1", false},
		{"..", false},
		{"a\x00b", false},
	}

	for _, c := range cases {
		err := ValidateStoredName(c.in)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %q, got %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("expected err for %q", c.in)
		}
	}
}

func TestStoredFilePath(t *testing.T) {
	root := t.TempDir()
	got, err := StoredFilePath(root, "a.pdf")
	if err != nil {
		t.Fatalf("stored path: %v", err)
	}
	if got != filepath.Join(root, "a.pdf") {
		t.Fatalf("unexpected path %q", got)
	}
	if _, err := StoredFilePath(root, "../a.pdf"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestSafeExt(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", ".pdf"},
		{"Report.PDF", ".pdf"},
		{"archive.tar.gz", ".gz"},
		{"../../etc/passwd", ""},
		{`C:\docs\paper.pdf`, ".pdf"},
		{"noext", ""},
		{"weird.p df", ""},
		{"trailing.", ""},
		{"long.abcdefghijklmnopq", ""},
	}
	for _, c := range cases {
		if got := SafeExt(c.in); got != c.want {
			t.Fatalf("SafeExt(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName(`C:\docs\paper.pdf`); got != "paper.pdf" {
		t.Fatalf("unexpected base %q", got)
	}
	if got := BaseName("../a/b.pdf"); got != "b.pdf" {
		t.Fatalf("unexpected base %q", got)
	}
}
