package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`Recordings\audio.wav`:  "Recordings/audio.wav",
		"a//b/./c.md":           "a/b/c.md",
		"/rooted/note.md":       "rooted/note.md",
		"../escape.md":          "escape.md",
		"plain.md":              "plain.md",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCreateReadModify(t *testing.T) {
	t.Parallel()

	v := New(t.TempDir(), zap.NewNop())

	if err := v.Create("Notes/meeting.md", "hello"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !v.Exists("Notes/meeting.md") {
		t.Fatalf("expected file to exist")
	}

	content, err := v.Read("Notes/meeting.md")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if content != "hello" {
		t.Fatalf("unexpected content: %q", content)
	}

	if err := v.Modify("Notes/meeting.md", "updated"); err != nil {
		t.Fatalf("modify failed: %v", err)
	}
	content, err = v.Read("Notes/meeting.md")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if content != "updated" {
		t.Fatalf("unexpected content after modify: %q", content)
	}
}

func TestModifyMissingFileFails(t *testing.T) {
	t.Parallel()

	v := New(t.TempDir(), zap.NewNop())
	if err := v.Modify("missing.md", "content"); err == nil {
		t.Fatalf("expected modify of missing file to fail")
	}
}

func TestCreateBinaryAllowsEmptyArtifacts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	v := New(root, zap.NewNop())

	if err := v.CreateBinary("Recordings/empty.wav", nil); err != nil {
		t.Fatalf("create binary failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "Recordings", "empty.wav"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestMkdirAndWindowsStylePaths(t *testing.T) {
	t.Parallel()

	v := New(t.TempDir(), zap.NewNop())

	if err := v.Mkdir(`Recordings\2026`); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if !v.Exists("Recordings/2026") {
		t.Fatalf("expected normalized folder to exist")
	}
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	v := New(t.TempDir(), zap.NewNop())
	if _, err := v.Read("nope.md"); err == nil || !strings.Contains(err.Error(), "nope.md") {
		t.Fatalf("expected read error naming the path, got %v", err)
	}
}
