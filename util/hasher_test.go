package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestGetFileHash(t *testing.T) {
	// Create temp directory for test files
	tmpDir := t.TempDir()
	fsys := afero.NewOsFs()

	emptyFile := filepath.Join(tmpDir, "empty.png")
	os.WriteFile(emptyFile, []byte{}, 0644)

	helloFile := filepath.Join(tmpDir, "hello.png")
	os.WriteFile(helloFile, []byte("hello world"), 0644)

	subDir := filepath.Join(tmpDir, "subdir")
	os.Mkdir(subDir, 0755)

	tests := []struct {
		name     string
		path     string
		wantHash string
		wantErr  error
	}{
		{
			name:     "empty file",
			path:     emptyFile,
			wantHash: "d41d8cd98f00b204e9800998ecf8427e",
		},
		{
			name:     "hello world file",
			path:     helloFile,
			wantHash: "5eb63bbbe01eeed093cb22bb8f5acdc3",
		},
		{
			name:    "directory returns error",
			path:    subDir,
			wantErr: ErrExpectedFile,
		},
		{
			name:    "non-existent file",
			path:    filepath.Join(tmpDir, "nonexistent.png"),
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetFileHash(fsys, tt.path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetFileHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetFileHash() unexpected error = %v", err)
			}
			if gotHash != tt.wantHash {
				t.Errorf("GetFileHash() = %v, want %v", gotHash, tt.wantHash)
			}
		})
	}
}

func TestGetFileHash_ChangesWithContent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "a.png", []byte("before"), 0644)

	h1, err := GetFileHash(fsys, "a.png")
	if err != nil {
		t.Fatalf("GetFileHash() error = %v", err)
	}
	afero.WriteFile(fsys, "a.png", []byte("after"), 0644)
	h2, err := GetFileHash(fsys, "a.png")
	if err != nil {
		t.Fatalf("GetFileHash() error = %v", err)
	}

	if h1 == h2 {
		t.Errorf("hash did not change after content changed: %s", h1)
	}
	if len(h1) != 32 {
		t.Errorf("hash length = %d, want 32", len(h1))
	}
	if h2 != HashBytes([]byte("after")) {
		t.Errorf("GetFileHash() = %s, want HashBytes result %s", h2, HashBytes([]byte("after")))
	}
}

func TestHasExtension(t *testing.T) {
	exts := []string{".png", ".jpg", ".jpeg"}
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"dir/b.JPG", true},
		{"c.Jpeg", true},
		{"d.txt", false},
		{"png", false},
		{"e.png.bak", false},
		{".png", true},
	}
	for _, tt := range tests {
		if got := HasExtension(tt.path, exts); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
