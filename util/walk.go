package util

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SkipDirName is the directory name that is never descended into.
const SkipDirName = ".next"

// FindFiles walks root depth-first and returns the cleaned paths of every file
// whose extension is in exts. Directories named SkipDirName are pruned and
// reported through log. Entries are visited in lexical order.
func FindFiles(fsys afero.Fs, root string, exts []string, log *Logger) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrExpectedDirectory
	}

	var files []string
	err = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && info.Name() == SkipDirName {
				log.Printf("ignoring directory: %s", filepath.Clean(path))
				return filepath.SkipDir
			}
			return nil
		}
		if HasExtension(info.Name(), exts) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
