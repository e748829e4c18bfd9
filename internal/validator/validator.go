// Package validator checks an output directory for the required fixture
// images. It never writes.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bagtoad/scenegen/internal/dataset"
	"github.com/bagtoad/scenegen/internal/rasterio"
)

// FileStatus describes one required file.
type FileStatus struct {
	Name   string
	Path   string
	Exists bool
	Size   int64
	// Width and Height come from the image header; both are zero when the
	// header could not be decoded (see DecodeErr).
	Width     int
	Height    int
	DecodeErr error
}

// Result holds the outcome of validating a directory.
type Result struct {
	Dir      string
	Files    []FileStatus
	Missing  []string
	Complete bool
}

// Validate checks dir for every required name with extension ext (for
// example ".jpg"). A directory that does not exist is reported with every
// file missing; a path that is not a directory is an error.
//
// A present file counts even if its content cannot be decoded; the
// consumers only need the file to exist.
func Validate(dir, ext string) (*Result, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		info = nil
	case err != nil:
		return nil, fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	result := &Result{Dir: dir}
	for _, name := range dataset.RequiredNames() {
		file := dataset.FileName(name, ext)
		st := FileStatus{Name: file, Path: filepath.Join(dir, file)}
		if info != nil {
			check(&st)
		}
		if !st.Exists {
			result.Missing = append(result.Missing, file)
		}
		result.Files = append(result.Files, st)
	}
	result.Complete = len(result.Missing) == 0
	return result, nil
}

func check(st *FileStatus) {
	info, err := os.Stat(st.Path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	st.Exists = true
	st.Size = info.Size()

	cfg, _, err := rasterio.DecodeConfig(st.Path)
	if err != nil {
		st.DecodeErr = err
		return
	}
	st.Width, st.Height = cfg.Width, cfg.Height
}

// Populated reports whether dir exists and holds at least one entry of any
// kind, dotfiles included. A missing directory is not populated.
func Populated(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot read directory: %w", err)
	}
	return len(entries) > 0, nil
}
