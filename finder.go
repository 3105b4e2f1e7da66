package fixerconf

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Finder collects the directories the host tool scans.
type Finder interface {
	// In adds dirs. Nothing is added unless every dir is valid.
	In(dirs ...string) error

	// Dirs returns the added directories in order.
	Dirs() []string
}

// DirFinder is the default Finder. It checks directories on an afero.Fs.
type DirFinder struct {
	fs   afero.Fs
	dirs []string
}

// FinderOption configures a DirFinder.
type FinderOption func(*DirFinder)

// WithFs sets the filesystem directories are checked against.
// Default: the operating system filesystem.
func WithFs(fsys afero.Fs) FinderOption {
	return func(f *DirFinder) {
		if fsys != nil {
			f.fs = fsys
		}
	}
}

// NewDirFinder creates an empty DirFinder.
func NewDirFinder(opts ...FinderOption) *DirFinder {
	f := &DirFinder{
		fs:   afero.NewOsFs(),
		dirs: make([]string, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// In checks that every dir exists and is a directory, then appends them all.
// Duplicates are kept.
func (f *DirFinder) In(dirs ...string) error {
	for _, dir := range dirs {
		info, err := f.fs.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return invalidInput("in", dir, ErrCodePathNotFound, "directory does not exist", err)
			}
			return invalidInput("in", dir, ErrCodePathNotFound, "directory cannot be read", err)
		}
		if !info.IsDir() {
			return invalidInput("in", dir, ErrCodeNotADirectory, "path is not a directory", nil)
		}
	}

	f.dirs = append(f.dirs, dirs...)
	return nil
}

// Dirs returns a copy of the added directories.
func (f *DirFinder) Dirs() []string {
	out := make([]string, len(f.dirs))
	copy(out, f.dirs)
	return out
}

// Files walks every directory in lexical order and returns regular files
// whose extension is in exts. An empty exts matches every file.
// Extensions are compared case-insensitively.
func (f *DirFinder) Files(exts ...string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var files []string
	for _, root := range f.dirs {
		err := afero.Walk(f.fs, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if len(want) == 0 || want[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
