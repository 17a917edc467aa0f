package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/On-Jun9/ShutterStamp/pkg/types"
)

type Scanner struct {
	includeExt map[string]bool
}

func New(extensions []string) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Scanner{includeExt: extMap}
}

// Scan lists the matching files directly inside dir, in lexical order.
// Subdirectories are not descended into.
func (s *Scanner) Scan(dir string) ([]types.FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []types.FileEntry
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}

		if !s.Matches(d.Name()) {
			continue
		}

		entry := types.FileEntry{
			Path:      filepath.Join(dir, d.Name()),
			Name:      d.Name(),
			Extension: extension(d.Name()),
		}
		if info, err := d.Info(); err == nil {
			entry.Size = info.Size()
			entry.ModTime = info.ModTime()
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Matches reports whether name carries one of the configured extensions, ignoring case.
func (s *Scanner) Matches(name string) bool {
	return s.includeExt[extension(name)]
}

func extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// Dirs returns root and every directory below it, top-down in lexical order.
// A symlinked root is followed, but paths are reported under root as given.
// Symlinked subdirectories are not followed and unreadable subdirectories are
// left out. An unreadable root is an error.
func Dirs(root string) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == resolved {
				return err
			}
			// second call after ReadDir failed on a directory already added
			if n := len(dirs); n > 0 && dirs[n-1] == underRoot(root, resolved, path) {
				dirs = dirs[:n-1]
			}
			return nil
		}

		if d.IsDir() {
			dirs = append(dirs, underRoot(root, resolved, path))
		}
		return nil
	})

	return dirs, err
}

func underRoot(root, resolved, path string) string {
	if path == resolved {
		return root
	}
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}
