package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
)

var (
	ErrNoSource        = errors.New("folder has no " + braw.Extension + " file")
	ErrMultipleSources = errors.New("folder has more than one " + braw.Extension + " file")
)

// discoverFolders lists the immediate sub-folders of root, sorted by name.
func discoverFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", root, err)
	}
	var folders []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(root, e.Name())
		if !IsDir(path) {
			continue
		}
		folders = append(folders, path)
	}
	return folders, nil
}

// findSource returns the single blog source in folder.
func findSource(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("failed to read folder %s: %w", folder, err)
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != braw.Extension {
			continue
		}
		found = append(found, filepath.Join(folder, e.Name()))
	}
	switch len(found) {
	case 0:
		return "", ErrNoSource
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleSources, strings.Join(found, ", "))
	}
}

// IsDir reports whether path is a directory. It follows symlinks, so linked
// post folders are picked up too.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
