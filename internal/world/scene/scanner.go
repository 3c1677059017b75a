package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a discoverable scene file.
type Entry struct {
	Name      string // scene name, or the file name when unset
	Path      string
	Lights    int
	Obstacles int
}

// Scan lists the valid scene files in dir. Files that fail to load are
// skipped; use Load on them directly to see why.
func Scan(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory: %w", err)
	}

	var scenes []Entry
	for _, entry := range entries {
		// Skip directories and hidden files
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !isSceneFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		s, err := Load(path)
		if err != nil {
			continue
		}

		scenes = append(scenes, Entry{
			Name:      s.Name,
			Path:      path,
			Lights:    len(s.Lights),
			Obstacles: len(s.Obstacles),
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Path < scenes[j].Path
	})
	return scenes, nil
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
