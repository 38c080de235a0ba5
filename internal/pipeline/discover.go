package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carmedia/carconv/internal/naming"
)

// Recognized media container extensions (lowercase, with leading dot).
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".wmv":  true,
	".3gp":  true,
}

// IsMediaFile reports whether path carries a recognized media extension.
func IsMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

// DiscoverSources lists the media files of a source directory, excluding
// anything that already carries the derived-output shape (a source dir that
// accumulated pipeline outputs must not feed them back in). The listing is
// a snapshot: files appearing mid-run are picked up by the next invocation.
// Paths are sorted for deterministic processing order.
func DiscoverSources(dir string) ([]string, error) {
	return discover(dir, func(name string) bool {
		return IsMediaFile(name) && !naming.IsConverted(name)
	})
}

// DiscoverConverted lists the derived output files of a target directory.
func DiscoverConverted(dir string) ([]string, error) {
	return discover(dir, naming.IsConverted)
}

func discover(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if keep(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
