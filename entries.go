package rootfiles

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Entry is a file or directory directly under a listed directory.
type Entry struct {
	Path string `json:"path"`
}

type DirectoryLister interface {
	ListEntries(path string) []Entry
}

// OSDirectoryLister lists directories on the local filesystem. Paths that
// are missing, not directories, or unreadable have no entries.
type OSDirectoryLister struct{}

func (OSDirectoryLister) ListEntries(path string) []Entry {
	dirents, err := os.ReadDir(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("cannot list directory")
		return []Entry{}
	}

	result := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		result = append(result, Entry{Path: filepath.Join(path, d.Name())})
	}
	return result
}
