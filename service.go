package rootfiles

import (
	"strings"
)

var _ FileService = (*FileQueryService)(nil)

type FileQueryService struct {
	roots RootLister
	dirs  DirectoryLister
}

func NewFileQueryService(roots RootLister, dirs DirectoryLister) *FileQueryService {
	return &FileQueryService{
		roots: roots,
		dirs:  dirs,
	}
}

// RootFolderFiles lists the children of the first volume whose path starts
// with label. The match is case-sensitive and follows the order the volumes
// were enumerated in. No match and an empty volume both give no entries.
func (s *FileQueryService) RootFolderFiles(label string) []Entry {
	for _, volume := range s.roots.ListRoots() {
		if strings.HasPrefix(volume.Path, label) {
			return s.dirs.ListEntries(volume.Path)
		}
	}
	return []Entry{}
}
