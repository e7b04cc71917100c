package rootfiles

import (
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
)

// Volume is a mounted filesystem root, identified by its path alone.
type Volume struct {
	Path string
}

type RootLister interface {
	ListRoots() []Volume
}

// pseudoFilesystems are kernel and virtual filesystems skipped unless the
// lister is asked for every mount. Overlay, nfs and zfs are real volumes
// even though the kernel marks them nodev, so they are not listed here.
var pseudoFilesystems = map[string]struct{}{
	"autofs":      {},
	"binfmt_misc": {},
	"bpf":         {},
	"cgroup":      {},
	"cgroup2":     {},
	"configfs":    {},
	"debugfs":     {},
	"devpts":      {},
	"devtmpfs":    {},
	"efivarfs":    {},
	"fusectl":     {},
	"hugetlbfs":   {},
	"mqueue":      {},
	"nsfs":        {},
	"proc":        {},
	"pstore":      {},
	"ramfs":       {},
	"rpc_pipefs":  {},
	"securityfs":  {},
	"selinuxfs":   {},
	"sysfs":       {},
	"tmpfs":       {},
	"tracefs":     {},
}

// PartitionRootLister enumerates mount points of the host. It never fails:
// an enumeration error yields whatever partitions were reported. Filesystem
// roots ("/", "C:\") come first regardless of their filesystem type, and on
// POSIX hosts "/" is always present.
type PartitionRootLister struct {
	root       string
	all        bool
	partitions func(all bool) ([]disk.PartitionStat, error)
}

func NewPartitionRootLister(all bool) *PartitionRootLister {
	return &PartitionRootLister{
		root:       hostRoot(),
		all:        all,
		partitions: disk.Partitions,
	}
}

func hostRoot() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	return "/"
}

func (p *PartitionRootLister) ListRoots() []Volume {
	parts, err := p.partitions(true)
	if err != nil {
		log.Debug().Err(err).Int("partitions", len(parts)).Msg("partition enumeration reported an error")
	}

	seen := make(map[string]struct{}, len(parts)+1)
	var roots, mounts []Volume
	if p.root != "" {
		seen[p.root] = struct{}{}
		roots = append(roots, Volume{Path: p.root})
	}

	for _, part := range parts {
		if part.Mountpoint == "" {
			continue
		}

		path := rootPath(part.Mountpoint)
		if _, ok := seen[path]; ok {
			continue
		}

		if isFilesystemRoot(path) {
			seen[path] = struct{}{}
			roots = append(roots, Volume{Path: path})
			continue
		}

		if _, pseudo := pseudoFilesystems[part.Fstype]; pseudo && !p.all {
			continue
		}
		seen[path] = struct{}{}
		mounts = append(mounts, Volume{Path: path})
	}

	return append(append(make([]Volume, 0, len(roots)+len(mounts)), roots...), mounts...)
}

// rootPath turns a bare drive mount point such as "C:" into its root "C:\".
func rootPath(mountpoint string) string {
	if v := filepath.VolumeName(mountpoint); v != "" && v == mountpoint {
		return mountpoint + string(filepath.Separator)
	}
	return mountpoint
}

func isFilesystemRoot(path string) bool {
	if path == "/" {
		return true
	}
	v := filepath.VolumeName(path)
	return v != "" && path == v+string(filepath.Separator)
}
