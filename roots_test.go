package rootfiles

import (
	"errors"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticPartitions(parts []disk.PartitionStat, err error) func(bool) ([]disk.PartitionStat, error) {
	return func(bool) ([]disk.PartitionStat, error) {
		return parts, err
	}
}

func TestPartitionRootLister_ListRoots(t *testing.T) {
	lister := &PartitionRootLister{
		root: "/",
		partitions: staticPartitions([]disk.PartitionStat{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "/dev/sdb1", Mountpoint: "/mnt/data", Fstype: "ext4"},
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "none", Mountpoint: "", Fstype: "ext4"},
			{Device: "/dev/sdc1", Mountpoint: "/boot", Fstype: "vfat"},
		}, nil),
	}

	require.Equal(t, []Volume{
		{Path: "/"},
		{Path: "/mnt/data"},
		{Path: "/boot"},
	}, lister.ListRoots())
}

func TestPartitionRootLister_OverlayRoot(t *testing.T) {
	lister := &PartitionRootLister{
		root: "/",
		partitions: staticPartitions([]disk.PartitionStat{
			{Device: "overlay", Mountpoint: "/", Fstype: "overlay"},
			{Device: "proc", Mountpoint: "/proc", Fstype: "proc"},
			{Device: "/dev/vdb", Mountpoint: "/data", Fstype: "ext4"},
		}, nil),
	}

	roots := lister.ListRoots()
	require.Equal(t, []Volume{{Path: "/"}, {Path: "/data"}}, roots)

	dirs := &fakeDirs{}
	NewFileQueryService(lister, dirs).RootFolderFiles("/")
	assert.Equal(t, []string{"/"}, dirs.calls)
}

func TestPartitionRootLister_RootListedFirst(t *testing.T) {
	lister := &PartitionRootLister{
		root: "/",
		partitions: staticPartitions([]disk.PartitionStat{
			{Mountpoint: "/data", Fstype: "xfs"},
			{Mountpoint: "/", Fstype: "zfs"},
			{Mountpoint: "/srv", Fstype: "nfs4"},
		}, nil),
	}

	assert.Equal(t, []Volume{{Path: "/"}, {Path: "/data"}, {Path: "/srv"}}, lister.ListRoots())
}

func TestPartitionRootLister_PseudoFilesystems(t *testing.T) {
	parts := []disk.PartitionStat{
		{Mountpoint: "/", Fstype: "ext4"},
		{Mountpoint: "/proc", Fstype: "proc"},
		{Mountpoint: "/sys", Fstype: "sysfs"},
		{Mountpoint: "/run", Fstype: "tmpfs"},
		{Mountpoint: "/home", Fstype: "btrfs"},
	}

	var requested []bool
	partitions := func(all bool) ([]disk.PartitionStat, error) {
		requested = append(requested, all)
		return parts, nil
	}

	filtered := &PartitionRootLister{root: "/", partitions: partitions}
	assert.Equal(t, []Volume{{Path: "/"}, {Path: "/home"}}, filtered.ListRoots())

	everything := &PartitionRootLister{root: "/", all: true, partitions: partitions}
	assert.Equal(t, []Volume{
		{Path: "/"},
		{Path: "/proc"},
		{Path: "/sys"},
		{Path: "/run"},
		{Path: "/home"},
	}, everything.ListRoots())

	assert.Equal(t, []bool{true, true}, requested)
}

func TestPartitionRootLister_ErrorYieldsRootOnly(t *testing.T) {
	lister := &PartitionRootLister{
		root:       "/",
		partitions: staticPartitions(nil, errors.New("mountinfo unavailable")),
	}

	assert.Equal(t, []Volume{{Path: "/"}}, lister.ListRoots())
}

func TestPartitionRootLister_ErrorWithoutRootYieldsNoVolumes(t *testing.T) {
	lister := &PartitionRootLister{
		partitions: staticPartitions(nil, errors.New("GetLogicalDrives failed")),
	}

	volumes := lister.ListRoots()
	assert.NotNil(t, volumes)
	assert.Empty(t, volumes)
}

func TestPartitionRootLister_ErrorKeepsPartialResult(t *testing.T) {
	lister := &PartitionRootLister{
		partitions: staticPartitions([]disk.PartitionStat{
			{Mountpoint: "/mnt/usb", Fstype: "exfat"},
		}, errors.New("warning: one drive not ready")),
	}

	assert.Equal(t, []Volume{{Path: "/mnt/usb"}}, lister.ListRoots())
}

func TestRootPath(t *testing.T) {
	assert.Equal(t, "/", rootPath("/"))
	assert.Equal(t, "/mnt/data", rootPath("/mnt/data"))

	if runtime.GOOS == "windows" {
		assert.Equal(t, `C:\`, rootPath("C:"))
		assert.Equal(t, `C:\`, rootPath(`C:\`))
		assert.Equal(t, `D:\mnt`, rootPath(`D:\mnt`))
	}
}

func TestIsFilesystemRoot(t *testing.T) {
	assert.True(t, isFilesystemRoot("/"))
	assert.False(t, isFilesystemRoot("/data"))

	if runtime.GOOS == "windows" {
		assert.True(t, isFilesystemRoot(`C:\`))
		assert.False(t, isFilesystemRoot(`C:\mnt`))
	}
}

func TestNewPartitionRootLister_EnumeratesHost(t *testing.T) {
	volumes := NewPartitionRootLister(false).ListRoots()
	for _, v := range volumes {
		assert.NotEmpty(t, v.Path)
	}

	if runtime.GOOS != "windows" {
		require.NotEmpty(t, volumes)
		assert.Equal(t, "/", volumes[0].Path)
	}
}
