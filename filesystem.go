package fat

// FileSystem ties a BlockDevice, BootSector, and FatTable together just
// enough to open a volume's directory tables by cluster chain — it is the
// thin façade spec §6 sketches as an external collaborator of the
// directory subsystem. Mounting/unmounting, file data I/O, and formatting
// remain out of scope (spec §1); FileSystem exists only so Entry's
// IterIfDirectory has somewhere real to resolve a child directory.
type FileSystem struct {
	bd        BlockDevice
	boot      *BootSector
	fat       FatTable
	blockSize int
}

// NewFileSystem wires the three collaborators together for directory
// traversal. blockSize must match the BootSector's own sector size.
func NewFileSystem(bd BlockDevice, boot *BootSector, fat FatTable, blockSize int) *FileSystem {
	return &FileSystem{bd: bd, boot: boot, fat: fat, blockSize: blockSize}
}

// OpenRoot parses the volume's root directory: the fixed-size region for
// FAT12/16, or the cluster chain starting at the BPB's root cluster for FAT32.
func (fsys *FileSystem) OpenRoot() (*DirectoryTable, error) {
	if fsys.boot.IsFAT32() {
		return fsys.openClusterChain(fsys.boot.RootCluster())
	}
	startLBA, byteLen := fsys.boot.RootDirRegion()
	numBlocks := byteLen / fsys.blockSize
	return ReadDirectoryRegion(fsys.bd, startLBA, fsys.blockSize, numBlocks, false)
}

func (fsys *FileSystem) openClusterChain(start uint32) (*DirectoryTable, error) {
	var data []byte
	spc := fsys.boot.SectorsPerCluster()
	c := start
	for c != 0 && c < clusterBad {
		buf := make([]byte, spc*fsys.blockSize)
		lba := fsys.clusterToLBA(c)
		n, err := fsys.bd.ReadBlocks(buf, lba)
		if err != nil {
			return nil, wrapDiskErr(ErrCorrupt, err, "reading cluster %d", c)
		}
		if n != len(buf) {
			return nil, errKind(ErrCorrupt, "short read of cluster %d: got %d want %d", c, n, len(buf))
		}
		data = append(data, buf...)
		next, free := fsys.fat.ClusterStatus(c)
		if free {
			break
		}
		c = next
	}
	d, err := ParseDirectoryTable(data, fsys.boot.IsFAT32())
	if err != nil {
		return nil, err
	}
	// A cluster-chain directory (FAT32 root or any subdirectory) can grow.
	d.Resizable = true
	return d, nil
}

// clusterToLBA maps a data cluster to its first LBA. The data region begins
// right after the fixed-size root directory region that RootDirRegion
// describes for FAT12/16; for FAT32 that region has length 0, so the data
// region starts right after the reserved area and FAT copies.
func (fsys *FileSystem) clusterToLBA(c uint32) int64 {
	rootStartLBA, rootLen := fsys.boot.RootDirRegion()
	rootSectors := (rootLen + fsys.blockSize - 1) / fsys.blockSize
	dataStartLBA := rootStartLBA + int64(rootSectors)
	return dataStartLBA + int64(c-2)*int64(fsys.boot.SectorsPerCluster())
}

// Entry exposes one directory record's ShortEntry contract plus the
// long-name and traversal operations spec §6 sketches for a full façade.
type Entry struct {
	table *DirectoryTable
	le    *LogicalEntry
	fsys  *FileSystem
}

// NewEntry wraps a LogicalEntry from table for long-name and traversal use.
// le.Short must be non-nil (Kind LogicalShort or LogicalVolumeLabel).
func (fsys *FileSystem) NewEntry(table *DirectoryTable, le *LogicalEntry) *Entry {
	return &Entry{table: table, le: le, fsys: fsys}
}

// Short returns the underlying 8.3 directory record.
func (e *Entry) Short() *ShortEntry { return e.le.Short }

// LongName returns the resolved long name, falling back to the short
// entry's own Name() when no LFN chain was present or it failed to verify.
func (e *Entry) LongName() string {
	if e.le.LongName != "" {
		return e.le.LongName
	}
	return e.le.Short.Name()
}

// SetLongName renames the entry via DirectoryTable.Rename, regenerating its
// short name and LFN chain; the records may move within the table.
func (e *Entry) SetLongName(name string) error {
	if err := e.table.Rename(e.le.Short, name); err != nil {
		return err
	}
	e.le.LongName = name
	return nil
}

// IterIfDirectory opens and returns the child directory this entry points
// to, or ok=false if the entry is not a directory.
func (e *Entry) IterIfDirectory() (table *DirectoryTable, ok bool, err error) {
	if !e.le.Short.IsDirectory() {
		return nil, false, nil
	}
	d, err := e.fsys.openClusterChain(e.le.Short.StartCluster())
	if err != nil {
		return nil, true, err
	}
	return d, true, nil
}
