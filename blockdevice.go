package fat

import "io"

// BlockDevice is the storage collaborator a directory table's raw byte
// region is read from and written back to. The directory subsystem never
// implements one itself — mounting a volume, walking the FAT cluster
// chain, and deciding which blocks hold which directory's region are all
// out of scope here (spec §1/§6) — but the interface shape matches the
// teacher's BlockDevice in fat.go so a DirectoryTable can be wired directly
// against a real implementation without an adapter layer.
type BlockDevice interface {
	ReadBlocks(dst []byte, startBlock int64) (int, error)
	WriteBlocks(data []byte, startBlock int64) (int, error)
	EraseBlocks(startBlock, numBlocks int64) error
	Size() int64
}

// ReadDirectoryRegion reads numBlocks of blockSize bytes starting at
// startBlock and parses them as a directory table. It is a thin
// convenience wired against BlockDevice for callers that already have a
// mounted volume; it does no caching or locking of its own.
func ReadDirectoryRegion(bd BlockDevice, startBlock int64, blockSize, numBlocks int, fat32 bool) (*DirectoryTable, error) {
	buf := make([]byte, blockSize*numBlocks)
	n, err := bd.ReadBlocks(buf, startBlock)
	if err != nil {
		return nil, wrapDiskErr(ErrCorrupt, err, "reading directory region at block %d", startBlock)
	}
	if n != len(buf) {
		return nil, wrapDiskErr(ErrCorrupt, io.ErrShortBuffer, "short read of directory region at block %d: got %d want %d", startBlock, n, len(buf))
	}
	return ParseDirectoryTable(buf, fat32)
}

// WriteDirectoryRegion serializes d and writes it back to the same region
// it was read from, when d is dirty. Callers that track their own dirty
// state may skip the Dirty() check and call WriteBlocks directly.
func WriteDirectoryRegion(bd BlockDevice, startBlock int64, d *DirectoryTable) error {
	if !d.Dirty() {
		return nil
	}
	buf := d.Serialize()
	n, err := bd.WriteBlocks(buf, startBlock)
	if err != nil {
		return wrapDiskErr(ErrCorrupt, err, "writing directory region at block %d", startBlock)
	}
	if n != len(buf) {
		return wrapDiskErr(ErrCorrupt, io.ErrShortWrite, "short write of directory region at block %d: wrote %d want %d", startBlock, n, len(buf))
	}
	d.ClearDirty()
	return nil
}

// MemBlockDevice is an in-memory BlockDevice, adapted from the teacher's
// fat_test.go BytesBlocks for use both in tests here and as a minimal
// reference implementation callers can embed during development.
type MemBlockDevice struct {
	blockSize int
	data      []byte
}

// NewMemBlockDevice allocates an in-memory device of numBlocks blocks of
// blockSize bytes each, zero-initialized.
func NewMemBlockDevice(blockSize, numBlocks int) *MemBlockDevice {
	return &MemBlockDevice{blockSize: blockSize, data: make([]byte, blockSize*numBlocks)}
}

func (b *MemBlockDevice) Size() int64 { return int64(len(b.data)) }

func (b *MemBlockDevice) ReadBlocks(dst []byte, startBlock int64) (int, error) {
	off := startBlock * int64(b.blockSize)
	if off < 0 || off+int64(len(dst)) > int64(len(b.data)) {
		return 0, io.ErrUnexpectedEOF
	}
	return copy(dst, b.data[off:off+int64(len(dst))]), nil
}

func (b *MemBlockDevice) WriteBlocks(data []byte, startBlock int64) (int, error) {
	off := startBlock * int64(b.blockSize)
	if off < 0 || off+int64(len(data)) > int64(len(b.data)) {
		return 0, io.ErrShortWrite
	}
	return copy(b.data[off:off+int64(len(data))], data), nil
}

func (b *MemBlockDevice) EraseBlocks(startBlock, numBlocks int64) error {
	off := startBlock * int64(b.blockSize)
	n := numBlocks * int64(b.blockSize)
	if off < 0 || off+n > int64(len(b.data)) {
		return io.ErrUnexpectedEOF
	}
	clear(b.data[off : off+n])
	return nil
}
