// Package mft implements the NTFS Master File Table fast path (SPEC_FULL.md
// §4.3): it reads a volume's boot sector and MFT records directly off the
// raw block device, bypassing the filesystem API entirely.
package mft

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/sectorio"
)

// Sentinel error kinds (SPEC_FULL.md §7).
var (
	ErrScanOpen  = errors.New("mft: cannot open raw device")
	ErrScanParse = errors.New("mft: boot sector or record parse failure")
)

const (
	recordSize        = 1024
	attrFilename      = 0x30
	endOfAttributes   = 0xFFFFFFFF
	maxRecordsScanned = 1_000_000
	logEveryRecords   = 50_000
)

// BootSector holds the geometry fields this core needs.
type BootSector struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	MFTOffset         int64
}

// parseBootSector decodes the fields this core cares about from the first
// 512 bytes of a volume. The MFT starting LCN at offset 0x30 is read as 8
// bytes little-endian unsigned, per SPEC_FULL.md §9's note on the known bug
// in the source this was distilled from.
func parseBootSector(buf []byte) (BootSector, error) {
	if len(buf) < 512 {
		return BootSector{}, fmt.Errorf("%w: boot sector too short", ErrScanParse)
	}
	bytesPerSector := binary.LittleEndian.Uint16(buf[0x0B:])
	sectorsPerCluster := buf[0x0D]
	mftLCN := binary.LittleEndian.Uint64(buf[0x30:])

	clusterSize := uint64(bytesPerSector) * uint64(sectorsPerCluster)
	return BootSector{
		BytesPerSector:    bytesPerSector,
		SectorsPerCluster: sectorsPerCluster,
		MFTOffset:         int64(mftLCN * clusterSize),
	}, nil
}

// applyFixups validates and restores the USA/USN-protected sector-end bytes
// of one MFT record in place. It returns false if the record is corrupt and
// should be skipped (SPEC_FULL.md §4.3).
func applyFixups(buf []byte, bytesPerSector int) bool {
	if len(buf) < 8 || bytesPerSector <= 0 {
		return false
	}
	usaOffset := int(binary.LittleEndian.Uint16(buf[4:]))
	usaCount := int(binary.LittleEndian.Uint16(buf[6:]))
	if usaCount == 0 {
		return false
	}

	end := usaOffset + usaCount*2
	if usaOffset < 0 || end > len(buf) {
		return false
	}
	usn := binary.LittleEndian.Uint16(buf[usaOffset:])

	for i := 0; i < usaCount-1; i++ {
		idx := usaOffset + (i+1)*2
		original := binary.LittleEndian.Uint16(buf[idx:])
		posOfStrip := (i+1)*bytesPerSector - 2
		if posOfStrip+2 > len(buf) {
			return false
		}
		onDisk := binary.LittleEndian.Uint16(buf[posOfStrip:])
		if onDisk != usn {
			return false
		}
		binary.LittleEndian.PutUint16(buf[posOfStrip:], original)
	}
	return true
}

// decodedRecord is what the attribute walk of one MFT record yields.
type decodedRecord struct {
	name     string
	isDir    bool
	fileSize *int64
	inUse    bool
}

func decodeRecord(buf []byte) (decodedRecord, bool) {
	if len(buf) < 0x18 {
		return decodedRecord{}, false
	}
	flags := binary.LittleEndian.Uint16(buf[0x16:])
	inUse := flags&0x01 != 0

	firstAttrOffset := int(binary.LittleEndian.Uint16(buf[0x14:]))

	var name string
	var isDir bool
	var fileSize *int64

	pos := firstAttrOffset
	for {
		if pos < 0 || pos+8 > len(buf) {
			break
		}
		attrType := binary.LittleEndian.Uint32(buf[pos:])
		if attrType == endOfAttributes {
			break
		}
		attrLen := binary.LittleEndian.Uint32(buf[pos+4:])
		if attrLen == 0 {
			break
		}

		if attrType == attrFilename && name == "" {
			if decoded, ok := decodeFilenameAttr(buf, pos); ok {
				name = decoded.name
				isDir = decoded.isDir
				fileSize = decoded.fileSize
			}
		}

		next := pos + int(attrLen)
		if next <= pos {
			break
		}
		pos = next
	}

	return decodedRecord{name: name, isDir: isDir, fileSize: fileSize, inUse: inUse}, true
}

func decodeFilenameAttr(buf []byte, attrStart int) (decodedRecord, bool) {
	if attrStart+9 > len(buf) {
		return decodedRecord{}, false
	}
	nonResident := buf[attrStart+8]
	if nonResident != 0 {
		return decodedRecord{}, false // only resident FILENAME attributes are decoded
	}
	if attrStart+22 > len(buf) {
		return decodedRecord{}, false
	}
	contentOffset := int(binary.LittleEndian.Uint16(buf[attrStart+20:]))
	contentBase := attrStart + contentOffset

	var isDir bool
	var fileSize *int64
	if contentBase+52 <= len(buf) {
		flags := binary.LittleEndian.Uint32(buf[contentBase+48:])
		isDir = flags&0x10000000 != 0
	}
	if contentBase+64 <= len(buf) {
		size := binary.LittleEndian.Uint64(buf[contentBase+56:])
		s := int64(size)
		fileSize = &s
	}
	if contentBase+66 > len(buf) {
		return decodedRecord{}, false
	}
	nameLen := int(buf[contentBase+64])
	nameBytesStart := contentBase + 66
	nameBytesLen := nameLen * 2
	if nameBytesStart+nameBytesLen > len(buf) {
		return decodedRecord{}, false
	}

	units := make([]uint16, nameLen)
	for i := 0; i < nameLen; i++ {
		units[i] = binary.LittleEndian.Uint16(buf[nameBytesStart+i*2:])
	}
	name := string(utf16.Decode(units))
	if name == "" {
		return decodedRecord{}, false
	}
	return decodedRecord{name: name, isDir: isDir, fileSize: fileSize}, true
}

// extension reproduces the source's exact extension extraction: the
// substring from the last '.' inclusive, e.g. "archive.tar.gz" -> ".gz"
// (SPEC_FULL.md §4.3 / §9).
func extension(name string) *string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return nil
	}
	ext := name[idx:]
	return &ext
}

// FlushFunc persists one batch; it is supplied by the indexing controller,
// which owns the shared batch-flush-with-retry policy (SPEC_FULL.md §4.5).
type FlushFunc func([]record.FileRecord) error

// ProgressFunc reports one progress event.
type ProgressFunc func(record.IndexingProgress)

// VolumeOpener opens a raw, read-only handle to an entire NTFS volume given
// its drive letter (e.g. "C"). Implemented per-platform.
type VolumeOpener func(driveLetter string) (io.ReadSeeker, io.Closer, error)

// openVolume is replaced by platform-specific device_*.go files.
var openVolume VolumeOpener = openVolumePlatform

// Scan walks the MFT of driveLetter's volume and yields FileRecords to
// flush. It returns the count of files found, or an error wrapping
// ErrScanOpen/ErrScanParse if the volume cannot be opened or its boot sector
// is unreadable — both of which the controller treats as "fall back to the
// walker" (SPEC_FULL.md §4.5).
func Scan(driveLetter string, flush FlushFunc, onProgress ProgressFunc, stop func() bool) (int, error) {
	src, closer, err := openVolume(driveLetter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScanOpen, err)
	}
	defer closer.Close()

	r := sectorio.New(src, 4096)

	bootBuf := make([]byte, 512)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: seek boot sector: %v", ErrScanParse, err)
	}
	if _, err := io.ReadFull(r, bootBuf); err != nil {
		return 0, fmt.Errorf("%w: read boot sector: %v", ErrScanParse, err)
	}
	boot, err := parseBootSector(bootBuf)
	if err != nil {
		return 0, err
	}

	if _, err := r.Seek(boot.MFTOffset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: seek MFT: %v", ErrScanParse, err)
	}

	var batch []record.FileRecord
	filesFound := 0
	recBuf := make([]byte, recordSize)

	for i := 0; i < maxRecordsScanned; i++ {
		if stop != nil && stop() {
			break
		}
		if _, err := io.ReadFull(r, recBuf); err != nil {
			break // read_exact failure at a record boundary ends the scan normally
		}

		if string(recBuf[0:4]) != "FILE" {
			continue
		}
		if !applyFixups(recBuf, int(boot.BytesPerSector)) {
			continue
		}

		decoded, ok := decodeRecord(recBuf)
		if !ok {
			continue
		}
		if !decoded.inUse || decoded.name == "" {
			continue
		}

		now := time.Now().UTC().Format(time.RFC3339)
		fr := record.FileRecord{
			Path:         driveLetter + ":\\" + decoded.name,
			Name:         decoded.name,
			IsDir:        decoded.isDir,
			ModifiedTime: now,
			LastIndexed:  now,
		}
		if !decoded.isDir {
			fr.Extension = extension(decoded.name)
			fr.FileSize = decoded.fileSize
		}

		batch = append(batch, fr)
		filesFound++

		if onProgress != nil {
			onProgress(record.IndexingProgress{
				CurrentPath:    driveLetter + `:\...`,
				FilesProcessed: filesFound,
				Status:         record.StatusIndexing,
			})
		}

		if len(batch) >= 5000 {
			if err := flush(batch); err != nil {
				return filesFound, err
			}
			batch = batch[:0]
		}

		if i > 0 && i%logEveryRecords == 0 {
			// No log line is written at this interval; every emitted record is
			// already reported through onProgress.
		}
	}

	if len(batch) > 0 {
		if err := flush(batch); err != nil {
			return filesFound, err
		}
	}

	return filesFound, nil
}
