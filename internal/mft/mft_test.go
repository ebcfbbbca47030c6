package mft

import (
	"encoding/binary"
	"io"
	"testing"
	"unicode/utf16"

	"github.com/ale-01cu/oxisearch/internal/record"
)

const testBytesPerSector = 512

// fixtureRecord builds a syntactically valid 1024-byte MFT record with a
// resident FILENAME attribute, then overwrites each sector-end word with a
// USN the way a real on-disk record would look, and records the originals in
// the Update Sequence Array so applyFixups can restore them.
func fixtureRecord(name string, isDir bool, size uint64, inUse bool, usn uint16) []byte {
	buf := make([]byte, recordSize)
	copy(buf[0:4], "FILE")

	usaOffset := 0x30
	usaCount := recordSize/testBytesPerSector + 1 // 2 sectors -> 3 words (USN + 2 originals)
	binary.LittleEndian.PutUint16(buf[4:], uint16(usaOffset))
	binary.LittleEndian.PutUint16(buf[6:], uint16(usaCount))

	flags := uint16(0)
	if inUse {
		flags |= 0x01
	}
	binary.LittleEndian.PutUint16(buf[0x16:], flags)

	firstAttrOffset := 0x38
	binary.LittleEndian.PutUint16(buf[0x14:], uint16(firstAttrOffset))

	// FILENAME attribute header.
	attrStart := firstAttrOffset
	contentOffset := 24
	contentBase := attrStart + contentOffset
	nameUnits := utf16.Encode([]rune(name))
	nameBytesLen := len(nameUnits) * 2
	attrLen := contentOffset + 66 + nameBytesLen
	// pad attribute length to a multiple of 8, as real attributes are.
	for attrLen%8 != 0 {
		attrLen++
	}

	binary.LittleEndian.PutUint32(buf[attrStart:], attrFilename)
	binary.LittleEndian.PutUint32(buf[attrStart+4:], uint32(attrLen))
	buf[attrStart+8] = 0 // resident
	binary.LittleEndian.PutUint16(buf[attrStart+20:], uint16(contentOffset))

	fileFlags := uint32(0)
	if isDir {
		fileFlags |= 0x10000000
	}
	binary.LittleEndian.PutUint32(buf[contentBase+48:], fileFlags)
	binary.LittleEndian.PutUint64(buf[contentBase+56:], size)
	buf[contentBase+64] = byte(len(nameUnits))
	buf[contentBase+65] = 0x01 // namespace, unused
	for i, u := range nameUnits {
		binary.LittleEndian.PutUint16(buf[contentBase+66+i*2:], u)
	}

	// End-of-attributes marker right after the FILENAME attribute.
	endPos := attrStart + attrLen
	binary.LittleEndian.PutUint32(buf[endPos:], endOfAttributes)

	// Now overlay the USN at each sector-end word, recording the originals
	// in the USA, exactly as NTFS does on disk.
	usaBytes := make([]byte, usaCount*2)
	binary.LittleEndian.PutUint16(usaBytes[0:], usn)
	for i := 0; i < usaCount-1; i++ {
		pos := (i+1)*testBytesPerSector - 2
		original := buf[pos : pos+2]
		copy(usaBytes[(i+1)*2:], original)
		binary.LittleEndian.PutUint16(buf[pos:], usn)
	}
	copy(buf[usaOffset:], usaBytes)

	return buf
}

func TestApplyFixupsRestoresAndValidates(t *testing.T) {
	buf := fixtureRecord("hello.txt", false, 123, true, 0xABCD)
	if !applyFixups(buf, testBytesPerSector) {
		t.Fatalf("expected fixups to apply cleanly")
	}
	// The restored bytes at sector boundaries should no longer equal the USN
	// (unless by coincidence equal to original, which fixtureRecord avoids
	// since boundaries fall inside the zeroed tail of the record).
	pos := testBytesPerSector - 2
	if binary.LittleEndian.Uint16(buf[pos:]) == 0xABCD {
		t.Fatalf("expected original bytes restored at sector boundary")
	}
}

func TestApplyFixupsRejectsWrongUSN(t *testing.T) {
	buf := fixtureRecord("hello.txt", false, 123, true, 0xABCD)
	// Corrupt the on-disk USN at the first sector boundary.
	pos := testBytesPerSector - 2
	binary.LittleEndian.PutUint16(buf[pos:], 0xFFFF)
	if applyFixups(buf, testBytesPerSector) {
		t.Fatalf("expected fixup validation to fail on mismatched USN")
	}
}

func TestDecodeRecordResidentFilename(t *testing.T) {
	buf := fixtureRecord("archive.tar.gz", false, 4096, true, 0x1111)
	if !applyFixups(buf, testBytesPerSector) {
		t.Fatalf("fixups should apply")
	}
	decoded, ok := decodeRecord(buf)
	if !ok {
		t.Fatalf("expected decode ok")
	}
	if decoded.name != "archive.tar.gz" {
		t.Fatalf("expected name archive.tar.gz, got %q", decoded.name)
	}
	if decoded.isDir {
		t.Fatalf("expected non-directory")
	}
	if decoded.fileSize == nil || *decoded.fileSize != 4096 {
		t.Fatalf("expected size 4096, got %v", decoded.fileSize)
	}
	if !decoded.inUse {
		t.Fatalf("expected in-use flag set")
	}
	if got := extension(decoded.name); got == nil || *got != ".gz" {
		t.Fatalf("expected extension .gz, got %v", got)
	}
}

func TestDecodeRecordDirectory(t *testing.T) {
	buf := fixtureRecord("subdir", true, 0, true, 0x2222)
	applyFixups(buf, testBytesPerSector)
	decoded, ok := decodeRecord(buf)
	if !ok || !decoded.isDir {
		t.Fatalf("expected directory decode, got %+v ok=%v", decoded, ok)
	}
}

func TestEndOfAttributesTerminatesWalkWithoutFilename(t *testing.T) {
	buf := make([]byte, recordSize)
	copy(buf[0:4], "FILE")
	binary.LittleEndian.PutUint16(buf[0x14:], 0x38)
	binary.LittleEndian.PutUint32(buf[0x38:], endOfAttributes)
	decoded, ok := decodeRecord(buf)
	if !ok {
		t.Fatalf("expected decode to still return ok=true (empty result)")
	}
	if decoded.name != "" {
		t.Fatalf("expected no filename decoded, got %q", decoded.name)
	}
}

// fakeVolume is an in-memory io.ReadSeeker + io.Closer standing in for a raw
// device, used to drive Scan end to end without touching real hardware.
type fakeVolume struct {
	data []byte
	pos  int64
}

func (f *fakeVolume) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (f *fakeVolume) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.pos = offset
	case io.SeekCurrent:
		f.pos += offset
	case io.SeekEnd:
		f.pos = int64(len(f.data)) + offset
	}
	return f.pos, nil
}

func (f *fakeVolume) Close() error { return nil }

func buildBootSector(bytesPerSector uint16, sectorsPerCluster byte, mftLCN uint64) []byte {
	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf[0x0B:], bytesPerSector)
	buf[0x0D] = sectorsPerCluster
	binary.LittleEndian.PutUint64(buf[0x30:], mftLCN)
	return buf
}

func TestScanEndToEndTwoValidOneCorrupted(t *testing.T) {
	// Geometry: 512 B/sector, 1 sector/cluster -> cluster size 512; put the
	// MFT at cluster 2 (offset 1024) so it doesn't collide with the boot
	// sector read.
	boot := buildBootSector(512, 1, 2)

	good1 := fixtureRecord("foo.txt", false, 10, true, 0x1001)
	good2 := fixtureRecord("bar.txt", false, 20, true, 0x1002)
	corrupted := fixtureRecord("baz.txt", false, 30, true, 0x1003)
	// Corrupt the on-disk USN at one sector boundary so applyFixups rejects it.
	binary.LittleEndian.PutUint16(corrupted[testBytesPerSector-2:], 0xDEAD)

	var data []byte
	data = append(data, boot...)
	data = append(data, make([]byte, 1024-len(data))...) // pad to MFT offset 1024
	data = append(data, good1...)
	data = append(data, corrupted...)
	data = append(data, good2...)

	vol := &fakeVolume{data: data}
	origOpen := openVolume
	openVolume = func(driveLetter string) (io.ReadSeeker, io.Closer, error) {
		return vol, vol, nil
	}
	defer func() { openVolume = origOpen }()

	var names []string
	count, err := Scan("C", func(batch []record.FileRecord) error {
		for _, r := range batch {
			names = append(names, r.Name)
		}
		return nil
	}, nil, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 files found, got %d (names=%v)", count, names)
	}
}
