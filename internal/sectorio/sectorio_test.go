package sectorio

import (
	"bytes"
	"io"
	"testing"
)

func makeSource(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	return buf
}

func TestReadConcatenationMatchesSlice(t *testing.T) {
	data := makeSource(4096 * 4)
	src := bytes.NewReader(data)
	r := New(src, 512)

	start := 100
	total := 3000
	if _, err := r.Seek(int64(start), io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	var got []byte
	chunk := make([]byte, 37) // odd size to force many partial reads
	remaining := total
	for remaining > 0 {
		want := len(chunk)
		if remaining < want {
			want = remaining
		}
		n, err := r.Read(chunk[:want])
		if err != nil && err != io.EOF {
			t.Fatalf("read: %v", err)
		}
		got = append(got, chunk[:n]...)
		remaining -= n
		if n == 0 {
			break
		}
	}

	want := data[start : start+total]
	if !bytes.Equal(got, want) {
		t.Fatalf("read mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}

func TestReadAcrossSectorBoundaryMatchesUnbuffered(t *testing.T) {
	data := makeSource(8192)
	sectorSize := 512

	src1 := bytes.NewReader(data)
	r := New(src1, sectorSize)
	// Straddle a sector boundary: start 3 bytes before a boundary, read 10.
	boundary := sectorSize * 2
	if _, err := r.Seek(int64(boundary-3), io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	got := make([]byte, 10)
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatalf("read: %v", err)
	}

	want := data[boundary-3 : boundary-3+10]
	if !bytes.Equal(got, want) {
		t.Fatalf("spanning read mismatch: got %v want %v", got, want)
	}
}

func TestSeekEndDelegatesToInner(t *testing.T) {
	data := makeSource(1024)
	r := New(bytes.NewReader(data), 512)
	pos, err := r.Seek(-10, io.SeekEnd)
	if err != nil {
		t.Fatalf("seek end: %v", err)
	}
	if pos != int64(len(data)-10) {
		t.Fatalf("expected pos %d, got %d", len(data)-10, pos)
	}
	got := make([]byte, 10)
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data[len(data)-10:]) {
		t.Fatalf("tail read mismatch")
	}
}

func TestReadPastEndReturnsEOF(t *testing.T) {
	data := makeSource(512)
	r := New(bytes.NewReader(data), 512)
	if _, err := r.Seek(600, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	buf := make([]byte, 10)
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF past end of source, got %v", err)
	}
}
