// Package sectorio provides a buffered, sector-aligned reader over any
// io.ReadSeeker, so callers that need arbitrary byte-granularity random
// access (the MFT parser) can sit on top of a source that only tolerates
// sector-aligned reads and seeks (a raw block device) — SPEC_FULL.md §4.2.
package sectorio

import (
	"io"
)

// Reader presents byte-granularity Read/Seek over a sector-aligned source.
type Reader struct {
	inner      io.ReadSeeker
	sectorSize int

	buf        []byte // staging buffer, 2*sectorSize
	bufStart   int64  // byte offset of buf[0] in the underlying source
	bufValid   int    // number of valid bytes currently in buf
	pos        int64  // logical position
}

// New wraps inner with a sector-aligned buffering reader. sectorSize is
// typically 4096.
func New(inner io.ReadSeeker, sectorSize int) *Reader {
	return &Reader{
		inner:      inner,
		sectorSize: sectorSize,
		buf:        make([]byte, sectorSize*2),
	}
}

// Seek updates the logical position. SeekFrom End is delegated to inner.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		r.pos = offset
	case io.SeekCurrent:
		r.pos += offset
	case io.SeekEnd:
		end, err := r.inner.Seek(offset, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		r.pos = end
	}
	return r.pos, nil
}

// refill seeks the underlying source to the sector containing the logical
// position and reloads the staging buffer.
func (r *Reader) refill() error {
	sectorStart := (r.pos / int64(r.sectorSize)) * int64(r.sectorSize)
	if _, err := r.inner.Seek(sectorStart, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(r.inner, r.buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	r.bufStart = sectorStart
	r.bufValid = n
	return nil
}

// Read serves the request from the buffered sector window, refilling on a
// miss, and advances the logical position by the number of bytes copied.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	sectorStart := (r.pos / int64(r.sectorSize)) * int64(r.sectorSize)
	if r.bufValid == 0 || r.bufStart != sectorStart {
		if err := r.refill(); err != nil {
			return 0, err
		}
	}

	offsetInBuf := int(r.pos - r.bufStart)
	if offsetInBuf >= r.bufValid {
		return 0, io.EOF
	}

	n := copy(p, r.buf[offsetInBuf:r.bufValid])
	r.pos += int64(n)

	if offsetInBuf+n >= r.bufValid {
		// Exhausted the current buffer window; invalidate so the next read refills.
		r.bufValid = 0
	}
	return n, nil
}
