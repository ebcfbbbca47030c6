//go:build windows

package mft

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// openVolumePlatform opens a raw, read-only handle to \\.\<L>: using
// CreateFile directly rather than the os.Open path, since a volume handle
// needs FILE_SHARE_READ|FILE_SHARE_WRITE to open successfully while the
// volume is mounted (SPEC_FULL.md §4.3).
func openVolumePlatform(driveLetter string) (io.ReadSeeker, io.Closer, error) {
	path := `\\.\` + driveLetter + `:`
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, nil, fmt.Errorf("encode device path %s: %w", path, err)
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open device %s: %w", path, err)
	}

	f := os.NewFile(uintptr(handle), path)
	return f, f, nil
}
