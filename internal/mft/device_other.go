//go:build !windows

package mft

import "io"

// openVolumePlatform has no non-Windows implementation: raw NTFS volume
// access via \\.\<L>: is a Windows-only concept. Always returning
// ErrScanOpen is what drives the controller's unconditional fallback to the
// walker on non-Windows hosts (SPEC_FULL.md §4.3, §4.5).
func openVolumePlatform(driveLetter string) (io.ReadSeeker, io.Closer, error) {
	return nil, nil, errUnsupportedPlatform
}

var errUnsupportedPlatform = errPlatform("mft: raw volume access is only supported on windows")

type errPlatform string

func (e errPlatform) Error() string { return string(e) }
