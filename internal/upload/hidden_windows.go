//go:build windows

package upload

import (
	"syscall"
)

const (
	fileAttributeHidden       = 0x02
	fileAttributeSystem       = 0x04
	fileAttributeReparsePoint = 0x0400
)

// isHidden reports entries with the hidden attribute and protected system
// junctions, which folder uploads leave out. Dot files count as hidden when
// the attributes cannot be read.
func isHidden(fullPath string, name string) bool {
	ptr, err := syscall.UTF16PtrFromString(fullPath)
	if err != nil {
		return len(name) > 0 && name[0] == '.'
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err != nil {
		return len(name) > 0 && name[0] == '.'
	}
	if attrs&fileAttributeHidden != 0 {
		return true
	}
	const protectedMask = fileAttributeSystem | fileAttributeReparsePoint
	return attrs&protectedMask == protectedMask
}
