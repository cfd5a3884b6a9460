//go:build windows

package memguard

import "golang.org/x/sys/windows"

func lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.VirtualLock(&b[0], uintptr(len(b)))
}

func unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.VirtualUnlock(&b[0], uintptr(len(b)))
}
