//go:build freebsd

package kernel

import (
	"unsafe"

	"golang.org/x/sys/unix"

	sysctl "github.com/frobware/go-sysctl"
)

// Sysctl performs one __sysctl(2) call. See sysctl.Raw for the
// old/new buffer protocol. The returned length is whatever the kernel
// left in *oldlenp: the required size on a probe, the bytes written
// on a fetch.
func (Interface) Sysctl(mib sysctl.MIB, old, new []byte) (int, error) {
	if len(mib) == 0 {
		return 0, unix.EINVAL
	}
	var oldp, newp unsafe.Pointer
	oldlen := uintptr(len(old))
	if len(old) > 0 {
		oldp = unsafe.Pointer(&old[0])
	}
	if len(new) > 0 {
		newp = unsafe.Pointer(&new[0])
	}
	_, _, errno := unix.Syscall6(unix.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])), uintptr(len(mib)),
		uintptr(oldp), uintptr(unsafe.Pointer(&oldlen)),
		uintptr(newp), uintptr(len(new)))
	if errno != 0 {
		return int(oldlen), errno
	}
	return int(oldlen), nil
}
