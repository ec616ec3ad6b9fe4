//go:build freebsd

package ntptime

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type systemCaller struct{}

// NTPGetTime issues ntp_gettime(2). The syscall's first return value
// is the clock state.
func (systemCaller) NTPGetTime(buf []byte) (int32, error) {
	if len(buf) == 0 {
		return 0, unix.EINVAL
	}
	r1, _, errno := unix.Syscall(unix.SYS_NTP_GETTIME,
		uintptr(unsafe.Pointer(&buf[0])), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int32(r1), nil
}
