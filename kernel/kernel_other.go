//go:build !freebsd

package kernel

import (
	sysctl "github.com/frobware/go-sysctl"
)

// Sysctl fails with sysctl.ErrUnsupported; the FreeBSD sysctl tree
// does not exist on other platforms.
func (Interface) Sysctl(mib sysctl.MIB, old, new []byte) (int, error) {
	return 0, sysctl.ErrUnsupported
}
