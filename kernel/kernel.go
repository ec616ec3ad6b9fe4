// Package kernel is the real sysctl transport. It is the only
// package in this module that issues syscalls; everything above it
// works against the sysctl.Raw interface so tests can substitute a
// fake kernel.
package kernel

// Interface is the system transport. It is stateless; the zero value
// is usable, but New reads better at call sites.
type Interface struct{}

// New returns the system transport.
func New() Interface {
	return Interface{}
}
