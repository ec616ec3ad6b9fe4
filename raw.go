package sysctl

// Raw is the low-level sysctl transport: one get/set call against the
// kernel interface. The kernel package provides the real syscall
// implementation; tests substitute fakes.
//
// A single call covers every shape of the protocol:
//
//   - old == nil, new == nil: size probe, the returned length is the
//     space the value currently needs.
//   - old != nil: fetch, the value is copied into old and the
//     returned length is the number of bytes written.
//   - new != nil: set, the kernel consumes new as the node's next
//     value. Name resolution passes the dotted name here.
//
// Errors are native errnos (unix.Errno), unmodified. Implementations
// must be safe for concurrent use; each call owns its buffers
// exclusively.
type Raw interface {
	Sysctl(mib MIB, old, new []byte) (int, error)
}
