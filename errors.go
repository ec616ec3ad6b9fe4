package sysctl

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrUnsupported is returned by the stub transport on platforms other
// than FreeBSD.
var ErrUnsupported = errors.New("sysctl is only supported on FreeBSD")

// ErrNameNotFound is returned when name resolution finds no node with
// the given dotted name.
type ErrNameNotFound struct {
	Name  string
	Errno unix.Errno
}

func (e ErrNameNotFound) Error() string {
	return fmt.Sprintf("sysctl name %q: no such node", e.Name)
}

func (e ErrNameNotFound) Unwrap() error { return e.Errno }

// ErrNodeNotFound is returned when a numeric MIB path identifies no
// node in the kernel.
type ErrNodeNotFound struct {
	MIB   MIB
	Errno unix.Errno
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("sysctl %s: no such node", e.MIB)
}

func (e ErrNodeNotFound) Unwrap() error { return e.Errno }

// ErrPermission is returned when the caller lacks privilege for a
// node.
type ErrPermission struct {
	MIB   MIB
	Write bool
	Errno unix.Errno
}

func (e ErrPermission) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("sysctl %s: %s not permitted", e.MIB, op)
}

func (e ErrPermission) Unwrap() error { return e.Errno }

// ErrReadOnly is returned when writing a node the kernel exposes
// without the write flag.
type ErrReadOnly struct {
	MIB   MIB
	Errno unix.Errno
}

func (e ErrReadOnly) Error() string {
	return fmt.Sprintf("sysctl %s: node is read-only", e.MIB)
}

func (e ErrReadOnly) Unwrap() error { return e.Errno }

// ErrTypeMismatch is returned when the kernel rejects a write because
// the supplied buffer does not match the node's type. Detection is by
// the call's own error status, not pre-validation.
type ErrTypeMismatch struct {
	MIB   MIB
	Size  int
	Errno unix.Errno
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("sysctl %s: kernel rejected %d-byte value", e.MIB, e.Size)
}

func (e ErrTypeMismatch) Unwrap() error { return e.Errno }

// ErrSizeRace is returned when a value kept growing between the size
// probe and the fetch, even after the single retry.
type ErrSizeRace struct {
	MIB   MIB
	Errno unix.Errno
}

func (e ErrSizeRace) Error() string {
	return fmt.Sprintf("sysctl %s: value size changed during read, retried once", e.MIB)
}

func (e ErrSizeRace) Unwrap() error { return e.Errno }

// ErrDecode is returned when a returned buffer is inconsistent with
// the expected type. The buffer is never truncated or zero-extended
// to fit.
type ErrDecode struct {
	Reason string
	Want   int
	Got    int
}

func (e ErrDecode) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("sysctl: decode %s: expected %d bytes, got %d", e.Reason, e.Want, e.Got)
	}
	return fmt.Sprintf("sysctl: decode: expected %d bytes, got %d", e.Want, e.Got)
}

// readError maps a native get-call failure onto the error taxonomy.
// The errno is carried unmodified and reachable via errors.Is.
func readError(mib MIB, err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return fmt.Errorf("sysctl %s: %w", mib, err)
	}
	switch errno {
	case unix.ENOENT, unix.ENOTDIR:
		return ErrNodeNotFound{MIB: mib.Clone(), Errno: errno}
	case unix.EPERM, unix.EACCES:
		return ErrPermission{MIB: mib.Clone(), Errno: errno}
	}
	return fmt.Errorf("sysctl %s: %w", mib, errno)
}
