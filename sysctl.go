// Package sysctl is a FreeBSD sysctl(3) client: name-to-OID
// resolution, reads with the kernel's size-negotiation protocol,
// typed decoding, writes, and tree discovery.
//
// Every operation is a single independent request against the kernel
// interface; there is no session or handle to manage, and a Client is
// safe for concurrent use. Reads follow the kernel's two-step
// protocol (probe for size, then fetch), which is inherently racy
// when a value grows between the two calls: the read is retried
// exactly once with a fresh size, then fails with ErrSizeRace. A read
// is therefore not a guaranteed-consistent observation of a value
// that is concurrently resized.
package sysctl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Client retrieves and sets kernel parameters over a Raw transport.
// The zero value is not usable; construct with New.
type Client struct {
	raw    Raw
	logger *slog.Logger
}

// New creates a Client over the given transport. A nil logger falls
// back to slog.Default.
func New(raw Raw, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		raw:    raw,
		logger: logger.With("component", "sysctl"),
	}
}

// Resolve resolves a dotted name such as "kern.hostuuid" to its
// numeric MIB path via the kernel's name-resolution node. Unknown
// names return ErrNameNotFound.
func (c *Client) Resolve(name string) (MIB, error) {
	if name == "" {
		return nil, fmt.Errorf("sysctl: empty name")
	}
	if strings.ContainsRune(name, 0) {
		return nil, fmt.Errorf("sysctl: name %q contains NUL", name)
	}
	req := MIB{CTLSysctl, sysctlNameOID}
	buf, err := c.read(req, []byte(name))
	if err != nil {
		var notFound ErrNodeNotFound
		if errors.As(err, &notFound) {
			return nil, ErrNameNotFound{Name: name, Errno: notFound.Errno}
		}
		return nil, fmt.Errorf("resolve %q: %w", name, err)
	}
	return decodeMIB(buf, name)
}

func decodeMIB(buf []byte, what string) (MIB, error) {
	if len(buf) == 0 || len(buf)%mibComponentSize != 0 {
		return nil, ErrDecode{Reason: "MIB path", Want: mibComponentSize, Got: len(buf)}
	}
	mib := make(MIB, len(buf)/mibComponentSize)
	for i := range mib {
		mib[i] = int32(binary.NativeEndian.Uint32(buf[i*mibComponentSize:]))
	}
	if len(mib) > ctlMaxName {
		return nil, fmt.Errorf("sysctl: resolved path for %q has %d components", what, len(mib))
	}
	return mib, nil
}

// Read retrieves the raw value of a node. The returned buffer is
// exactly what the kernel produced; decode it with the typed helpers
// or the typed Client methods. A node whose value is currently empty
// yields an empty, non-nil buffer.
func (c *Client) Read(mib MIB) ([]byte, error) {
	return c.read(mib, nil)
}

// ReadByName resolves name and reads the node.
func (c *Client) ReadByName(name string) ([]byte, error) {
	mib, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	return c.Read(mib)
}

// read runs the two-phase protocol: size probe, exact-size fetch. If
// the value grew between the two calls the kernel reports ENOMEM; the
// sequence is retried once with a fresh probe and then gives up.
func (c *Client) read(mib MIB, new []byte) ([]byte, error) {
	buf, err := c.readOnce(mib, new)
	if err == nil {
		return buf, nil
	}
	if !errors.Is(err, unix.ENOMEM) {
		return nil, err
	}
	c.logger.Debug("value grew between size probe and fetch, retrying",
		"mib", mib.String())
	buf, err = c.readOnce(mib, new)
	if err == nil {
		return buf, nil
	}
	if errors.Is(err, unix.ENOMEM) {
		return nil, ErrSizeRace{MIB: mib.Clone(), Errno: unix.ENOMEM}
	}
	return nil, err
}

// readOnce returns a bare unix.ENOMEM when the fetch buffer was too
// small so read can distinguish the race from terminal failures.
func (c *Client) readOnce(mib MIB, new []byte) ([]byte, error) {
	size, err := c.raw.Sysctl(mib, nil, new)
	if err != nil {
		return nil, readError(mib, err)
	}
	if size == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, size)
	n, err := c.raw.Sysctl(mib, buf, new)
	if err != nil {
		if errors.Is(err, unix.ENOMEM) {
			return nil, unix.ENOMEM
		}
		return nil, readError(mib, err)
	}
	if n > len(buf) {
		return nil, ErrDecode{Reason: "value", Want: len(buf), Got: n}
	}
	// The value may have shrunk between the calls; the kernel
	// reports how much it actually wrote.
	return buf[:n], nil
}

// Int32 reads a node as a 4-byte signed integer.
func (c *Client) Int32(mib MIB) (int32, error) {
	buf, err := c.Read(mib)
	if err != nil {
		return 0, err
	}
	return DecodeInt32(buf)
}

// Uint32 reads a node as a 4-byte unsigned integer.
func (c *Client) Uint32(mib MIB) (uint32, error) {
	buf, err := c.Read(mib)
	if err != nil {
		return 0, err
	}
	return DecodeUint32(buf)
}

// Int64 reads a node as an 8-byte signed integer.
func (c *Client) Int64(mib MIB) (int64, error) {
	buf, err := c.Read(mib)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(buf)
}

// Uint64 reads a node as an 8-byte unsigned integer.
func (c *Client) Uint64(mib MIB) (uint64, error) {
	buf, err := c.Read(mib)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(buf)
}

// String reads a node as a NUL-terminated string.
func (c *Client) String(mib MIB) (string, error) {
	buf, err := c.Read(mib)
	if err != nil {
		return "", err
	}
	return DecodeString(buf), nil
}

// Int32ByName resolves name and reads it as a 4-byte signed integer.
func (c *Client) Int32ByName(name string) (int32, error) {
	buf, err := c.ReadByName(name)
	if err != nil {
		return 0, err
	}
	return DecodeInt32(buf)
}

// Uint32ByName resolves name and reads it as a 4-byte unsigned integer.
func (c *Client) Uint32ByName(name string) (uint32, error) {
	buf, err := c.ReadByName(name)
	if err != nil {
		return 0, err
	}
	return DecodeUint32(buf)
}

// Int64ByName resolves name and reads it as an 8-byte signed integer.
func (c *Client) Int64ByName(name string) (int64, error) {
	buf, err := c.ReadByName(name)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(buf)
}

// Uint64ByName resolves name and reads it as an 8-byte unsigned integer.
func (c *Client) Uint64ByName(name string) (uint64, error) {
	buf, err := c.ReadByName(name)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(buf)
}

// StringByName resolves name and reads it as a NUL-terminated string.
func (c *Client) StringByName(name string) (string, error) {
	buf, err := c.ReadByName(name)
	if err != nil {
		return "", err
	}
	return DecodeString(buf), nil
}

// Write sets a node to the already-encoded value. The call is a
// single syscall; there are no partial-write semantics. The kernel's
// own status decides whether the node is writable and whether the
// value matches its type.
func (c *Client) Write(mib MIB, value []byte) error {
	// A zero-length new buffer is indistinguishable from a size probe
	// at the syscall boundary and would report success without
	// writing anything.
	if len(value) == 0 {
		return fmt.Errorf("sysctl %s: empty value", mib)
	}
	_, err := c.raw.Sysctl(mib, nil, value)
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return fmt.Errorf("sysctl %s: %w", mib, err)
	}
	switch errno {
	case unix.ENOENT, unix.ENOTDIR:
		return ErrNodeNotFound{MIB: mib.Clone(), Errno: errno}
	case unix.EPERM, unix.EACCES:
		// The kernel reports EPERM both for insufficient
		// privilege and for nodes without the write flag; the
		// format word tells them apart.
		if f, ferr := c.Format(mib); ferr == nil && !f.Writable {
			return ErrReadOnly{MIB: mib.Clone(), Errno: errno}
		}
		return ErrPermission{MIB: mib.Clone(), Write: true, Errno: errno}
	case unix.EINVAL:
		return ErrTypeMismatch{MIB: mib.Clone(), Size: len(value), Errno: errno}
	}
	return fmt.Errorf("sysctl %s: %w", mib, errno)
}

// WriteByName resolves name and writes the encoded value.
func (c *Client) WriteByName(name string, value []byte) error {
	mib, err := c.Resolve(name)
	if err != nil {
		return err
	}
	return c.Write(mib, value)
}

// WriteInt32 writes a 4-byte signed integer node.
func (c *Client) WriteInt32(mib MIB, v int32) error {
	return c.Write(mib, EncodeInt32(v))
}

// WriteString writes a string node, NUL-terminated on the wire.
func (c *Client) WriteString(mib MIB, s string) error {
	return c.Write(mib, EncodeString(s))
}

// OSType returns kern.ostype, e.g. "FreeBSD".
func (c *Client) OSType() (string, error) {
	return c.String(oidOSType)
}

// OSRelease returns kern.osrelease, e.g. "13.1-RELEASE".
func (c *Client) OSRelease() (string, error) {
	return c.String(oidOSRelease)
}

// OSRevision returns kern.osrevision.
func (c *Client) OSRevision() (int32, error) {
	return c.Int32(oidOSRevision)
}

// OSRelDate returns kern.osreldate, the __FreeBSD_version the kernel
// was built from.
func (c *Client) OSRelDate() (int32, error) {
	return c.Int32(oidOSRelDate)
}

// Version returns kern.version, the full kernel version string.
func (c *Client) Version() (string, error) {
	return c.String(oidVersion)
}

// HostUUID returns kern.hostuuid parsed as a UUID. A host that
// reports a malformed UUID is surfaced as an error rather than passed
// through.
func (c *Client) HostUUID() (uuid.UUID, error) {
	s, err := c.String(oidHostUUID)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("sysctl %s: host uuid %q: %w", oidHostUUID, s, err)
	}
	return id, nil
}
