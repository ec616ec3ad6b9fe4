package sysctl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
)

// Kind is the kernel's own type tag for a node, from the low bits of
// the oidfmt kind word.
type Kind uint32

const (
	KindNode   Kind = 1 // interior node
	KindInt    Kind = 2
	KindString Kind = 3
	KindS64    Kind = 4
	KindOpaque Kind = 5
	KindUint   Kind = 6
	KindLong   Kind = 7
	KindULong  Kind = 8
	KindU64    Kind = 9
	KindU8     Kind = 10
	KindU16    Kind = 11
	KindS8     Kind = 12
	KindS16    Kind = 13
	KindS32    Kind = 14
	KindU32    Kind = 15
)

var kindNames = map[Kind]string{
	KindNode:   "node",
	KindInt:    "int",
	KindString: "string",
	KindS64:    "int64",
	KindOpaque: "opaque",
	KindUint:   "uint",
	KindLong:   "long",
	KindULong:  "ulong",
	KindU64:    "uint64",
	KindU8:     "uint8",
	KindU16:    "uint16",
	KindS8:     "int8",
	KindS16:    "int16",
	KindS32:    "int32",
	KindU32:    "uint32",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// Kind word bits from <sys/sysctl.h>.
const (
	ctlTypeMask = 0xf
	ctlFlagRD   = 0x80000000
	ctlFlagWR   = 0x40000000
)

// Format describes a node as the kernel reports it: the type tag, the
// printf-style format hint (e.g. "I", "LU", "A", "S,clockinfo"), and
// the access flags.
type Format struct {
	Kind     Kind
	Fmt      string
	Readable bool
	Writable bool
}

// NameOf returns the dotted name of a node, the inverse of Resolve.
func (c *Client) NameOf(mib MIB) (string, error) {
	req := append(MIB{CTLSysctl, sysctlName}, mib...)
	buf, err := c.read(req, nil)
	if err != nil {
		return "", err
	}
	return DecodeString(buf), nil
}

// Format returns the kernel-reported format of a node. The response
// is a 4-byte kind word followed by the NUL-terminated format string.
func (c *Client) Format(mib MIB) (Format, error) {
	req := append(MIB{CTLSysctl, sysctlOIDFmt}, mib...)
	buf, err := c.read(req, nil)
	if err != nil {
		return Format{}, err
	}
	if len(buf) < 4 {
		return Format{}, ErrDecode{Reason: "oidfmt", Want: 4, Got: len(buf)}
	}
	word := binary.NativeEndian.Uint32(buf)
	return Format{
		Kind:     Kind(word & ctlTypeMask),
		Fmt:      DecodeString(buf[4:]),
		Readable: word&ctlFlagRD != 0,
		Writable: word&ctlFlagWR != 0,
	}, nil
}

// Next returns the node after mib in the kernel's traversal order.
// Past the last node it returns ErrNodeNotFound.
func (c *Client) Next(mib MIB) (MIB, error) {
	req := append(MIB{CTLSysctl, sysctlNext}, mib...)
	buf, err := c.read(req, nil)
	if err != nil {
		return nil, err
	}
	return decodeMIB(buf, mib.String())
}

// Entry is one leaf encountered during a Walk.
type Entry struct {
	MIB    MIB
	Name   string
	Format Format
}

// Walk enumerates the subtree below prefix in kernel traversal order,
// yielding each node with its name and format. An empty prefix walks
// the whole tree. Iteration stops at the first yielded error; running
// off the end of the subtree is a clean stop, not an error.
func (c *Client) Walk(prefix MIB) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		cur := prefix.Clone()
		for {
			next, err := c.Next(cur)
			if err != nil {
				var notFound ErrNodeNotFound
				if errors.As(err, &notFound) {
					return
				}
				yield(Entry{}, err)
				return
			}
			if len(prefix) > 0 && !next.HasPrefix(prefix) {
				return
			}
			name, err := c.NameOf(next)
			if err != nil {
				yield(Entry{MIB: next}, err)
				return
			}
			format, err := c.Format(next)
			if err != nil {
				yield(Entry{MIB: next, Name: name}, err)
				return
			}
			if !yield(Entry{MIB: next, Name: name, Format: format}, nil) {
				return
			}
			cur = next
		}
	}
}
