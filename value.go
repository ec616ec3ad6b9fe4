package sysctl

import (
	"encoding/binary"
	"fmt"
)

// Scalar decoding enforces the exact width of the requested type.
// Kernel values use native byte order; a short or oversized buffer is
// an ErrDecode, never a truncated or zero-extended result.

// DecodeInt32 decodes a 4-byte native-order signed integer.
func DecodeInt32(buf []byte) (int32, error) {
	if len(buf) != 4 {
		return 0, ErrDecode{Reason: "int32", Want: 4, Got: len(buf)}
	}
	return int32(binary.NativeEndian.Uint32(buf)), nil
}

// DecodeUint32 decodes a 4-byte native-order unsigned integer.
func DecodeUint32(buf []byte) (uint32, error) {
	if len(buf) != 4 {
		return 0, ErrDecode{Reason: "uint32", Want: 4, Got: len(buf)}
	}
	return binary.NativeEndian.Uint32(buf), nil
}

// DecodeInt64 decodes an 8-byte native-order signed integer.
func DecodeInt64(buf []byte) (int64, error) {
	if len(buf) != 8 {
		return 0, ErrDecode{Reason: "int64", Want: 8, Got: len(buf)}
	}
	return int64(binary.NativeEndian.Uint64(buf)), nil
}

// DecodeUint64 decodes an 8-byte native-order unsigned integer.
func DecodeUint64(buf []byte) (uint64, error) {
	if len(buf) != 8 {
		return 0, ErrDecode{Reason: "uint64", Want: 8, Got: len(buf)}
	}
	return binary.NativeEndian.Uint64(buf), nil
}

// DecodeString decodes a kernel string up to its first NUL. Trailing
// NULs are terminators, not part of the value. A buffer without a NUL
// decodes whole.
func DecodeString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// DecodeInt32Array decodes a buffer as consecutive 4-byte signed
// integers. The buffer length must be an exact multiple of the
// element size.
func DecodeInt32Array(buf []byte) ([]int32, error) {
	if len(buf)%4 != 0 {
		return nil, ErrDecode{Reason: "int32 array", Want: 4 * (len(buf)/4 + 1), Got: len(buf)}
	}
	out := make([]int32, len(buf)/4)
	for i := range out {
		out[i] = int32(binary.NativeEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}

// DecodeUint64Array decodes a buffer as consecutive 8-byte unsigned
// integers, e.g. the per-CPU tick counters under kern.cp_times.
func DecodeUint64Array(buf []byte) ([]uint64, error) {
	if len(buf)%8 != 0 {
		return nil, ErrDecode{Reason: "uint64 array", Want: 8 * (len(buf)/8 + 1), Got: len(buf)}
	}
	out := make([]uint64, len(buf)/8)
	for i := range out {
		out[i] = binary.NativeEndian.Uint64(buf[i*8:])
	}
	return out, nil
}

// EncodeInt32 encodes v in the kernel's native byte order.
func EncodeInt32(v int32) []byte {
	return binary.NativeEndian.AppendUint32(nil, uint32(v))
}

// EncodeUint32 encodes v in the kernel's native byte order.
func EncodeUint32(v uint32) []byte {
	return binary.NativeEndian.AppendUint32(nil, v)
}

// EncodeInt64 encodes v in the kernel's native byte order.
func EncodeInt64(v int64) []byte {
	return binary.NativeEndian.AppendUint64(nil, uint64(v))
}

// EncodeUint64 encodes v in the kernel's native byte order.
func EncodeUint64(v uint64) []byte {
	return binary.NativeEndian.AppendUint64(nil, v)
}

// EncodeString encodes s with the terminating NUL the kernel string
// handlers expect.
func EncodeString(s string) []byte {
	return append([]byte(s), 0)
}

// Field names one member of a fixed-layout kernel record.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// Layout is an explicit offset/size table for an opaque kernel
// record. The layout of such records is defined by the OS headers,
// not by this module, so decoding goes through a versionable table
// instead of Go struct reflection.
type Layout struct {
	Size   int
	Fields []Field
}

// Check validates that buf is exactly the record size.
func (l Layout) Check(buf []byte) error {
	if len(buf) != l.Size {
		return ErrDecode{Reason: "record", Want: l.Size, Got: len(buf)}
	}
	return nil
}

func (l Layout) field(name string) (Field, error) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("sysctl: layout has no field %q", name)
}

// Int reads the named field as a sign-extended integer. The buffer
// must already have passed Check.
func (l Layout) Int(buf []byte, name string) (int64, error) {
	u, f, err := l.read(buf, name)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*f.Size)
	return int64(u<<shift) >> shift, nil
}

// Uint reads the named field as an unsigned integer.
func (l Layout) Uint(buf []byte, name string) (uint64, error) {
	u, _, err := l.read(buf, name)
	return u, err
}

func (l Layout) read(buf []byte, name string) (uint64, Field, error) {
	f, err := l.field(name)
	if err != nil {
		return 0, f, err
	}
	if f.Offset+f.Size > len(buf) {
		return 0, f, ErrDecode{Reason: name, Want: f.Offset + f.Size, Got: len(buf)}
	}
	b := buf[f.Offset:]
	switch f.Size {
	case 1:
		return uint64(b[0]), f, nil
	case 2:
		return uint64(binary.NativeEndian.Uint16(b)), f, nil
	case 4:
		return uint64(binary.NativeEndian.Uint32(b)), f, nil
	case 8:
		return binary.NativeEndian.Uint64(b), f, nil
	}
	return 0, f, fmt.Errorf("sysctl: layout field %q has unsupported size %d", name, f.Size)
}
