package cli

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sysctl "github.com/frobware/go-sysctl"
)

// kindWidth reports the byte width and signedness of a scalar kind.
// long and ulong are 8 bytes on the LP64 targets this module pins to.
func kindWidth(k sysctl.Kind) (width int, signed, ok bool) {
	switch k {
	case sysctl.KindInt, sysctl.KindS32:
		return 4, true, true
	case sysctl.KindUint, sysctl.KindU32:
		return 4, false, true
	case sysctl.KindLong, sysctl.KindS64:
		return 8, true, true
	case sysctl.KindULong, sysctl.KindU64:
		return 8, false, true
	case sysctl.KindS16:
		return 2, true, true
	case sysctl.KindU16:
		return 2, false, true
	case sysctl.KindS8:
		return 1, true, true
	case sysctl.KindU8:
		return 1, false, true
	}
	return 0, false, false
}

func scalarAt(buf []byte, width int, signed bool) string {
	var u uint64
	switch width {
	case 1:
		u = uint64(buf[0])
	case 2:
		u = uint64(binary.NativeEndian.Uint16(buf))
	case 4:
		u = uint64(binary.NativeEndian.Uint32(buf))
	case 8:
		u = binary.NativeEndian.Uint64(buf)
	}
	if signed {
		shift := uint(64 - 8*width)
		return strconv.FormatInt(int64(u<<shift)>>shift, 10)
	}
	return strconv.FormatUint(u, 10)
}

// renderValue formats a raw sysctl buffer according to the kernel's
// reported format. Scalar nodes whose buffer holds several elements
// render as a space-separated list, the way sysctl(8) prints arrays.
// Opaque values render as hex.
func renderValue(f sysctl.Format, buf []byte) (string, error) {
	if f.Kind == sysctl.KindString {
		return sysctl.DecodeString(buf), nil
	}
	if width, signed, ok := kindWidth(f.Kind); ok {
		if len(buf) == 0 || len(buf)%width != 0 {
			return "", sysctl.ErrDecode{Reason: f.Kind.String(), Want: width, Got: len(buf)}
		}
		parts := make([]string, 0, len(buf)/width)
		for off := 0; off < len(buf); off += width {
			parts = append(parts, scalarAt(buf[off:], width, signed))
		}
		return strings.Join(parts, " "), nil
	}
	// Node or opaque: show the bytes.
	return fmt.Sprintf("%x", buf), nil
}

// parseValue encodes a textual value for writing, per the kernel's
// reported format.
func parseValue(f sysctl.Format, s string) ([]byte, error) {
	if f.Kind == sysctl.KindString {
		return sysctl.EncodeString(s), nil
	}
	width, signed, ok := kindWidth(f.Kind)
	if !ok {
		return nil, fmt.Errorf("cannot encode %s values", f.Kind)
	}
	var u uint64
	if signed {
		v, err := strconv.ParseInt(s, 0, 8*width)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", s, err)
		}
		u = uint64(v)
	} else {
		v, err := strconv.ParseUint(s, 0, 8*width)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", s, err)
		}
		u = v
	}
	switch width {
	case 1:
		return []byte{byte(u)}, nil
	case 2:
		return binary.NativeEndian.AppendUint16(nil, uint16(u)), nil
	case 4:
		return binary.NativeEndian.AppendUint32(nil, uint32(u)), nil
	default:
		return binary.NativeEndian.AppendUint64(nil, u), nil
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
