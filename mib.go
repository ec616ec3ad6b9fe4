package sysctl

import (
	"fmt"
	"strconv"
	"strings"
)

// Top-level identifiers from <sys/sysctl.h>.
const (
	CTLSysctl  = 0 // meta tree: name resolution and introspection
	CTLKern    = 1 // "high kernel": proc, limits
	CTLVM      = 2 // virtual memory
	CTLVFS     = 3 // filesystem
	CTLNet     = 4 // network
	CTLDebug   = 5 // debugging parameters
	CTLHW      = 6 // generic CPU/io
	CTLMachdep = 7 // machine dependent
	CTLUser    = 8 // user-level
)

// Children of CTLSysctl. These implement the client side of name
// resolution and tree traversal; the kernel answers them like any
// other node.
const (
	sysctlName    = 1 // OID -> dotted name
	sysctlNext    = 2 // OID -> next OID in traversal order
	sysctlNameOID = 3 // dotted name -> OID
	sysctlOIDFmt  = 4 // OID -> kind word + format string
)

// Children of CTLKern used by the convenience getters.
const (
	KernOSType     = 1
	KernOSRelease  = 2
	KernOSRevision = 3
	KernVersion    = 4
	KernHostname   = 10
	KernProc       = 14
	KernOSRelDate  = 24
	KernHostUUID   = 36
)

// KernProcArgs selects the argument vector of a process under
// {CTLKern, KernProc}; writing it replaces the displayed title.
const KernProcArgs = 7

// ctlMaxName is CTL_MAXNAME, the deepest OID path the kernel accepts.
const ctlMaxName = 24

// mibComponentSize is the wire size of one OID path component (C int).
const mibComponentSize = 4

// MIB is an ordered OID path identifying a kernel parameter node.
// A MIB is immutable once resolved; it carries no state beyond the
// path itself.
type MIB []int32

// String returns the dotted numeric form, e.g. "1.24".
func (m MIB) String() string {
	parts := make([]string, len(m))
	for i, c := range m {
		parts[i] = strconv.FormatInt(int64(c), 10)
	}
	return strings.Join(parts, ".")
}

// Clone returns an independent copy of the path.
func (m MIB) Clone() MIB {
	if m == nil {
		return nil
	}
	out := make(MIB, len(m))
	copy(out, m)
	return out
}

// HasPrefix reports whether m starts with prefix.
func (m MIB) HasPrefix(prefix MIB) bool {
	if len(prefix) > len(m) {
		return false
	}
	for i, c := range prefix {
		if m[i] != c {
			return false
		}
	}
	return true
}

// ParseMIB parses a dotted numeric path such as "1.14.7". Components
// must be non-negative and the path no deeper than the kernel's
// CTL_MAXNAME limit.
func ParseMIB(s string) (MIB, error) {
	if s == "" {
		return nil, fmt.Errorf("sysctl: empty MIB path")
	}
	parts := strings.Split(s, ".")
	if len(parts) > ctlMaxName {
		return nil, fmt.Errorf("sysctl: MIB path %q exceeds %d components", s, ctlMaxName)
	}
	mib := make(MIB, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("sysctl: MIB component %q: %w", p, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("sysctl: negative MIB component %d", v)
		}
		mib[i] = int32(v)
	}
	return mib, nil
}

// Well-known paths for the fixed read-only scalars. These are
// documented constants in <sys/sysctl.h> and stable across releases,
// so they skip name resolution.
var (
	oidOSType     = MIB{CTLKern, KernOSType}
	oidOSRelease  = MIB{CTLKern, KernOSRelease}
	oidOSRevision = MIB{CTLKern, KernOSRevision}
	oidVersion    = MIB{CTLKern, KernVersion}
	oidOSRelDate  = MIB{CTLKern, KernOSRelDate}
	oidHostUUID   = MIB{CTLKern, KernHostUUID}
)
