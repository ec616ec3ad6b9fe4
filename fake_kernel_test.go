package sysctl_test

import (
	"encoding/binary"
	"sync"

	"golang.org/x/sys/unix"

	sysctl "github.com/frobware/go-sysctl"
)

// fakeNode is one parameter in the fake kernel's tree.
type fakeNode struct {
	mib      sysctl.MIB
	name     string
	kind     sysctl.Kind
	fmtStr   string
	writable bool
	value    []byte
}

// writeOp records a set call for verification.
type writeOp struct {
	MIB   string
	Value []byte
}

// fakeKernel implements sysctl.Raw in memory, including the
// CTLSysctl meta nodes for name resolution, naming, formats, and
// traversal, so the client code under test speaks the real protocol.
type fakeKernel struct {
	mu     sync.Mutex
	order  []*fakeNode // leaves in traversal order
	byOID  map[string]*fakeNode
	byName map[string]*fakeNode

	// failOn injects an errno for any access to an OID.
	failOn map[string]error

	// growOnProbe simulates the probe/fetch race once: right after
	// the next size probe of the OID, the value is replaced, so the
	// fetch sees a larger value and fails with ENOMEM.
	growOnProbe map[string][]byte

	// keepGrowing appends a byte to the value after every size
	// probe, so fetches never catch up.
	keepGrowing map[string]bool

	writes []writeOp
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		byOID:       make(map[string]*fakeNode),
		byName:      make(map[string]*fakeNode),
		failOn:      make(map[string]error),
		growOnProbe: make(map[string][]byte),
		keepGrowing: make(map[string]bool),
	}
}

// addInterior registers an interior node: resolvable by name but not
// yielded by traversal.
func (f *fakeKernel) addInterior(name string, mib sysctl.MIB) {
	node := &fakeNode{mib: mib.Clone(), name: name, kind: sysctl.KindNode, fmtStr: "N"}
	f.byOID[mib.String()] = node
	f.byName[name] = node
}

// addLeaf registers a leaf in traversal order.
func (f *fakeKernel) addLeaf(name string, mib sysctl.MIB, kind sysctl.Kind, fmtStr string, writable bool, value []byte) *fakeNode {
	node := &fakeNode{
		mib:      mib.Clone(),
		name:     name,
		kind:     kind,
		fmtStr:   fmtStr,
		writable: writable,
		value:    append([]byte(nil), value...),
	}
	f.byOID[mib.String()] = node
	if name != "" {
		f.byName[name] = node
	}
	// Keep traversal order sorted the way the kernel iterates.
	at := len(f.order)
	for i, n := range f.order {
		if compareMIB(node.mib, n.mib) < 0 {
			at = i
			break
		}
	}
	f.order = append(f.order, nil)
	copy(f.order[at+1:], f.order[at:])
	f.order[at] = node
	return node
}

// Writes returns a copy of recorded set calls.
func (f *fakeKernel) Writes() []writeOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]writeOp, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeKernel) Sysctl(mib sysctl.MIB, old, new []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(mib) == 0 {
		return 0, unix.EINVAL
	}
	if mib[0] == sysctl.CTLSysctl {
		return f.meta(mib, old, new)
	}

	key := mib.String()
	if err, ok := f.failOn[key]; ok {
		return 0, err
	}
	node, ok := f.byOID[key]
	if !ok {
		return 0, unix.ENOENT
	}

	if new != nil {
		if !node.writable {
			return 0, unix.EPERM
		}
		if size := fixedSize(node.kind); size > 0 && len(new) != size {
			return 0, unix.EINVAL
		}
		node.value = append([]byte(nil), new...)
		f.writes = append(f.writes, writeOp{MIB: key, Value: node.value})
		return 0, nil
	}

	if old == nil {
		size := len(node.value)
		if repl, ok := f.growOnProbe[key]; ok {
			node.value = repl
			delete(f.growOnProbe, key)
		} else if f.keepGrowing[key] {
			node.value = append(node.value, 0xee)
		}
		return size, nil
	}
	if len(old) < len(node.value) {
		return len(node.value), unix.ENOMEM
	}
	copy(old, node.value)
	return len(node.value), nil
}

// meta answers the CTLSysctl introspection nodes.
func (f *fakeKernel) meta(mib sysctl.MIB, old, new []byte) (int, error) {
	if len(mib) < 2 {
		return 0, unix.EINVAL
	}
	switch mib[1] {
	case 3: // name -> OID
		node, ok := f.byName[string(new)]
		if !ok {
			return 0, unix.ENOENT
		}
		return copyOut(old, encodeMIB(node.mib))
	case 1: // OID -> name
		node, ok := f.byOID[sysctl.MIB(mib[2:]).String()]
		if !ok {
			return 0, unix.ENOENT
		}
		return copyOut(old, append([]byte(node.name), 0))
	case 4: // OID -> kind word + format
		node, ok := f.byOID[sysctl.MIB(mib[2:]).String()]
		if !ok {
			return 0, unix.ENOENT
		}
		word := uint32(node.kind) | 0x80000000 // readable
		if node.writable {
			word |= 0x40000000
		}
		resp := binary.NativeEndian.AppendUint32(nil, word)
		resp = append(resp, node.fmtStr...)
		resp = append(resp, 0)
		return copyOut(old, resp)
	case 2: // OID -> next leaf in traversal order
		target := sysctl.MIB(mib[2:])
		for _, n := range f.order {
			if compareMIB(n.mib, target) > 0 {
				return copyOut(old, encodeMIB(n.mib))
			}
		}
		return 0, unix.ENOENT
	}
	return 0, unix.ENOENT
}

func copyOut(old, resp []byte) (int, error) {
	if old == nil {
		return len(resp), nil
	}
	if len(old) < len(resp) {
		return len(resp), unix.ENOMEM
	}
	copy(old, resp)
	return len(resp), nil
}

func encodeMIB(mib sysctl.MIB) []byte {
	out := make([]byte, 0, 4*len(mib))
	for _, c := range mib {
		out = binary.NativeEndian.AppendUint32(out, uint32(c))
	}
	return out
}

func compareMIB(a, b sysctl.MIB) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// fixedSize returns the enforced value size for scalar kinds, 0 for
// variable-size kinds.
func fixedSize(k sysctl.Kind) int {
	switch k {
	case sysctl.KindInt, sysctl.KindUint, sysctl.KindS32, sysctl.KindU32:
		return 4
	case sysctl.KindLong, sysctl.KindULong, sysctl.KindS64, sysctl.KindU64:
		return 8
	case sysctl.KindS16, sysctl.KindU16:
		return 2
	case sysctl.KindS8, sysctl.KindU8:
		return 1
	}
	return 0
}
