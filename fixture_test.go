package sysctl_test

import (
	"io"
	"log/slog"
	"os"
	"testing"

	sysctl "github.com/frobware/go-sysctl"
)

// testLogger returns a logger for tests. By default it discards all
// output. Set GOSYSCTL_TEST_VERBOSE=1 to enable logging.
func testLogger() *slog.Logger {
	if os.Getenv("GOSYSCTL_TEST_VERBOSE") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testHostUUID = "8a9f1d7e-1b2c-4e3f-9a8b-7c6d5e4f3a2b"

// newTestClient builds a client over a fake kernel preloaded with a
// plausible slice of the FreeBSD tree.
func newTestClient(t *testing.T) (*sysctl.Client, *fakeKernel) {
	t.Helper()
	fk := newFakeKernel()

	fk.addInterior("kern", sysctl.MIB{sysctl.CTLKern})
	fk.addLeaf("kern.ostype", sysctl.MIB{1, 1}, sysctl.KindString, "A", false, []byte("FreeBSD\x00"))
	fk.addLeaf("kern.osrelease", sysctl.MIB{1, 2}, sysctl.KindString, "A", false, []byte("13.1-RELEASE\x00"))
	fk.addLeaf("kern.osrevision", sysctl.MIB{1, 3}, sysctl.KindInt, "I", false, sysctl.EncodeInt32(199506))
	fk.addLeaf("kern.version", sysctl.MIB{1, 4}, sysctl.KindString, "A", false,
		[]byte("FreeBSD 13.1-RELEASE releng/13.1-n250148\x00"))
	fk.addLeaf("kern.hostname", sysctl.MIB{1, 10}, sysctl.KindString, "A", true, []byte("anvil\x00"))
	fk.addLeaf("kern.osreldate", sysctl.MIB{1, 24}, sysctl.KindInt, "I", false, sysctl.EncodeInt32(1301000))
	fk.addLeaf("kern.hostuuid", sysctl.MIB{1, 36}, sysctl.KindString, "A", false,
		append([]byte(testHostUUID), 0))

	fk.addInterior("hw", sysctl.MIB{sysctl.CTLHW})
	fk.addLeaf("hw.ncpu", sysctl.MIB{6, 3}, sysctl.KindInt, "I", false, sysctl.EncodeInt32(8))
	fk.addLeaf("hw.pagesize", sysctl.MIB{6, 7}, sysctl.KindInt, "I", false, sysctl.EncodeInt32(4096))

	return sysctl.New(fk, testLogger()), fk
}
