package ntptime_test

import (
	"encoding/binary"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	sysctl "github.com/frobware/go-sysctl"
	"github.com/frobware/go-sysctl/ntptime"
)

// fakeCaller answers ntp_gettime with a canned record and state.
type fakeCaller struct {
	record []byte
	state  int32
	err    error
}

func (f fakeCaller) NTPGetTime(buf []byte) (int32, error) {
	if f.err != nil {
		return 0, f.err
	}
	copy(buf, f.record)
	return f.state, nil
}

// record builds a 48-byte ntptimeval in the pinned LP64 layout.
func record(sec, nsec, maxerr, esterr, tai int64, state int32) []byte {
	buf := make([]byte, 48)
	binary.NativeEndian.PutUint64(buf[0:], uint64(sec))
	binary.NativeEndian.PutUint64(buf[8:], uint64(nsec))
	binary.NativeEndian.PutUint64(buf[16:], uint64(maxerr))
	binary.NativeEndian.PutUint64(buf[24:], uint64(esterr))
	binary.NativeEndian.PutUint64(buf[32:], uint64(tai))
	binary.NativeEndian.PutUint32(buf[40:], uint32(state))
	return buf
}

// TestGetFrom_DecodesAllFields verifies that:
//
//	Given a synchronized clock,
//	When I query it,
//	Then every named field of the record is populated and the state
//	is carried separately from the data.
func TestGetFrom_DecodesAllFields(t *testing.T) {
	caller := fakeCaller{
		record: record(1700000000, 123456789, 16000, 2000, 37, 0),
		state:  0,
	}

	r, err := ntptime.GetFrom(caller)
	require.NoError(t, err)

	assert.Equal(t, ntptime.StateOK, r.State)
	assert.Equal(t, int64(1700000000), r.Sec)
	assert.Equal(t, int64(123456789), r.Nsec)
	assert.Equal(t, 16*time.Millisecond, r.MaxError)
	assert.Equal(t, 2*time.Millisecond, r.EstError)
	assert.Equal(t, int64(37), r.TAI)
	assert.Equal(t, time.Unix(1700000000, 123456789), r.Timestamp())
}

// TestGetFrom_ErrorState_SurfacesUnreliableData verifies that:
//
//	Given an unsynchronized clock,
//	When I query it,
//	Then the call fails with ErrClockNotSynchronized while the
//	decoded record is still returned, so callers cannot mistake the
//	failure for valid zeroed data.
func TestGetFrom_ErrorState_SurfacesUnreliableData(t *testing.T) {
	caller := fakeCaller{
		record: record(1700000000, 0, 512000000, 512000000, 0, 5),
		state:  5,
	}

	r, err := ntptime.GetFrom(caller)
	require.Error(t, err)

	var unsynced ntptime.ErrClockNotSynchronized
	assert.True(t, errors.As(err, &unsynced), "expected ErrClockNotSynchronized, got %T", err)
	assert.Equal(t, ntptime.StateError, unsynced.State)

	// Partial data rides along, clearly separated from the status.
	assert.Equal(t, ntptime.StateError, r.State)
	assert.Equal(t, int64(1700000000), r.Sec)
}

func TestGetFrom_LeapStates_AreNotErrors(t *testing.T) {
	for _, state := range []ntptime.State{ntptime.StateIns, ntptime.StateDel, ntptime.StateOOP, ntptime.StateWait} {
		caller := fakeCaller{
			record: record(1, 0, 0, 0, 37, int32(state)),
			state:  int32(state),
		}
		r, err := ntptime.GetFrom(caller)
		require.NoError(t, err, "state %s", state)
		assert.Equal(t, state, r.State)
	}
}

// TestGetFrom_CallFailure_ReturnsNoData verifies that:
//
//	Given a failing kernel call,
//	When I query the clock,
//	Then the native errno propagates and no record is returned.
func TestGetFrom_CallFailure_ReturnsNoData(t *testing.T) {
	_, err := ntptime.GetFrom(fakeCaller{err: unix.EFAULT})
	require.Error(t, err)
	assert.True(t, errors.Is(err, unix.EFAULT))
}

func TestGet_NonFreeBSD_Unsupported(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("real syscall available")
	}
	_, err := ntptime.Get()
	assert.True(t, errors.Is(err, sysctl.ErrUnsupported))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ok", ntptime.StateOK.String())
	assert.Equal(t, "error", ntptime.StateError.String())
	assert.Equal(t, "state(42)", ntptime.State(42).String())
}
