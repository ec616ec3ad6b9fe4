// Package ntptime decodes the ntp_gettime(2) result. The kernel call
// conflates status and data in its return value; this package splits
// them into an explicit State plus a Reading so a failed query can
// never be mistaken for a valid zeroed timestamp.
package ntptime

import (
	"fmt"
	"time"
)

// State is the clock state the call returns.
type State int32

const (
	StateOK    State = 0 // clock synchronized, no leap second pending
	StateIns   State = 1 // leap second insertion pending
	StateDel   State = 2 // leap second deletion pending
	StateOOP   State = 3 // leap second in progress
	StateWait  State = 4 // leap second has occurred
	StateError State = 5 // clock not synchronized
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateIns:
		return "insert"
	case StateDel:
		return "delete"
	case StateOOP:
		return "in-progress"
	case StateWait:
		return "wait"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Reading is a decoded ntptimeval plus the call's own state. When Get
// also returns ErrClockNotSynchronized the fields are whatever the
// kernel reported and must be treated as unreliable.
type Reading struct {
	State    State
	Sec      int64
	Nsec     int64
	MaxError time.Duration
	EstError time.Duration
	TAI      int64
}

// Timestamp returns the reading as a time.Time.
func (r Reading) Timestamp() time.Time {
	return time.Unix(r.Sec, r.Nsec)
}

// ErrClockNotSynchronized is returned when the call reports
// StateError. The Reading returned alongside it carries the raw
// record for diagnostics.
type ErrClockNotSynchronized struct {
	State State
}

func (e ErrClockNotSynchronized) Error() string {
	return fmt.Sprintf("ntp_gettime: clock not synchronized (state %s)", e.State)
}

// Caller issues the ntp_gettime call: fill buf with the raw
// ntptimeval record and return the clock state from the call's return
// value. Errors are native errnos.
type Caller interface {
	NTPGetTime(buf []byte) (int32, error)
}

// Get queries the system clock.
func Get() (Reading, error) {
	return GetFrom(systemCaller{})
}

// GetFrom queries through an explicit Caller.
func GetFrom(c Caller) (Reading, error) {
	buf := make([]byte, layout.Size)
	state, err := c.NTPGetTime(buf)
	if err != nil {
		return Reading{}, fmt.Errorf("ntp_gettime: %w", err)
	}
	r, err := decode(buf)
	if err != nil {
		return Reading{}, err
	}
	r.State = State(state)
	if r.State == StateError {
		return r, ErrClockNotSynchronized{State: r.State}
	}
	return r, nil
}

func decode(buf []byte) (Reading, error) {
	if err := layout.Check(buf); err != nil {
		return Reading{}, err
	}
	var r Reading
	fields := []struct {
		name string
		dst  *int64
	}{
		{"time.sec", &r.Sec},
		{"time.nsec", &r.Nsec},
		{"tai", &r.TAI},
	}
	for _, f := range fields {
		v, err := layout.Int(buf, f.name)
		if err != nil {
			return Reading{}, err
		}
		*f.dst = v
	}
	maxerr, err := layout.Int(buf, "maxerror")
	if err != nil {
		return Reading{}, err
	}
	esterr, err := layout.Int(buf, "esterror")
	if err != nil {
		return Reading{}, err
	}
	r.MaxError = time.Duration(maxerr) * time.Microsecond
	r.EstError = time.Duration(esterr) * time.Microsecond
	return r, nil
}
