package ntptime

import (
	sysctl "github.com/frobware/go-sysctl"
)

// layout pins the ntptimeval ABI to FreeBSD 13.x on LP64 targets
// (amd64, arm64): a 16-byte timespec, three C longs, a C int
// time_state, and 4 bytes of tail padding.
//
//	struct ntptimeval {
//	        struct timespec time;     /* 0: sec int64, 8: nsec int64 */
//	        long            maxerror; /* 16: microseconds */
//	        long            esterror; /* 24: microseconds */
//	        long            tai;      /* 32: TAI-UTC offset */
//	        int             time_state;
//	};
//
// time_t has been 64-bit on LP64 FreeBSD since well before 12, so the
// table also holds on supported older releases. The ntp_gettime(2)
// manual page has disagreed with the header across revisions; the
// header is authoritative and is what this table encodes. ILP32
// targets would need their own table.
var layout = sysctl.Layout{
	Size: 48,
	Fields: []sysctl.Field{
		{Name: "time.sec", Offset: 0, Size: 8},
		{Name: "time.nsec", Offset: 8, Size: 8},
		{Name: "maxerror", Offset: 16, Size: 8},
		{Name: "esterror", Offset: 24, Size: 8},
		{Name: "tai", Offset: 32, Size: 8},
		{Name: "time_state", Offset: 40, Size: 4},
	},
}
