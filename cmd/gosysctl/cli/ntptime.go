package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/frobware/go-sysctl/ntptime"
)

// NtptimeCmd shows the kernel clock state from ntp_gettime(2).
type NtptimeCmd struct {
	OutputFlags
}

type ntptimeOutput struct {
	State    string        `json:"state"`
	Time     time.Time     `json:"time"`
	MaxError time.Duration `json:"max_error_ns"`
	EstError time.Duration `json:"est_error_ns"`
	TAI      int64         `json:"tai_offset"`
	Reliable bool          `json:"reliable"`
}

// Run executes the ntptime command. An unsynchronized clock still
// prints the kernel's record, marked unreliable, and exits non-zero.
func (c *NtptimeCmd) Run(cli *CLI) error {
	reading, err := ntptime.Get()
	var unsynced ntptime.ErrClockNotSynchronized
	if err != nil && !errors.As(err, &unsynced) {
		return err
	}

	out := ntptimeOutput{
		State:    reading.State.String(),
		Time:     reading.Timestamp(),
		MaxError: reading.MaxError,
		EstError: reading.EstError,
		TAI:      reading.TAI,
		Reliable: err == nil,
	}

	if c.Format() == OutputFormatJSON {
		if jerr := printJSON(out); jerr != nil {
			return jerr
		}
		return err
	}

	fmt.Printf("state:     %s\n", out.State)
	fmt.Printf("time:      %s\n", out.Time.Format(time.RFC3339Nano))
	fmt.Printf("max error: %s\n", out.MaxError)
	fmt.Printf("est error: %s\n", out.EstError)
	fmt.Printf("tai:       %d\n", out.TAI)
	if !out.Reliable {
		fmt.Println("warning: clock not synchronized, values unreliable")
	}
	return err
}
