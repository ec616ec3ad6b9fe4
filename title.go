package sysctl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxProcessTitle bounds the title written to the kernel. ps(1) only
// shows the argument cache anyway; anything near this limit is a bug
// in the caller.
const maxProcessTitle = 2048

// SetProcessTitle changes the process title shown by ps(1), the way
// setproctitle(3) does: the rendered text is prefixed with the
// program name unless it begins with "-", in which case the dash is
// stripped and the text used verbatim. The title is written through
// the kern.proc.args node of the current process.
func (c *Client) SetProcessTitle(format string, args ...any) error {
	if format == "" {
		return fmt.Errorf("sysctl: empty process title format")
	}
	title := fmt.Sprintf(format, args...)
	if strings.HasPrefix(title, "-") {
		title = title[1:]
	} else {
		title = filepath.Base(os.Args[0]) + ": " + title
	}
	if title == "" {
		return fmt.Errorf("sysctl: process title rendered empty")
	}
	if len(title) > maxProcessTitle {
		return fmt.Errorf("sysctl: process title is %d bytes, limit %d", len(title), maxProcessTitle)
	}
	mib := MIB{CTLKern, KernProc, KernProcArgs, int32(os.Getpid())}
	return c.Write(mib, EncodeString(title))
}
