//go:build !freebsd

package ntptime

import (
	sysctl "github.com/frobware/go-sysctl"
)

type systemCaller struct{}

func (systemCaller) NTPGetTime(buf []byte) (int32, error) {
	return 0, sysctl.ErrUnsupported
}
