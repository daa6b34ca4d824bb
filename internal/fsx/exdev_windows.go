//go:build windows

package fsx

import (
	"errors"
	"syscall"
)

// errorNotSameDevice is ERROR_NOT_SAME_DEVICE.
const errorNotSameDevice syscall.Errno = 17

func isEXDEV(err error) bool {
	return errors.Is(err, errorNotSameDevice)
}
