// Package fsx wraps the filesystem operations used when relocating replays.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Swappable so tests can simulate EXDEV and other rename failures.
var renameFunc = os.Rename

// DirPerm is the mode of directories created for the sorted layout. The
// process umask still applies.
const DirPerm = os.ModePerm

// CrossDeviceError reports a rename that failed because source and target
// are on different filesystems. Files are never copied and deleted instead.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot move %q to %q across filesystems; keep the replay folder and its sorted layout on one filesystem: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a cross-device rename failure.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename wraps os.Rename and marks EXDEV failures as *CrossDeviceError.
// An existing file at dst is never replaced.
func Rename(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrExist}
	}
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// MkdirAll creates dir and its parents with DirPerm. It reports whether dir
// had to be created.
func MkdirAll(dir string) (bool, error) {
	fi, err := os.Stat(dir)
	switch {
	case err == nil && fi.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%s exists and is not a directory", dir)
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return false, err
	}
	return true, nil
}

// IsEmptyDir reports whether dir holds no entries at all.
func IsEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
