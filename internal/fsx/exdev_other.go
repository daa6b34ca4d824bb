//go:build !unix && !windows

package fsx

func isEXDEV(error) bool { return false }
