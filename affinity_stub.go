//go:build !linux

package threadpool

// PinToCPU is a no-op outside Linux.
func PinToCPU(cpu int) error { return nil }

// setThreadName is a no-op outside Linux.
func setThreadName(name string) error { return nil }
