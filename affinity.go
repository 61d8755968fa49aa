//go:build linux

package threadpool

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling thread to the given CPU.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}

// setThreadName renames the calling kernel thread. The kernel caps
// comm names at 15 bytes plus the terminating NUL; longer names are
// truncated.
func setThreadName(name string) error {
	buf := make([]byte, 0, 16)
	buf = append(buf, name...)
	if len(buf) > 15 {
		buf = buf[:15]
	}
	buf = append(buf, 0)
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0)
}
