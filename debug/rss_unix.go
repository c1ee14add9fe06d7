//go:build !windows

package debug

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// residentBytes returns the peak resident set size of the process.
func residentBytes() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	// Maxrss is bytes on darwin, kilobytes elsewhere.
	if runtime.GOOS == "darwin" {
		return uint64(ru.Maxrss), nil
	}
	return uint64(ru.Maxrss) * 1024, nil
}
