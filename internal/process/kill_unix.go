//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group of pid. Headless
// Chrome forks helper processes that can survive a plain browser close;
// signalling the group (negative PID) sweeps them up too. Errors are
// ignored: this runs after the normal shutdown path as a last resort.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
