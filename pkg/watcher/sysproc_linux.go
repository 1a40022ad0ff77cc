//go:build linux

package watcher

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr makes the watcher receive SIGTERM when the runner dies,
// so an abrupt exit does not leave a kubectl watch behind
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
