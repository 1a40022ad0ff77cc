//go:build !linux

package watcher

import "os/exec"

func configureSysProcAttr(_ *exec.Cmd) {}
