//go:build linux

package inject

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// linuxGate reports synthetic input as available when either a display
// server is reachable (X11/Wayland key injection) or /dev/uinput is
// writable (raw event fallback).
type linuxGate struct{}

// NewPermissionGate returns the Linux synthetic-input permission check.
func NewPermissionGate() PermissionGate { return linuxGate{} }

func (linuxGate) SyntheticInputAllowed() bool {
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// xdoFocus shells out to xdotool for focus queries and activation.
// Wayland compositors without an XWayland bridge will reject these; the
// orchestrator treats that as a verification failure and proceeds.
type xdoFocus struct{}

// NewFocusController returns the Linux focus controller.
func NewFocusController() FocusController { return xdoFocus{} }

func (xdoFocus) Frontmost() (FocusTarget, error) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowpid").Output()
	if err != nil {
		return FocusTarget{}, fmt.Errorf("xdotool getactivewindow: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return FocusTarget{}, fmt.Errorf("parse window pid: %w", err)
	}
	name := ""
	if wn, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output(); err == nil {
		name = strings.TrimSpace(string(wn))
	}
	return FocusTarget{PID: pid, Name: name}, nil
}

func (xdoFocus) Activate(t FocusTarget) error {
	return exec.Command("xdotool", "search", "--onlyvisible", "--pid",
		strconv.Itoa(t.PID), "windowactivate").Run()
}

func (xdoFocus) ActivateAll(t FocusTarget) error {
	return exec.Command("xdotool", "search", "--pid",
		strconv.Itoa(t.PID), "windowactivate", "%@").Run()
}

func (xdoFocus) Relaunch(t FocusTarget) error {
	return fmt.Errorf("relaunch activation not supported on linux")
}

// xdoKeystroker issues the paste chord via xdotool — the high-level channel
// on X11, aware of the active keyboard layout.
type xdoKeystroker struct{}

func (xdoKeystroker) Name() string { return "xdotool" }

func (xdoKeystroker) PasteChord() error {
	out, err := exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("xdotool key: %v (%s)", err, out)
	}
	return nil
}

// Keystrokers returns the ordered paste strategies for Linux.
func Keystrokers() []Keystroker {
	return []Keystroker{xdoKeystroker{}, newHardwareKeystroker()}
}
