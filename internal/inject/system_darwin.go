//go:build darwin

package inject

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa -framework ApplicationServices
// #import <Cocoa/Cocoa.h>
// #import <ApplicationServices/ApplicationServices.h>
// #include <string.h>
//
// int reclip_axTrusted() {
//     return AXIsProcessTrusted() ? 1 : 0;
// }
//
// int reclip_frontmostPID(char *name, int cap) {
//     NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
//     if (app == nil) return -1;
//     const char *n = [[app localizedName] UTF8String];
//     if (n != NULL) {
//         strncpy(name, n, cap - 1);
//         name[cap - 1] = 0;
//     } else {
//         name[0] = 0;
//     }
//     return (int)[app processIdentifier];
// }
//
// int reclip_activatePID(int pid, int allWindows) {
//     NSRunningApplication *app =
//         [NSRunningApplication runningApplicationWithProcessIdentifier:(pid_t)pid];
//     if (app == nil) return 0;
//     NSApplicationActivationOptions opts = 0;
//     if (allWindows) opts |= NSApplicationActivateAllWindows;
//     return [app activateWithOptions:opts] ? 1 : 0;
// }
import "C"

import (
	"fmt"
	"os/exec"
	"unsafe"
)

// axGate checks macOS Accessibility trust, the privilege required to post
// synthetic key events into other processes.
type axGate struct{}

// NewPermissionGate returns the macOS synthetic-input permission check.
func NewPermissionGate() PermissionGate { return axGate{} }

func (axGate) SyntheticInputAllowed() bool {
	return C.reclip_axTrusted() != 0
}

// nsFocus drives focus queries and activation through NSWorkspace.
type nsFocus struct{}

// NewFocusController returns the macOS focus controller.
func NewFocusController() FocusController { return nsFocus{} }

func (nsFocus) Frontmost() (FocusTarget, error) {
	buf := make([]byte, 256)
	pid := C.reclip_frontmostPID((*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	if pid < 0 {
		return FocusTarget{}, fmt.Errorf("no frontmost application")
	}
	name := string(buf[:cstrlen(buf)])
	return FocusTarget{PID: int(pid), Name: name}, nil
}

func (nsFocus) Activate(t FocusTarget) error {
	if C.reclip_activatePID(C.int(t.PID), 0) == 0 {
		return fmt.Errorf("activate pid %d failed", t.PID)
	}
	return nil
}

func (nsFocus) ActivateAll(t FocusTarget) error {
	if C.reclip_activatePID(C.int(t.PID), 1) == 0 {
		return fmt.Errorf("activate (all windows) pid %d failed", t.PID)
	}
	return nil
}

// Relaunch asks LaunchServices to activate the app by name; for an already
// running app `open -a` brings it to the foreground without starting a new
// instance.
func (nsFocus) Relaunch(t FocusTarget) error {
	if t.Name == "" {
		return fmt.Errorf("no application name for relaunch activation")
	}
	return exec.Command("open", "-a", t.Name).Run()
}

func cstrlen(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}

// scriptKeystroker issues the paste chord via osascript / System Events —
// the high-level scripting channel, more reliable across keyboard layouts
// than raw key codes.
type scriptKeystroker struct{}

func (scriptKeystroker) Name() string { return "osascript" }

func (scriptKeystroker) PasteChord() error {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to keystroke "v" using command down`).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %v (%s)", err, out)
	}
	return nil
}

// Keystrokers returns the ordered paste strategies for macOS: the scripting
// channel first, raw hardware events as fallback.
func Keystrokers() []Keystroker {
	return []Keystroker{scriptKeystroker{}, newHardwareKeystroker()}
}
