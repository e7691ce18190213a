//go:build windows

package inject

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procShowWindow               = user32.NewProc("ShowWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
)

const swRestore = 9

// winGate: SendInput needs no special privilege on Windows.
type winGate struct{}

// NewPermissionGate returns the Windows synthetic-input permission check.
func NewPermissionGate() PermissionGate { return winGate{} }

func (winGate) SyntheticInputAllowed() bool { return true }

// winFocus drives focus queries and activation through user32.
type winFocus struct{}

// NewFocusController returns the Windows focus controller.
func NewFocusController() FocusController { return winFocus{} }

func (winFocus) Frontmost() (FocusTarget, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return FocusTarget{}, fmt.Errorf("no foreground window")
	}
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return FocusTarget{PID: int(pid), Name: windows.UTF16ToString(buf[:n])}, nil
}

// topWindowOf finds a visible top-level window belonging to pid.
func topWindowOf(pid int) (uintptr, error) {
	var found uintptr
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		var wpid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&wpid)))
		if int(wpid) != pid {
			return 1 // continue
		}
		if vis, _, _ := procIsWindowVisible.Call(hwnd); vis == 0 {
			return 1
		}
		found = hwnd
		return 0 // stop
	})
	procEnumWindows.Call(cb, 0)
	if found == 0 {
		return 0, fmt.Errorf("no visible window for pid %d", pid)
	}
	return found, nil
}

func (winFocus) Activate(t FocusTarget) error {
	hwnd, err := topWindowOf(t.PID)
	if err != nil {
		return err
	}
	if ok, _, _ := procSetForegroundWindow.Call(hwnd); ok == 0 {
		return fmt.Errorf("SetForegroundWindow failed for pid %d", t.PID)
	}
	return nil
}

func (winFocus) ActivateAll(t FocusTarget) error {
	hwnd, err := topWindowOf(t.PID)
	if err != nil {
		return err
	}
	procShowWindow.Call(hwnd, swRestore)
	if ok, _, _ := procSetForegroundWindow.Call(hwnd); ok == 0 {
		return fmt.Errorf("SetForegroundWindow failed for pid %d", t.PID)
	}
	return nil
}

func (winFocus) Relaunch(t FocusTarget) error {
	return fmt.Errorf("relaunch activation not supported on windows")
}

// sendKeysKeystroker issues the paste chord through the WScript.Shell
// SendKeys automation channel.
type sendKeysKeystroker struct{}

func (sendKeysKeystroker) Name() string { return "wscript sendkeys" }

func (sendKeysKeystroker) PasteChord() error {
	out, err := exec.Command("powershell", "-NoProfile", "-Command",
		`(New-Object -ComObject wscript.shell).SendKeys('^v')`).CombinedOutput()
	if err != nil {
		return fmt.Errorf("sendkeys: %v (%s)", err, out)
	}
	return nil
}

// Keystrokers returns the ordered paste strategies for Windows.
func Keystrokers() []Keystroker {
	return []Keystroker{sendKeysKeystroker{}, newHardwareKeystroker()}
}
