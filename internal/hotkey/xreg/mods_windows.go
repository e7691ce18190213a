//go:build windows

package xreg

import hk "golang.design/x/hotkey"

func modifierFor(name string) (hk.Modifier, bool) {
	switch name {
	case "ctrl", "control":
		return hk.ModCtrl, true
	case "shift":
		return hk.ModShift, true
	case "alt", "option":
		return hk.ModAlt, true
	case "cmd", "command", "super", "meta", "win":
		return hk.ModWin, true
	default:
		return 0, false
	}
}
