//go:build darwin

package xreg

import hk "golang.design/x/hotkey"

func modifierFor(name string) (hk.Modifier, bool) {
	switch name {
	case "ctrl", "control":
		return hk.ModCtrl, true
	case "shift":
		return hk.ModShift, true
	case "alt", "option":
		return hk.ModOption, true
	case "cmd", "command", "super", "meta":
		return hk.ModCmd, true
	default:
		return 0, false
	}
}
