//go:build linux

package xreg

import hk "golang.design/x/hotkey"

func modifierFor(name string) (hk.Modifier, bool) {
	switch name {
	case "ctrl", "control":
		return hk.ModCtrl, true
	case "shift":
		return hk.ModShift, true
	case "alt", "option":
		return hk.Mod1, true
	case "cmd", "command", "super", "meta", "win":
		return hk.Mod4, true
	default:
		return 0, false
	}
}
