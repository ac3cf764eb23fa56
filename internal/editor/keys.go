package editor

import (
	"github.com/gdamore/tcell/v2"
)

// keyString renders a key event as a keymap key such as "ctrl+z",
// "shift+left" or "alt+h".
func keyString(ev *tcell.EventKey) string {
	// Enter, Tab and Backspace share codes with ctrl+m, ctrl+i and ctrl+h,
	// so they are named before ctrlKeyName sees them.
	switch ev.Key() {
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "alt+" + string(r)
		}
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}

	name := namedKey(ev.Key())
	if name == "" {
		return ""
	}
	return modifierPrefix(ev.Modifiers()) + name
}

func modifierPrefix(mod tcell.ModMask) string {
	prefix := ""
	if mod&tcell.ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if mod&tcell.ModAlt != 0 {
		prefix += "alt+"
	}
	if mod&tcell.ModShift != 0 {
		prefix += "shift+"
	}
	return prefix
}

func namedKey(key tcell.Key) string {
	switch key {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}
