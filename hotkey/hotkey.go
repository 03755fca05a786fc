// Package hotkey registers global key combinations through a single gohook
// event stream. Callbacks fire on the hook goroutine and must not block;
// callers post into their own event loop.
package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Binding maps one combo string like "Ctrl+Alt+V" to a callback.
type Binding struct {
	Combo   string
	OnPress func()
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

type combo struct {
	label   string
	keys    []keyState
	onPress func()
}

// Listen starts the global hook and watches all bindings at once. It returns
// an error when a combo cannot be mapped to key codes; the hook itself runs
// on a background goroutine for the life of the process.
func Listen(bindings ...Binding) error {
	var combos []*combo
	for _, b := range bindings {
		c, err := newCombo(b)
		if err != nil {
			return err
		}
		combos = append(combos, c)
		log.Printf("Hotkey registered: %s", b.Combo)
	}
	if len(combos) == 0 {
		return fmt.Errorf("no hotkey bindings given")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}

		var mu sync.Mutex
		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			mu.Lock()
			var fire []*combo
			for _, c := range combos {
				if c.handle(ev.Kind == gohook.KeyDown, ev.Rawcode) {
					fire = append(fire, c)
				}
			}
			mu.Unlock()
			for _, c := range fire {
				log.Printf("Hotkey activated: %s", c.label)
				c.onPress()
			}
		}
		log.Printf("Hotkey event channel closed")
	}()

	return nil
}

func newCombo(b Binding) (*combo, error) {
	names := parseHotkey(b.Combo)
	if len(names) == 0 {
		return nil, fmt.Errorf("empty hotkey combo %q", b.Combo)
	}
	c := &combo{label: b.Combo, onPress: b.OnPress}
	for _, name := range names {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			return nil, fmt.Errorf("cannot map key %q in combo %q", name, b.Combo)
		}
		c.keys = append(c.keys, keyState{name: name, rawcodes: rawcodes})
	}
	return c, nil
}

// handle updates the combo's key state for one event and reports whether the
// full combination just completed. State resets on completion so holding the
// keys does not retrigger.
func (c *combo) handle(down bool, rawcode uint16) bool {
	matched := false
	for i := range c.keys {
		for _, rc := range c.keys[i].rawcodes {
			if rc == rawcode {
				c.keys[i].pressed = down
				matched = true
				break
			}
		}
	}
	if !matched || !down {
		return false
	}
	for i := range c.keys {
		if !c.keys[i].pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

// parseHotkey converts a combo string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// Modifier and special keys map to Windows virtual-key rawcodes, both
// left/right variants where they exist. gohook reports the same codes on the
// other platforms it supports.
var specialRawcodes = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN
	"space": {32},
	"enter": {13},
	"esc":   {27},
	"tab":   {9},
}

// keyNameToRawcodes maps a normalized key name to its virtual-key rawcodes.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if codes, ok := specialRawcodes[keyName]; ok {
		return codes
	}
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65} // VK_A..VK_Z
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48} // VK_0..VK_9
		}
	}
	// Function keys F1..F24 are VK 112..135
	if strings.HasPrefix(keyName, "f") && len(keyName) <= 3 {
		n := 0
		for _, r := range keyName[1:] {
			if r < '0' || r > '9' {
				n = 0
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(n-1) + 112}
		}
	}
	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}
