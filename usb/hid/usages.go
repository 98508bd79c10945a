package hid

import (
	"fmt"
	"strings"
)

// Usage page identifiers (HID Usage Tables 1.12).
const (
	UsagePageUndefined      uint16 = 0x00
	UsagePageGenericDesktop uint16 = 0x01
	UsagePageSimulation     uint16 = 0x02
	UsagePageVR             uint16 = 0x03
	UsagePageSport          uint16 = 0x04
	UsagePageGame           uint16 = 0x05
	UsagePageGenericDevice  uint16 = 0x06
	UsagePageKeyboard       uint16 = 0x07
	UsagePageLED            uint16 = 0x08
	UsagePageButton         uint16 = 0x09
	UsagePageOrdinal        uint16 = 0x0A
	UsagePageTelephony      uint16 = 0x0B
	UsagePageConsumer       uint16 = 0x0C
	UsagePageDigitizer      uint16 = 0x0D
	UsagePageVendor         uint16 = 0xFF00
)

// Generic Desktop usages.
const (
	UsagePointer   uint16 = 0x01
	UsageMouse     uint16 = 0x02
	UsageJoystick  uint16 = 0x04
	UsageGamePad   uint16 = 0x05
	UsageKeyboard  uint16 = 0x06
	UsageKeypad    uint16 = 0x07
	UsageX         uint16 = 0x30
	UsageY         uint16 = 0x31
	UsageZ         uint16 = 0x32
	UsageRx        uint16 = 0x33
	UsageRy        uint16 = 0x34
	UsageRz        uint16 = 0x35
	UsageSlider    uint16 = 0x36
	UsageDial      uint16 = 0x37
	UsageWheel     uint16 = 0x38
	UsageHatSwitch uint16 = 0x39
)

// Consumer page usages.
const (
	UsageConsumerControl uint16 = 0x01
	UsageACPan           uint16 = 0x0238
)

var pageNames = map[uint16]string{
	UsagePageUndefined:      "Undefined",
	UsagePageGenericDesktop: "Generic_Desktop",
	UsagePageSimulation:     "Simulation",
	UsagePageVR:             "VR",
	UsagePageSport:          "Sport",
	UsagePageGame:           "Game",
	UsagePageGenericDevice:  "Generic_Device",
	UsagePageKeyboard:       "Keyboard",
	UsagePageLED:            "LED",
	UsagePageButton:         "Button",
	UsagePageOrdinal:        "Ordinal",
	UsagePageTelephony:      "Telephony",
	UsagePageConsumer:       "Consumer",
	UsagePageDigitizer:      "Digitizer",
	UsagePageVendor:         "Vendor",
}

var genericDesktopNames = map[uint16]string{
	UsagePointer:   "Pointer",
	UsageMouse:     "Mouse",
	UsageJoystick:  "Joystick",
	UsageGamePad:   "Game_Pad",
	UsageKeyboard:  "Keyboard",
	UsageKeypad:    "Keypad",
	UsageX:         "X",
	UsageY:         "Y",
	UsageZ:         "Z",
	UsageRx:        "Rx",
	UsageRy:        "Ry",
	UsageRz:        "Rz",
	UsageSlider:    "Slider",
	UsageDial:      "Dial",
	UsageWheel:     "Wheel",
	UsageHatSwitch: "Hat_Switch",
}

var consumerNames = map[uint16]string{
	UsageConsumerControl: "Consumer_Control",
	UsageACPan:           "AC_Pan",
}

// PageName returns a human name for a usage page, or "Page 0x%04X" when
// unknown.
func PageName(page uint16) string {
	if s, ok := pageNames[page]; ok {
		return s
	}
	return fmt.Sprintf("Page 0x%04X", page)
}

// UsageName returns a human name for a usage on the given page. The second
// return is false when no table entry exists; callers typically fall back to
// "Usage 0x%02X".
func UsageName(page, usage uint16) (string, bool) {
	switch page {
	case UsagePageButton:
		return fmt.Sprintf("Button_%d", usage), true
	case UsagePageGenericDesktop:
		s, ok := genericDesktopNames[usage]
		return s, ok
	case UsagePageConsumer:
		s, ok := consumerNames[usage]
		return s, ok
	}
	return "", false
}

var (
	pagesByName  map[string]uint16
	usagesByName map[uint16]map[string]uint16
)

func init() {
	pagesByName = make(map[string]uint16, len(pageNames))
	for id, name := range pageNames {
		pagesByName[normalizeName(name)] = id
	}
	usagesByName = map[uint16]map[string]uint16{
		UsagePageGenericDesktop: invert(genericDesktopNames),
		UsagePageConsumer:       invert(consumerNames),
	}
}

func invert(m map[uint16]string) map[string]uint16 {
	out := make(map[string]uint16, len(m))
	for id, name := range m {
		out[normalizeName(name)] = id
	}
	return out
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// PageByName resolves a usage-page name (case-insensitive, spaces and
// underscores interchangeable) to its identifier.
func PageByName(name string) (uint16, bool) {
	id, ok := pagesByName[normalizeName(name)]
	return id, ok
}

// UsageByName resolves a usage name on the given page. On the Button page,
// names of the form "Button_7" resolve to their index.
func UsageByName(page uint16, name string) (uint16, bool) {
	n := normalizeName(name)
	if page == UsagePageButton {
		var idx uint16
		if _, err := fmt.Sscanf(n, "button_%d", &idx); err == nil {
			return idx, true
		}
		return 0, false
	}
	if m, ok := usagesByName[page]; ok {
		id, ok := m[n]
		return id, ok
	}
	return 0, false
}
