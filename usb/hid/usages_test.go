package hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/hidforge/usb/hid"
)

func TestUsageName(t *testing.T) {
	cases := []struct {
		name  string
		page  uint16
		usage uint16
		want  string
		known bool
	}{
		{"generic desktop x", hid.UsagePageGenericDesktop, hid.UsageX, "X", true},
		{"hat switch", hid.UsagePageGenericDesktop, hid.UsageHatSwitch, "Hat_Switch", true},
		{"button index", hid.UsagePageButton, 3, "Button_3", true},
		{"consumer pan", hid.UsagePageConsumer, hid.UsageACPan, "AC_Pan", true},
		{"unknown desktop usage", hid.UsagePageGenericDesktop, 0xEE, "", false},
		{"vendor page", hid.UsagePageVendor, 1, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := hid.UsageName(tc.page, tc.usage)
			assert.Equal(t, tc.known, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookupByName(t *testing.T) {
	page, ok := hid.PageByName("Generic Desktop")
	assert.True(t, ok)
	assert.Equal(t, hid.UsagePageGenericDesktop, page)

	usage, ok := hid.UsageByName(hid.UsagePageGenericDesktop, "hat-switch")
	assert.True(t, ok)
	assert.Equal(t, hid.UsageHatSwitch, usage)

	btn, ok := hid.UsageByName(hid.UsagePageButton, "Button_7")
	assert.True(t, ok)
	assert.Equal(t, uint16(7), btn)

	_, ok = hid.PageByName("nope")
	assert.False(t, ok)
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "Button", hid.PageName(hid.UsagePageButton))
	assert.Equal(t, "Page 0x1234", hid.PageName(0x1234))
}
