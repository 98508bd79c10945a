package schema

import (
	"fmt"

	"github.com/Alia5/hidforge/usb/hid"
)

// ButtonArray lowers to a run of 1-bit variable button fields, Button_1
// through Button_Count.
type ButtonArray struct {
	Count int
}

func (*ButtonArray) node() {}

func (w *ButtonArray) Lower(*Context) ([]Emit, error) {
	if w.Count <= 0 {
		return nil, fmt.Errorf("%w: button array count %d", ErrInvalidSchema, w.Count)
	}
	return []Emit{{
		State: Desired{
			UsagePage:   u16(hid.UsagePageButton),
			LogicalMin:  i32(0),
			LogicalMax:  i32(1),
			ReportSize:  u32(1),
			ReportCount: u32(uint32(w.Count)),
		},
		Locals: []hid.Item{
			{Tag: hid.TagUsageMin, Value: 1},
			{Tag: hid.TagUsageMax, Value: int64(w.Count)},
		},
		Main: hid.Item{Tag: hid.TagInput, Value: int64(hid.MainData | hid.MainVar | hid.MainAbs)},
	}}, nil
}

// Padding lowers to a constant input field of the given width. It resets the
// usage page and logical maximum the way canonical emitters do.
type Padding struct {
	Bits int
}

func (*Padding) node() {}

func (w *Padding) Lower(*Context) ([]Emit, error) {
	if w.Bits <= 0 {
		return nil, fmt.Errorf("%w: padding width %d", ErrInvalidSchema, w.Bits)
	}
	return []Emit{{
		State: Desired{
			UsagePage:   u16(hid.UsagePageUndefined),
			LogicalMax:  i32(0),
			ReportSize:  u32(uint32(w.Bits)),
			ReportCount: u32(1),
		},
		Main: hid.Item{Tag: hid.TagInput, Value: int64(hid.MainConst | hid.MainVar | hid.MainAbs)},
	}}, nil
}

// Axis lowers to a single variable field for one usage. The zero value of
// every optional knob matches the common 8-bit signed [-127,127] absolute
// axis; set Relative for pointer-motion style deltas.
type Axis struct {
	UsagePage  uint16 // 0 = Generic Desktop
	Usage      uint16
	BitWidth   int // 0 = 8
	LogicalMin *int32
	LogicalMax *int32
	Relative   bool
}

func (*Axis) node() {}

func (w *Axis) Lower(*Context) ([]Emit, error) {
	page := w.UsagePage
	if page == 0 {
		page = hid.UsagePageGenericDesktop
	}
	width := w.BitWidth
	if width == 0 {
		width = 8
	}
	if width < 0 || width > 32 {
		return nil, fmt.Errorf("%w: axis width %d", ErrInvalidSchema, w.BitWidth)
	}
	lmin, lmax := int32(-127), int32(127)
	if w.LogicalMin != nil {
		lmin = *w.LogicalMin
	}
	if w.LogicalMax != nil {
		lmax = *w.LogicalMax
	}
	if lmin > lmax {
		return nil, fmt.Errorf("%w: axis logical range [%d, %d]", ErrInvalidSchema, lmin, lmax)
	}
	flags := hid.MainData | hid.MainVar
	if w.Relative {
		flags |= hid.MainRel
	}
	return []Emit{{
		State: Desired{
			UsagePage:   u16(page),
			LogicalMin:  i32(lmin),
			LogicalMax:  i32(lmax),
			ReportSize:  u32(uint32(width)),
			ReportCount: u32(1),
		},
		Locals: []hid.Item{{Tag: hid.TagUsage, Value: int64(w.Usage)}},
		Main:   hid.Item{Tag: hid.TagInput, Value: int64(flags)},
	}}, nil
}

// HatSwitch lowers to the conventional 4-bit hat: logical 0-7 over physical
// 0-315 degrees, null state outside the range.
type HatSwitch struct{}

func (*HatSwitch) node() {}

func (w *HatSwitch) Lower(*Context) ([]Emit, error) {
	return []Emit{{
		State: Desired{
			UsagePage:   u16(hid.UsagePageGenericDesktop),
			LogicalMin:  i32(0),
			LogicalMax:  i32(7),
			PhysicalMin: i32(0),
			PhysicalMax: i32(315),
			Unit:        u32(0x14), // degrees
			ReportSize:  u32(4),
			ReportCount: u32(1),
		},
		Locals: []hid.Item{{Tag: hid.TagUsage, Value: int64(hid.UsageHatSwitch)}},
		Main:   hid.Item{Tag: hid.TagInput, Value: int64(hid.MainData | hid.MainVar | hid.MainAbs | hid.MainNullState)},
	}}, nil
}
