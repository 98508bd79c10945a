package compile

import (
	"github.com/Alia5/hidforge/schema"
	"github.com/Alia5/hidforge/usb/hid"
)

// Slots in the tracker's set bitmap, one per Global tag we track.
const (
	slotUsagePage = iota
	slotLogicalMin
	slotLogicalMax
	slotPhysicalMin
	slotPhysicalMax
	slotUnitExponent
	slotUnit
	slotReportSize
	slotReportID
	slotReportCount
)

type globalState struct {
	usagePage    uint16
	logicalMin   int32
	logicalMax   int32
	physicalMin  int32
	physicalMax  int32
	unitExponent int32
	unit         uint32
	reportSize   uint32
	reportID     uint8
	reportCount  uint32
}

// tracker mirrors the HID parser's global table as a device would see it
// while consuming the emitted stream, so the emitter can skip items that
// would not change that table. A slot that has never been emitted always
// emits, even for the type's zero value.
type tracker struct {
	cur globalState
	set uint16
}

func (t *tracker) has(slot int) bool { return t.set&(1<<slot) != 0 }
func (t *tracker) mark(slot int)     { t.set |= 1 << slot }

// apply diffs the desired state against the tracker and appends the items
// needed to establish it. Emission order is fixed: UsagePage, LogicalMin,
// LogicalMax, PhysicalMin, PhysicalMax, UnitExponent, Unit, ReportSize,
// ReportID, ReportCount.
func (t *tracker) apply(d schema.Desired, items *[]hid.Item) {
	if d.UsagePage != nil && (!t.has(slotUsagePage) || t.cur.usagePage != *d.UsagePage) {
		t.cur.usagePage = *d.UsagePage
		t.mark(slotUsagePage)
		*items = append(*items, hid.Item{Tag: hid.TagUsagePage, Value: int64(*d.UsagePage)})
	}
	if d.LogicalMin != nil && (!t.has(slotLogicalMin) || t.cur.logicalMin != *d.LogicalMin) {
		t.cur.logicalMin = *d.LogicalMin
		t.mark(slotLogicalMin)
		*items = append(*items, hid.Item{Tag: hid.TagLogicalMin, Value: int64(*d.LogicalMin)})
	}
	if d.LogicalMax != nil && (!t.has(slotLogicalMax) || t.cur.logicalMax != *d.LogicalMax) {
		t.cur.logicalMax = *d.LogicalMax
		t.mark(slotLogicalMax)
		*items = append(*items, hid.Item{Tag: hid.TagLogicalMax, Value: int64(*d.LogicalMax)})
	}
	if d.PhysicalMin != nil && (!t.has(slotPhysicalMin) || t.cur.physicalMin != *d.PhysicalMin) {
		t.cur.physicalMin = *d.PhysicalMin
		t.mark(slotPhysicalMin)
		*items = append(*items, hid.Item{Tag: hid.TagPhysicalMin, Value: int64(*d.PhysicalMin)})
	}
	if d.PhysicalMax != nil && (!t.has(slotPhysicalMax) || t.cur.physicalMax != *d.PhysicalMax) {
		t.cur.physicalMax = *d.PhysicalMax
		t.mark(slotPhysicalMax)
		*items = append(*items, hid.Item{Tag: hid.TagPhysicalMax, Value: int64(*d.PhysicalMax)})
	}
	if d.UnitExponent != nil && (!t.has(slotUnitExponent) || t.cur.unitExponent != *d.UnitExponent) {
		t.cur.unitExponent = *d.UnitExponent
		t.mark(slotUnitExponent)
		*items = append(*items, hid.Item{Tag: hid.TagUnitExponent, Value: int64(*d.UnitExponent)})
	}
	if d.Unit != nil && (!t.has(slotUnit) || t.cur.unit != *d.Unit) {
		t.cur.unit = *d.Unit
		t.mark(slotUnit)
		*items = append(*items, hid.Item{Tag: hid.TagUnit, Value: int64(*d.Unit)})
	}
	if d.ReportSize != nil && (!t.has(slotReportSize) || t.cur.reportSize != *d.ReportSize) {
		t.cur.reportSize = *d.ReportSize
		t.mark(slotReportSize)
		*items = append(*items, hid.Item{Tag: hid.TagReportSize, Value: int64(*d.ReportSize)})
	}
	if d.ReportID != nil && (!t.has(slotReportID) || t.cur.reportID != *d.ReportID) {
		t.cur.reportID = *d.ReportID
		t.mark(slotReportID)
		*items = append(*items, hid.Item{Tag: hid.TagReportID, Value: int64(*d.ReportID)})
	}
	if d.ReportCount != nil && (!t.has(slotReportCount) || t.cur.reportCount != *d.ReportCount) {
		t.cur.reportCount = *d.ReportCount
		t.mark(slotReportCount)
		*items = append(*items, hid.Item{Tag: hid.TagReportCount, Value: int64(*d.ReportCount)})
	}
}
