package hid

// Type classifies a short item per HID 1.11 §6.2.2.2.
type Type byte

const (
	TypeMain Type = iota
	TypeGlobal
	TypeLocal
)

func (t Type) String() string {
	switch t {
	case TypeMain:
		return "Main"
	case TypeGlobal:
		return "Global"
	case TypeLocal:
		return "Local"
	}
	return "Reserved"
}

// Tag identifies a short item. The value is the item prefix byte with the
// size bits cleared, so every representable tag/type pair maps to exactly
// one opcode.
type Tag byte

// Main items.
const (
	TagInput         Tag = 0x80
	TagOutput        Tag = 0x90
	TagCollection    Tag = 0xA0
	TagFeature       Tag = 0xB0
	TagEndCollection Tag = 0xC0
)

// Global items.
const (
	TagUsagePage    Tag = 0x04
	TagLogicalMin   Tag = 0x14
	TagLogicalMax   Tag = 0x24
	TagPhysicalMin  Tag = 0x34
	TagPhysicalMax  Tag = 0x44
	TagUnitExponent Tag = 0x54
	TagUnit         Tag = 0x64
	TagReportSize   Tag = 0x74
	TagReportID     Tag = 0x84
	TagReportCount  Tag = 0x94
	TagPush         Tag = 0xA4
	TagPop          Tag = 0xB4
)

// Local items. Designator and String tags are recognized so descriptors
// using them round-trip, but the analyzer treats them as pass-through.
const (
	TagUsage         Tag = 0x08
	TagUsageMin      Tag = 0x18
	TagUsageMax      Tag = 0x28
	TagDesignatorIdx Tag = 0x38
	TagDesignatorMin Tag = 0x48
	TagDesignatorMax Tag = 0x58
	TagStringIdx     Tag = 0x78
	TagStringMin     Tag = 0x88
	TagStringMax     Tag = 0x98
	TagDelimiter     Tag = 0xA8
)

// Type returns the item type encoded in bits 2-3 of the opcode.
func (t Tag) Type() Type {
	return Type(t >> 2 & 0x03)
}

// Signed reports whether the tag's payload is interpreted as two's
// complement. Only the logical/physical extents and the unit exponent are.
func (t Tag) Signed() bool {
	switch t {
	case TagLogicalMin, TagLogicalMax, TagPhysicalMin, TagPhysicalMax, TagUnitExponent:
		return true
	}
	return false
}

// NoData reports whether the tag never carries a payload.
func (t Tag) NoData() bool {
	switch t {
	case TagEndCollection, TagPush, TagPop:
		return true
	}
	return false
}

var tagNames = map[Tag]string{
	TagInput:         "Input",
	TagOutput:        "Output",
	TagCollection:    "Collection",
	TagFeature:       "Feature",
	TagEndCollection: "End Collection",
	TagUsagePage:     "Usage Page",
	TagLogicalMin:    "Logical Minimum",
	TagLogicalMax:    "Logical Maximum",
	TagPhysicalMin:   "Physical Minimum",
	TagPhysicalMax:   "Physical Maximum",
	TagUnitExponent:  "Unit Exponent",
	TagUnit:          "Unit",
	TagReportSize:    "Report Size",
	TagReportID:      "Report ID",
	TagReportCount:   "Report Count",
	TagPush:          "Push",
	TagPop:           "Pop",
	TagUsage:         "Usage",
	TagUsageMin:      "Usage Minimum",
	TagUsageMax:      "Usage Maximum",
	TagDesignatorIdx: "Designator Index",
	TagDesignatorMin: "Designator Minimum",
	TagDesignatorMax: "Designator Maximum",
	TagStringIdx:     "String Index",
	TagStringMin:     "String Minimum",
	TagStringMax:     "String Maximum",
	TagDelimiter:     "Delimiter",
}

// Known reports whether the tag is in the short-item catalog. Unknown tags
// are still carried through parse/serialize with their raw payload.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "Reserved"
}

// MainFlags is the data payload of an Input/Output/Feature item.
type MainFlags uint16

const (
	MainConst MainFlags = 1 << iota
	MainVar
	MainRel
	MainWrap
	MainNonLinear
	MainNoPreferred
	MainNullState
	MainVolatile
	MainBufferedBytes
)

// Zero-valued aliases so flag combinations read like the HID 1.11 flag tables.
const (
	MainData MainFlags = 0
	MainAbs  MainFlags = 0
)

// CollectionKind is the data payload of a Collection item.
type CollectionKind byte

const (
	CollectionPhysical CollectionKind = iota
	CollectionApplication
	CollectionLogical
	CollectionReport
	CollectionNamedArray
	CollectionUsageSwitch
	CollectionUsageModifier
)

func (k CollectionKind) String() string {
	switch k {
	case CollectionPhysical:
		return "Physical"
	case CollectionApplication:
		return "Application"
	case CollectionLogical:
		return "Logical"
	case CollectionReport:
		return "Report"
	case CollectionNamedArray:
		return "Named Array"
	case CollectionUsageSwitch:
		return "Usage Switch"
	case CollectionUsageModifier:
		return "Usage Modifier"
	}
	return "Vendor"
}
