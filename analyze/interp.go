package analyze

import (
	"fmt"

	"github.com/Alia5/hidforge/usb/hid"
)

type globalTable struct {
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

// localUsage is one entry of the expanded local queue. Extended usages (32
// bit payload) carry their own page; the rest resolve against the global
// usage page at Main time.
type localUsage struct {
	page     uint16
	id       uint16
	extended bool
}

type sectionKey struct {
	id  uint8
	typ ReportType
}

type interp struct {
	g       globalTable
	locals  []hid.Item
	stack   []globalTable
	cursors map[sectionKey]int
	layout  *Layout
}

func buildLayout(items []hid.Item) (*Layout, error) {
	in := &interp{
		cursors: map[sectionKey]int{},
		layout:  &Layout{Reports: map[uint8]*Report{}},
	}
	for i, it := range items {
		switch it.Tag {
		case hid.TagUsagePage:
			in.g.usagePage = uint16(it.Value)
		case hid.TagLogicalMin:
			in.g.logicalMin = int32(it.Value)
		case hid.TagLogicalMax:
			in.g.logicalMax = int32(it.Value)
		case hid.TagPhysicalMin:
			in.g.physicalMin = int32(it.Value)
		case hid.TagPhysicalMax:
			in.g.physicalMax = int32(it.Value)
		case hid.TagUnitExponent:
			in.g.unitExponent = int32(it.Value)
		case hid.TagUnit:
			in.g.unit = uint32(it.Value)
		case hid.TagReportSize:
			in.g.reportSize = uint32(it.Value)
		case hid.TagReportID:
			in.g.reportID = uint8(it.Value)
			in.layout.UsesReportIDs = true
		case hid.TagReportCount:
			in.g.reportCount = uint32(it.Value)
		case hid.TagPush:
			in.stack = append(in.stack, in.g)
		case hid.TagPop:
			if len(in.stack) == 0 {
				return nil, fmt.Errorf("%w: pop at item %d", ErrStackUnderflow, i)
			}
			in.g = in.stack[len(in.stack)-1]
			in.stack = in.stack[:len(in.stack)-1]
		case hid.TagInput:
			in.main(it, Input)
		case hid.TagOutput:
			in.main(it, Output)
		case hid.TagFeature:
			in.main(it, Feature)
		case hid.TagCollection, hid.TagEndCollection:
			// Collections affect the tree view only; locals still clear.
			in.locals = nil
		default:
			if it.Tag.Type() == hid.TypeLocal {
				in.locals = append(in.locals, it)
			}
			// Unknown tags are ignored.
		}
	}
	in.finalize()
	return in.layout, nil
}

// expandLocals resolves the queued local items into per-index usages,
// expanding UsageMinimum..UsageMaximum ranges inclusively. Designator and
// String locals pass through unconsumed.
func (in *interp) expandLocals() []localUsage {
	var out []localUsage
	var min *localUsage
	for _, it := range in.locals {
		switch it.Tag {
		case hid.TagUsage:
			out = append(out, usageFrom(it))
		case hid.TagUsageMin:
			m := usageFrom(it)
			min = &m
		case hid.TagUsageMax:
			max := usageFrom(it)
			if min == nil {
				continue
			}
			for v := min.id; ; v++ {
				out = append(out, localUsage{page: min.page, id: v, extended: min.extended})
				if v >= max.id {
					break
				}
			}
			min = nil
		}
	}
	return out
}

func usageFrom(it hid.Item) localUsage {
	v := uint32(it.Value)
	if v > 0xFFFF {
		return localUsage{page: uint16(v >> 16), id: uint16(v), extended: true}
	}
	return localUsage{id: uint16(v)}
}

func (in *interp) main(it hid.Item, typ ReportType) {
	flags := hid.MainFlags(it.Value)
	g := in.g // snapshot; field generation must not see later mutations
	usages := in.expandLocals()
	in.locals = nil

	key := sectionKey{id: g.reportID, typ: typ}
	sec := in.section(key)
	cursor := in.cursors[key]
	width := int(g.reportSize)
	signed := g.logicalMin < 0

	for i := 0; i < int(g.reportCount); i++ {
		f := Field{
			BitOffset:   cursor,
			BitWidth:    width,
			ByteOffset:  cursor / 8,
			Mask:        maskBits(width, cursor%8),
			LogicalMin:  g.logicalMin,
			LogicalMax:  g.logicalMax,
			PhysicalMin: g.physicalMin,
			PhysicalMax: g.physicalMax,
			Signed:      signed,
			ReportType:  typ,
			ReportID:    g.reportID,
		}
		switch {
		case flags&hid.MainConst != 0:
			f.Const = true
			f.Name = "Padding"
		case flags&hid.MainVar != 0:
			u := usageAt(usages, i)
			f.UsagePage, f.UsageID = resolvePage(u, g.usagePage), u.id
			f.Name = fieldName(f.UsagePage, f.UsageID)
		default:
			f.Array = true
			for _, u := range usages {
				f.Usages = append(f.Usages, uint32(resolvePage(u, g.usagePage))<<16|uint32(u.id))
			}
			if len(usages) > 0 {
				f.UsagePage = resolvePage(usages[0], g.usagePage)
				f.UsageID = usages[0].id
				f.Name = fieldName(f.UsagePage, f.UsageID)
			} else {
				f.UsagePage = g.usagePage
				f.Name = "Array"
			}
		}
		sec.Fields = append(sec.Fields, f)
		cursor += width
	}
	in.cursors[key] = cursor
}

// usageAt returns the i-th queued usage; a queue shorter than the report
// count repeats its last entry.
func usageAt(usages []localUsage, i int) localUsage {
	if len(usages) == 0 {
		return localUsage{}
	}
	if i >= len(usages) {
		return usages[len(usages)-1]
	}
	return usages[i]
}

func resolvePage(u localUsage, current uint16) uint16 {
	if u.extended {
		return u.page
	}
	return current
}

func fieldName(page, id uint16) string {
	if name, ok := hid.UsageName(page, id); ok {
		return name
	}
	return fmt.Sprintf("Usage 0x%02X", id)
}

func (in *interp) section(key sectionKey) *Section {
	r, ok := in.layout.Reports[key.id]
	if !ok {
		r = &Report{}
		in.layout.Reports[key.id] = r
	}
	return r.section(key.typ)
}

// finalize computes section sizes and disambiguates duplicate field names.
func (in *interp) finalize() {
	for _, r := range in.layout.Reports {
		for _, typ := range []ReportType{Input, Output, Feature} {
			sec := r.section(typ)
			if len(sec.Fields) == 0 {
				continue
			}
			end := 0
			for _, f := range sec.Fields {
				if e := f.BitOffset + f.BitWidth; e > end {
					end = e
				}
			}
			sec.SizeBytes = (end + 7) / 8
			disambiguate(sec)
		}
	}
}

func disambiguate(sec *Section) {
	seen := map[string]int{}
	for i := range sec.Fields {
		name := sec.Fields[i].Name
		seen[name]++
		if n := seen[name]; n > 1 {
			sec.Fields[i].Name = fmt.Sprintf("%s_%d", name, n)
		}
	}
}

func maskBits(width, shift int) uint64 {
	if width >= 64 {
		return ^uint64(0) << shift
	}
	return (uint64(1)<<width - 1) << shift
}
