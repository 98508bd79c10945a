// Package report encodes and decodes runtime HID report packets against an
// analyzed layout. A Layout is never mutated here, so one may back any
// number of concurrent encoders and decoders.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Alia5/hidforge/analyze"
)

var (
	// ErrFieldOverflow reports a value outside a field's range in strict mode.
	ErrFieldOverflow = errors.New("field value out of range")
	// ErrUnknownField reports an encode mapping name absent from the section.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownReportID reports a packet or encode target with no matching
	// layout section.
	ErrUnknownReportID = errors.New("unknown report id")
)

// Warning records a value that was clamped during a non-strict encode.
type Warning struct {
	Field   string
	Value   int64
	Clamped int64
}

func (w Warning) String() string {
	return fmt.Sprintf("field %q: %d clamped to %d", w.Field, w.Value, w.Clamped)
}

// Encoder builds report packets from name-to-value mappings. In strict mode
// out-of-range values fail with ErrFieldOverflow instead of clamping.
type Encoder struct {
	Layout *analyze.Layout
	Strict bool
}

// Encode packs values into a report for (id, typ). Fields absent from the
// mapping stay zero. When the descriptor declares report IDs the packet is
// prefixed with the ID byte.
func (e *Encoder) Encode(id uint8, typ analyze.ReportType, values map[string]any) ([]byte, []Warning, error) {
	sec := e.Layout.Section(id, typ)
	if sec == nil {
		return nil, nil, fmt.Errorf("%w: 0x%02X", ErrUnknownReportID, id)
	}
	known := make(map[string]bool, len(sec.Fields))
	for i := range sec.Fields {
		known[sec.Fields[i].Name] = true
	}
	for name := range values {
		if !known[name] {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	buf := make([]byte, sec.SizeBytes)
	var warns []Warning
	for i := range sec.Fields {
		f := &sec.Fields[i]
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		v, err := coerce(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		lo, hi := fieldRange(f)
		if v < lo || v > hi {
			if e.Strict {
				return nil, nil, fmt.Errorf("%w: %q = %d outside [%d, %d]", ErrFieldOverflow, f.Name, v, lo, hi)
			}
			clamped := v
			if clamped < lo {
				clamped = lo
			} else if clamped > hi {
				clamped = hi
			}
			warns = append(warns, Warning{Field: f.Name, Value: v, Clamped: clamped})
			v = clamped
		}
		writeBits(buf, f.BitOffset, f.BitWidth, uint64(v)&maskLow(f.BitWidth))
	}
	if e.Layout.UsesReportIDs {
		return append([]byte{id}, buf...), warns, nil
	}
	return buf, warns, nil
}

func fieldRange(f *analyze.Field) (int64, int64) {
	if f.Signed {
		return int64(f.LogicalMin), int64(f.LogicalMax)
	}
	return 0, int64(maskLow(f.BitWidth))
}

func coerce(v any) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return int64(x), nil
	case float64:
		return int64(x), nil
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}

// Decoder unpacks report packets into name-to-value mappings.
type Decoder struct {
	Layout *analyze.Layout
}

// Decode reads a packet of the given report type. When the descriptor
// declares report IDs, the packet's first byte selects the section. Constant
// padding fields are skipped; 1-bit logical 0..1 fields decode as booleans,
// everything else as int.
func (d *Decoder) Decode(typ analyze.ReportType, packet []byte) (map[string]any, error) {
	id := uint8(0)
	data := packet
	if d.Layout.UsesReportIDs {
		if len(packet) == 0 {
			return nil, io.ErrUnexpectedEOF
		}
		id = packet[0]
		data = packet[1:]
	}
	sec := d.Layout.Section(id, typ)
	if sec == nil {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownReportID, id)
	}
	out := make(map[string]any, len(sec.Fields))
	for i := range sec.Fields {
		f := &sec.Fields[i]
		if f.Const {
			continue
		}
		if f.BitOffset+f.BitWidth > len(data)*8 {
			return nil, fmt.Errorf("field %q: %w", f.Name, io.ErrUnexpectedEOF)
		}
		v := readBits(data, f.BitOffset, f.BitWidth)
		switch {
		case f.Signed:
			out[f.Name] = int(signExtend(v, f.BitWidth))
		case f.BitWidth == 1 && f.LogicalMax == 1:
			out[f.Name] = v != 0
		default:
			out[f.Name] = int(v)
		}
	}
	return out, nil
}
