package hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/hidforge/usb/hid"
)

func TestItemRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		item hid.Item
	}{
		{"usage page", hid.Item{Tag: hid.TagUsagePage, Value: 0x01}},
		{"usage page zero", hid.Item{Tag: hid.TagUsagePage, Value: 0}},
		{"vendor usage page", hid.Item{Tag: hid.TagUsagePage, Value: 0xFF00}},
		{"logical min negative", hid.Item{Tag: hid.TagLogicalMin, Value: -127}},
		{"logical min two bytes", hid.Item{Tag: hid.TagLogicalMin, Value: -32768}},
		{"logical max four bytes", hid.Item{Tag: hid.TagLogicalMax, Value: 65536}},
		{"physical max", hid.Item{Tag: hid.TagPhysicalMax, Value: 315}},
		{"unit exponent", hid.Item{Tag: hid.TagUnitExponent, Value: -4}},
		{"unit degrees", hid.Item{Tag: hid.TagUnit, Value: 0x14}},
		{"report size", hid.Item{Tag: hid.TagReportSize, Value: 8}},
		{"report id", hid.Item{Tag: hid.TagReportID, Value: 5}},
		{"report count", hid.Item{Tag: hid.TagReportCount, Value: 300}},
		{"usage", hid.Item{Tag: hid.TagUsage, Value: 0x30}},
		{"extended usage", hid.Item{Tag: hid.TagUsage, Value: 0xFF000001}},
		{"usage range", hid.Item{Tag: hid.TagUsageMax, Value: 16}},
		{"input", hid.Item{Tag: hid.TagInput, Value: 0x02}},
		{"input buffered bytes", hid.Item{Tag: hid.TagInput, Value: 0x102}},
		{"feature", hid.Item{Tag: hid.TagFeature, Value: 0x02}},
		{"collection", hid.Item{Tag: hid.TagCollection, Value: 0x01}},
		{"end collection", hid.Item{Tag: hid.TagEndCollection}},
		{"push", hid.Item{Tag: hid.TagPush}},
		{"pop", hid.Item{Tag: hid.TagPop}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := hid.Serialize([]hid.Item{tc.item})
			parsed, err := hid.Parse(data)
			require.NoError(t, err)
			require.Len(t, parsed, 1)
			assert.Equal(t, tc.item, parsed[0])
		})
	}
}

func TestMinimalPayloadWidth(t *testing.T) {
	cases := []struct {
		name  string
		item  hid.Item
		bytes []byte
	}{
		{"zero emits one byte", hid.Item{Tag: hid.TagLogicalMin, Value: 0}, []byte{0x15, 0x00}},
		{"one byte unsigned", hid.Item{Tag: hid.TagReportCount, Value: 0xFF}, []byte{0x95, 0xFF}},
		{"two byte unsigned", hid.Item{Tag: hid.TagReportCount, Value: 0x100}, []byte{0x96, 0x00, 0x01}},
		{"one byte signed", hid.Item{Tag: hid.TagLogicalMin, Value: -128}, []byte{0x15, 0x80}},
		{"signed 128 needs two bytes", hid.Item{Tag: hid.TagLogicalMax, Value: 128}, []byte{0x26, 0x80, 0x00}},
		{"two byte signed", hid.Item{Tag: hid.TagLogicalMin, Value: -32768}, []byte{0x16, 0x00, 0x80}},
		{"four byte signed", hid.Item{Tag: hid.TagLogicalMax, Value: 32768}, []byte{0x27, 0x00, 0x80, 0x00, 0x00}},
		{"end collection has no payload", hid.Item{Tag: hid.TagEndCollection}, []byte{0xC0}},
		{"push has no payload", hid.Item{Tag: hid.TagPush}, []byte{0xA4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.bytes, hid.Serialize([]hid.Item{tc.item}))
		})
	}
}

func TestParseTruncated(t *testing.T) {
	// Size-code-3 prefix at offset 2 followed by only two payload bytes.
	_, err := hid.Parse([]byte{0x15, 0x00, 0x27, 0x01, 0x02})
	require.ErrorIs(t, err, hid.ErrMalformed)
	var perr *hid.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Offset)
}

func TestParseLongItem(t *testing.T) {
	_, err := hid.Parse([]byte{0x05, 0x01, 0xFE, 0x02, 0x00})
	require.ErrorIs(t, err, hid.ErrLongItem)
	var perr *hid.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Offset)
}

func TestParseUnknownTagPreserved(t *testing.T) {
	// 0xE0|1: a reserved Main tag carrying one payload byte.
	raw := []byte{0xE1, 0xAA}
	items, err := hid.Parse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Tag.Known())
	assert.Equal(t, []byte{0xAA}, items[0].Raw)
	assert.Equal(t, int64(0xAA), items[0].Data())
	assert.Equal(t, raw, hid.Serialize(items))
}

func TestTagProperties(t *testing.T) {
	assert.Equal(t, hid.TypeMain, hid.TagInput.Type())
	assert.Equal(t, hid.TypeGlobal, hid.TagUsagePage.Type())
	assert.Equal(t, hid.TypeLocal, hid.TagUsage.Type())
	assert.True(t, hid.TagLogicalMin.Signed())
	assert.False(t, hid.TagReportCount.Signed())
	assert.Equal(t, "Usage Page", hid.TagUsagePage.String())
}
