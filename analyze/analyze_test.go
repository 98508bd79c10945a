package analyze_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/hidforge/analyze"
	"github.com/Alia5/hidforge/compile"
	"github.com/Alia5/hidforge/schema"
	"github.com/Alia5/hidforge/usb/hid"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.NoError(t, err)
	return data
}

func mouseDescriptor(t *testing.T) []byte {
	t.Helper()
	root := &schema.Collection{
		UsagePage: hid.UsagePageGenericDesktop,
		Usage:     hid.UsageMouse,
		Kind:      hid.CollectionPhysical,
		Children: []schema.Node{
			&schema.ButtonArray{Count: 3},
			&schema.Padding{Bits: 5},
			&schema.Axis{Usage: hid.UsageX},
			&schema.Axis{Usage: hid.UsageY},
			&schema.Axis{Usage: hid.UsageWheel},
		},
	}
	data, err := compile.Compile(root, compile.Options{})
	require.NoError(t, err)
	return data
}

func TestMouseLayout(t *testing.T) {
	res, err := analyze.Analyze(mouseDescriptor(t))
	require.NoError(t, err)

	assert.False(t, res.Layout.UsesReportIDs)
	sec := res.Layout.Section(0, analyze.Input)
	require.NotNil(t, sec)
	assert.Equal(t, 4, sec.SizeBytes)
	require.Len(t, sec.Fields, 7)

	type expect struct {
		name   string
		offset int
		width  int
		signed bool
		konst  bool
	}
	expected := []expect{
		{"Button_1", 0, 1, false, false},
		{"Button_2", 1, 1, false, false},
		{"Button_3", 2, 1, false, false},
		{"Padding", 3, 5, false, true},
		{"X", 8, 8, true, false},
		{"Y", 16, 8, true, false},
		{"Wheel", 24, 8, true, false},
	}
	for i, e := range expected {
		f := sec.Fields[i]
		assert.Equal(t, e.name, f.Name, "field %d", i)
		assert.Equal(t, e.offset, f.BitOffset, "field %d offset", i)
		assert.Equal(t, e.width, f.BitWidth, "field %d width", i)
		assert.Equal(t, e.signed, f.Signed, "field %d signedness", i)
		assert.Equal(t, e.konst, f.Const, "field %d const", i)
	}
	x := sec.Fields[4]
	assert.Equal(t, int32(-127), x.LogicalMin)
	assert.Equal(t, int32(127), x.LogicalMax)
	assert.Equal(t, hid.UsagePageGenericDesktop, x.UsagePage)
	assert.Equal(t, hid.UsageX, x.UsageID)
	assert.Equal(t, 1, x.ByteOffset)
	assert.Equal(t, uint64(0xFF), x.Mask)

	// Fields tile the section without gaps.
	for i := 1; i < len(sec.Fields); i++ {
		prev := sec.Fields[i-1]
		assert.Equal(t, prev.BitOffset+prev.BitWidth, sec.Fields[i].BitOffset)
	}
}

// A 16-button flight stick in the style of the common retail descriptors:
// hat with degree units, two 14-bit axes with 2-bit pads, two 8-bit axes,
// and a vendor-defined feature block.
const joystickHex = "05010904a101" +
	"0509190129101500250175019510" + "8102" +
	"0501093925073500463b016514750495018142" +
	"8101" +
	"093026ff3f45006500750e8102" +
	"75028101" +
	"0931750e8102" +
	"75028101" +
	"093526ff0075088102" +
	"09368102" +
	"0600ff090109020903090475089504b102" +
	"c0"

func TestJoystickLayout(t *testing.T) {
	res, err := analyze.Analyze(mustHex(t, joystickHex))
	require.NoError(t, err)

	in := res.Layout.Section(0, analyze.Input)
	require.NotNil(t, in)
	assert.Equal(t, 9, in.SizeBytes)
	require.Len(t, in.Fields, 24)

	for i := 0; i < 16; i++ {
		f := in.Fields[i]
		assert.Equal(t, i, f.BitOffset)
		assert.Equal(t, 1, f.BitWidth)
		assert.False(t, f.Signed)
		assert.Equal(t, int32(1), f.LogicalMax)
	}
	assert.Equal(t, "Button_1", in.Fields[0].Name)
	assert.Equal(t, "Button_16", in.Fields[15].Name)

	hat := in.Fields[16]
	assert.Equal(t, "Hat_Switch", hat.Name)
	assert.Equal(t, 16, hat.BitOffset)
	assert.Equal(t, 4, hat.BitWidth)
	assert.Equal(t, int32(7), hat.LogicalMax)
	assert.Equal(t, int32(315), hat.PhysicalMax)

	assert.True(t, in.Fields[17].Const)
	assert.Equal(t, 20, in.Fields[17].BitOffset)

	x := in.Fields[18]
	assert.Equal(t, "X", x.Name)
	assert.Equal(t, 24, x.BitOffset)
	assert.Equal(t, 14, x.BitWidth)
	assert.False(t, x.Signed)
	assert.Equal(t, int32(16383), x.LogicalMax)

	y := in.Fields[20]
	assert.Equal(t, "Y", y.Name)
	assert.Equal(t, 40, y.BitOffset)
	assert.Equal(t, 14, y.BitWidth)

	rz := in.Fields[22]
	assert.Equal(t, "Rz", rz.Name)
	assert.Equal(t, 56, rz.BitOffset)
	assert.Equal(t, 8, rz.BitWidth)
	assert.Equal(t, int32(255), rz.LogicalMax)

	slider := in.Fields[23]
	assert.Equal(t, "Slider", slider.Name)
	assert.Equal(t, 64, slider.BitOffset)

	feat := res.Layout.Section(0, analyze.Feature)
	require.NotNil(t, feat)
	assert.Equal(t, 4, feat.SizeBytes)
	require.Len(t, feat.Fields, 4)
	for i, f := range feat.Fields {
		assert.Equal(t, uint16(0xFF00), f.UsagePage)
		assert.Equal(t, i*8, f.BitOffset)
		assert.Equal(t, 8, f.BitWidth)
	}
	assert.Equal(t, "Usage 0x01", feat.Fields[0].Name)
	assert.Equal(t, "Usage 0x04", feat.Fields[3].Name)
}

func TestPushPopRestoresGlobals(t *testing.T) {
	// Signed extents, push, narrow unsigned fields, pop back.
	data := mustHex(t, "05011581257f"+"a4"+"150025017501950209300931"+"8102"+"b4"+"75089501"+"0932"+"8102")
	res, err := analyze.Analyze(data)
	require.NoError(t, err)

	sec := res.Layout.Section(0, analyze.Input)
	require.NotNil(t, sec)
	require.Len(t, sec.Fields, 3)
	assert.Equal(t, "X", sec.Fields[0].Name)
	assert.False(t, sec.Fields[0].Signed)

	z := sec.Fields[2]
	assert.Equal(t, "Z", z.Name)
	assert.Equal(t, 2, z.BitOffset)
	assert.Equal(t, 8, z.BitWidth)
	assert.True(t, z.Signed)
	assert.Equal(t, int32(-127), z.LogicalMin)
	assert.Equal(t, int32(127), z.LogicalMax)
}

func TestPopUnderflow(t *testing.T) {
	_, err := analyze.Analyze([]byte{0xB4})
	assert.ErrorIs(t, err, analyze.ErrStackUnderflow)
}

func TestUnbalancedCollections(t *testing.T) {
	_, err := analyze.Analyze(mustHex(t, "05010902a100"))
	assert.ErrorIs(t, err, analyze.ErrUnbalancedCollection)

	_, err = analyze.Analyze([]byte{0xC0})
	assert.ErrorIs(t, err, analyze.ErrUnbalancedCollection)
}

func TestMalformedOffsetSurfaces(t *testing.T) {
	_, err := analyze.Analyze(mustHex(t, "15002701"+"02"))
	require.ErrorIs(t, err, hid.ErrMalformed)
	var perr *hid.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Offset)
}

func TestArrayMainItem(t *testing.T) {
	// Keyboard-style array: six 8-bit slots selecting from usages 0..0x65.
	data := mustHex(t, "0507150025657508950619002965"+"8100")
	res, err := analyze.Analyze(data)
	require.NoError(t, err)

	sec := res.Layout.Section(0, analyze.Input)
	require.NotNil(t, sec)
	require.Len(t, sec.Fields, 6)
	for i, f := range sec.Fields {
		assert.True(t, f.Array, "field %d", i)
		assert.Len(t, f.Usages, 0x66, "field %d", i)
		assert.Equal(t, i*8, f.BitOffset)
	}
	// Local queue is spent after the Main item: nothing leaks into a
	// following section.
	out := res.Layout.Section(0, analyze.Output)
	require.NotNil(t, out)
	assert.Empty(t, out.Fields)
	assert.Equal(t, 0, out.SizeBytes)
}

func TestDuplicateNamesDisambiguated(t *testing.T) {
	data := mustHex(t, "05010930093015002501"+"75019502"+"8102")
	res, err := analyze.Analyze(data)
	require.NoError(t, err)
	sec := res.Layout.Section(0, analyze.Input)
	require.Len(t, sec.Fields, 2)
	assert.Equal(t, "X", sec.Fields[0].Name)
	assert.Equal(t, "X_2", sec.Fields[1].Name)
}

func TestVariableRepeatsLastUsage(t *testing.T) {
	// One usage, two variable fields: the second repeats it and gets the
	// disambiguation suffix.
	data := mustHex(t, "0501093015002501"+"75019502"+"8102")
	res, err := analyze.Analyze(data)
	require.NoError(t, err)
	sec := res.Layout.Section(0, analyze.Input)
	require.Len(t, sec.Fields, 2)
	assert.Equal(t, "X", sec.Fields[0].Name)
	assert.Equal(t, "X_2", sec.Fields[1].Name)
	assert.Equal(t, hid.UsageX, sec.Fields[1].UsageID)
}

func TestTreeView(t *testing.T) {
	res, err := analyze.Analyze(mouseDescriptor(t))
	require.NoError(t, err)

	require.Len(t, res.Tree.Children, 3)
	col := res.Tree.Children[2]
	require.NotNil(t, col.Item)
	assert.Equal(t, hid.TagCollection, col.Item.Tag)
	assert.NotEmpty(t, col.Children)
	for _, child := range col.Children {
		assert.NotEqual(t, hid.TagEndCollection, child.Item.Tag)
	}
}

func TestLayoutJSONFieldNames(t *testing.T) {
	res, err := analyze.Analyze(mouseDescriptor(t))
	require.NoError(t, err)

	data, err := json.Marshal(res.Layout)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	reports := doc["reports"].(map[string]any)
	input := reports["0"].(map[string]any)["input"].(map[string]any)
	fields := input["fields"].([]any)
	first := fields[0].(map[string]any)
	for _, key := range []string{
		"name", "bit_offset", "bit_width", "byte_offset", "mask",
		"usage_page", "usage_id", "logical_min", "logical_max",
		"physical_min", "physical_max", "signed", "report_type", "report_id",
	} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "input", first["report_type"])

	views := analyze.ItemViews(res.Items)
	require.NotEmpty(t, views)
	assert.Equal(t, "Usage Page", views[0].TagName)
	assert.Equal(t, int64(1), views[0].Data)
}
