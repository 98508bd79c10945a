// Package compile lowers a schema tree to a HID report descriptor. The
// emitter keeps a tracker of the global item state a parser would hold while
// reading the output, and only emits globals that change it, which is what
// produces the canonical compact descriptors.
package compile

import (
	"fmt"

	"github.com/Alia5/hidforge/schema"
	"github.com/Alia5/hidforge/usb/hid"
)

// ReportIDStrategy selects how report IDs end up in the descriptor.
type ReportIDStrategy int

const (
	// ReportIDExplicit emits only the IDs declared on schema nodes.
	ReportIDExplicit ReportIDStrategy = iota
	// ReportIDAuto additionally assigns sequential IDs to the root's child
	// collections when there are at least two of them and none declares one.
	ReportIDAuto
)

// Options configures a compilation.
type Options struct {
	// AutoPad appends a constant input field to every input report whose bit
	// total is not byte-aligned.
	AutoPad bool
	// PadAll extends AutoPad to output and feature reports.
	PadAll bool
	// ReportIDs selects the ID assignment strategy.
	ReportIDs ReportIDStrategy
}

// Compile lowers the tree and serializes the item stream to descriptor bytes.
func Compile(root *schema.Collection, opts Options) ([]byte, error) {
	items, err := Items(root, opts)
	if err != nil {
		return nil, err
	}
	return hid.Serialize(items), nil
}

type sectionKey struct {
	id  uint8
	tag hid.Tag
}

type compiler struct {
	opts    Options
	track   tracker
	items   []hid.Item
	bits    map[sectionKey]int
	order   []sectionKey
	autoIDs map[*schema.Collection]uint8
	pending uint8
	usesIDs bool
}

// Items lowers the tree to the flat item stream without serializing it.
func Items(root *schema.Collection, opts Options) ([]hid.Item, error) {
	c := &compiler{
		opts: opts,
		bits: map[sectionKey]int{},
	}
	if opts.ReportIDs == ReportIDAuto {
		c.autoIDs = planAutoIDs(root)
	}
	if err := c.collection(root, true); err != nil {
		return nil, err
	}
	return c.items, nil
}

// planAutoIDs assigns sequential report IDs to the root's child collections,
// in traversal order, when at least two of them carry main items and no node
// anywhere declares an explicit ID.
func planAutoIDs(root *schema.Collection) map[*schema.Collection]uint8 {
	if declaresID(root) {
		return nil
	}
	var targets []*schema.Collection
	for _, child := range root.Children {
		if col, ok := child.(*schema.Collection); ok && hasWidgets(col) {
			targets = append(targets, col)
		}
	}
	if len(targets) < 2 {
		return nil
	}
	ids := make(map[*schema.Collection]uint8, len(targets))
	for i, col := range targets {
		ids[col] = uint8(i + 1)
	}
	return ids
}

func declaresID(col *schema.Collection) bool {
	if col.ReportID != 0 {
		return true
	}
	for _, child := range col.Children {
		if sub, ok := child.(*schema.Collection); ok && declaresID(sub) {
			return true
		}
	}
	return false
}

func hasWidgets(col *schema.Collection) bool {
	for _, child := range col.Children {
		switch n := child.(type) {
		case *schema.Collection:
			if hasWidgets(n) {
				return true
			}
		case schema.Widget:
			return true
		}
	}
	return false
}

func (c *compiler) collection(col *schema.Collection, atRoot bool) error {
	if col.UsagePage == 0 || col.Usage == 0 {
		return fmt.Errorf("%w: collection without usage page/usage", schema.ErrInvalidSchema)
	}
	saved := c.pending
	if col.ReportID != 0 {
		c.pending = col.ReportID
	} else if id, ok := c.autoIDs[col]; ok {
		c.pending = id
	}

	c.track.apply(schema.Desired{UsagePage: &col.UsagePage}, &c.items)
	c.items = append(c.items,
		hid.Item{Tag: hid.TagUsage, Value: int64(col.Usage)},
		hid.Item{Tag: hid.TagCollection, Value: int64(col.Kind)},
	)

	for _, child := range col.Children {
		switch n := child.(type) {
		case *schema.Collection:
			if err := c.collection(n, false); err != nil {
				return err
			}
		case schema.Widget:
			if err := c.widget(n); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported node %T", schema.ErrInvalidSchema, child)
		}
	}

	if atRoot && c.opts.AutoPad {
		c.pad()
	}
	c.items = append(c.items, hid.Item{Tag: hid.TagEndCollection})
	c.pending = saved
	return nil
}

func (c *compiler) widget(w schema.Widget) error {
	ctx := &schema.Context{
		UsagePage:  c.track.cur.usagePage,
		ReportID:   c.track.cur.reportID,
		LogicalMin: c.track.cur.logicalMin,
		LogicalMax: c.track.cur.logicalMax,
	}
	emits, err := w.Lower(ctx)
	if err != nil {
		return err
	}
	for _, e := range emits {
		d := e.State
		if d.ReportID == nil && c.pending != 0 {
			id := c.pending
			d.ReportID = &id
		}
		if d.ReportID != nil {
			c.usesIDs = true
		}
		c.track.apply(d, &c.items)
		c.items = append(c.items, e.Locals...)
		c.items = append(c.items, e.Main)
		c.account(e.Main.Tag)
	}
	return nil
}

// account advances the bit total of the section the Main item lands in.
func (c *compiler) account(tag hid.Tag) {
	switch tag {
	case hid.TagInput, hid.TagOutput, hid.TagFeature:
	default:
		return
	}
	key := sectionKey{id: c.track.cur.reportID, tag: tag}
	if _, seen := c.bits[key]; !seen {
		c.order = append(c.order, key)
	}
	c.bits[key] += int(c.track.cur.reportSize) * int(c.track.cur.reportCount)
}

// pad appends a constant field to each misaligned section, in first-seen
// order. Output and feature sections are only padded with PadAll.
func (c *compiler) pad() {
	for _, key := range c.order {
		if key.tag != hid.TagInput && !c.opts.PadAll {
			continue
		}
		rem := c.bits[key] % 8
		if rem == 0 {
			continue
		}
		width := uint32(8 - rem)
		one := uint32(1)
		d := schema.Desired{ReportSize: &width, ReportCount: &one}
		if c.usesIDs {
			id := key.id
			d.ReportID = &id
		}
		c.track.apply(d, &c.items)
		c.items = append(c.items, hid.Item{Tag: key.tag, Value: int64(hid.MainConst | hid.MainVar)})
		c.bits[key] += int(width)
	}
}
