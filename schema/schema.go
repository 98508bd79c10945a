// Package schema defines the declarative device tree that compiles down to a
// HID report descriptor: nested collections with widget leaves. The tree is
// built once by the caller and is not mutated during compilation.
package schema

import (
	"errors"

	"github.com/Alia5/hidforge/usb/hid"
)

// ErrInvalidSchema reports a tree that cannot lower to a well-formed
// descriptor: a collection without a usage pair, a widget with a
// non-positive count or width, or inverted logical extents.
var ErrInvalidSchema = errors.New("invalid schema")

// Node is anything that can appear inside a Collection: nested collections
// and widgets.
type Node interface {
	node()
}

// Collection groups child nodes under a usage pair and a collection kind.
// A non-zero ReportID assigns all main items lowered inside this subtree to
// that report until a nested collection overrides it.
type Collection struct {
	UsagePage uint16
	Usage     uint16
	Kind      hid.CollectionKind
	ReportID  uint8
	Children  []Node
}

func (*Collection) node() {}

// Desired is the global state a widget wants in effect for one of its Main
// items. Nil fields leave the compiler's current state untouched; the
// compiler diffs the rest against its tracker and emits only changes.
type Desired struct {
	UsagePage    *uint16
	LogicalMin   *int32
	LogicalMax   *int32
	PhysicalMin  *int32
	PhysicalMax  *int32
	UnitExponent *int32
	Unit         *uint32
	ReportSize   *uint32
	ReportID     *uint8
	ReportCount  *uint32
}

// Emit is one unit of widget output: the global state to establish, the
// local items to queue, and the Main item that consumes them.
type Emit struct {
	State  Desired
	Locals []hid.Item
	Main   hid.Item
}

// Context is the read-only view of the compiler's tracker state handed to
// widgets at lowering time. Widgets may branch on it but must express all
// effects through the returned Emit values.
type Context struct {
	UsagePage  uint16
	ReportID   uint8
	LogicalMin int32
	LogicalMax int32
}

// Widget lowers to a sequence of item emissions. Implementations outside
// this package extend the widget set; the built-in catalog lives alongside.
type Widget interface {
	Node
	Lower(ctx *Context) ([]Emit, error)
}

func u16(v uint16) *uint16 { return &v }
func u32(v uint32) *uint32 { return &v }
func i32(v int32) *int32   { return &v }
