// Package analyze executes the HID parser state machine over a report
// descriptor and produces its per-report field layout alongside flat and
// tree-structured item views.
package analyze

import "github.com/Alia5/hidforge/usb/hid"

// Result bundles the consumable views of one descriptor. All of it is
// produced by a single pass and read-only afterwards.
type Result struct {
	Items  []hid.Item
	Tree   *TreeNode
	Layout *Layout
}

// Analyze parses the descriptor bytes and interprets them into a layout.
// Errors carry the byte offset (parse phase) or item index (interpret
// phase) of the failure.
func Analyze(data []byte) (*Result, error) {
	items, err := hid.Parse(data)
	if err != nil {
		return nil, err
	}
	tree, err := buildTree(items)
	if err != nil {
		return nil, err
	}
	layout, err := buildLayout(items)
	if err != nil {
		return nil, err
	}
	return &Result{Items: items, Tree: tree, Layout: layout}, nil
}

// ItemView is the flat JSON rendering of one item for external tooling.
type ItemView struct {
	TagCode byte   `json:"tag_code"`
	TagName string `json:"tag_name"`
	Data    int64  `json:"data"`
}

// ItemViews renders the flat item list for JSON output.
func ItemViews(items []hid.Item) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = ItemView{
			TagCode: byte(it.Tag),
			TagName: it.Tag.String(),
			Data:    it.Data(),
		}
	}
	return out
}
