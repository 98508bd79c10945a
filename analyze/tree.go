package analyze

import (
	"errors"
	"fmt"

	"github.com/Alia5/hidforge/usb/hid"
)

var (
	// ErrUnbalancedCollection reports an End Collection without a matching
	// Collection, or collections left open at the end of the stream.
	ErrUnbalancedCollection = errors.New("unbalanced collection")
	// ErrStackUnderflow reports a Pop with no preceding Push.
	ErrStackUnderflow = errors.New("state stack underflow")
)

// TreeNode is the structural view of a descriptor: items grouped by their
// enclosing Collection/End Collection pairs. The root node has a nil Item.
type TreeNode struct {
	Item     *hid.Item   `json:"item,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

func buildTree(items []hid.Item) (*TreeNode, error) {
	root := &TreeNode{}
	stack := []*TreeNode{root}
	for i := range items {
		it := &items[i]
		top := stack[len(stack)-1]
		switch it.Tag {
		case hid.TagCollection:
			n := &TreeNode{Item: it}
			top.Children = append(top.Children, n)
			stack = append(stack, n)
		case hid.TagEndCollection:
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: end collection at item %d", ErrUnbalancedCollection, i)
			}
			stack = stack[:len(stack)-1]
		default:
			top.Children = append(top.Children, &TreeNode{Item: it})
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: %d collections left open", ErrUnbalancedCollection, len(stack)-1)
	}
	return root, nil
}
