// Package richtext walks rich-text documents: it extracts the entity links
// a document points at and renders its plain text.
package richtext

import (
	"strings"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

// CollectReferences returns the links found in node and its descendants in
// pre-order: a node's own link precedes the links of its children.
func CollectReferences(node *types.RichNode) []types.Reference {
	refs := []types.Reference{}
	walk(node, func(n *types.RichNode) {
		if ref, ok := linkOf(n); ok {
			refs = append(refs, ref)
		}
	})
	return refs
}

// AddReferences returns a shallow copy of doc whose References field lists
// every link in the document. Only the returned root carries References;
// doc itself is left untouched. A nil doc yields nil.
func AddReferences(doc *types.RichNode) *types.RichNode {
	if doc == nil {
		return nil
	}
	out := *doc
	out.References = CollectReferences(doc)
	return &out
}

// PlainText concatenates the values of all leaves in document order.
// Marks are dropped.
func PlainText(node *types.RichNode) string {
	var b strings.Builder
	walk(node, func(n *types.RichNode) {
		if !n.IsBranch() {
			b.WriteString(n.Value)
		}
	})
	return b.String()
}

func linkOf(n *types.RichNode) (types.Reference, bool) {
	target := n.Data.Target
	if target == nil || target.Sys.Type != types.LinkTypeLink {
		return types.Reference{}, false
	}
	return types.Reference{
		ContentfulID: target.Sys.ID,
		Type:         target.Sys.LinkType,
	}, true
}

// walk visits node and its descendants in pre-order. Nil nodes are skipped.
func walk(node *types.RichNode, visit func(*types.RichNode)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Content {
		walk(child, visit)
	}
}
