package types

import "encoding/json"

// LinkTypeLink is the sys.type carried by every entity link.
const LinkTypeLink = "Link"

// Link target kinds.
const (
	LinkTargetAsset = "Asset"
	LinkTargetEntry = "Entry"
)

// LinkSys identifies the linked entity.
type LinkSys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
}

// Link is a reference to an asset or entry, as produced by the media and
// reference editors and embedded in rich-text nodes.
type Link struct {
	Sys LinkSys `json:"sys"`
}

// NewAssetLink returns a link to the asset with the given id.
func NewAssetLink(id string) Link {
	return Link{Sys: LinkSys{ID: id, Type: LinkTypeLink, LinkType: LinkTargetAsset}}
}

// NewEntryLink returns a link to the entry with the given id.
func NewEntryLink(id string) Link {
	return Link{Sys: LinkSys{ID: id, Type: LinkTypeLink, LinkType: LinkTargetEntry}}
}

// Reference is an outbound link extracted from a rich-text document.
type Reference struct {
	ContentfulID string `json:"contentful_id"`
	Type         string `json:"type"`
}

// Mark is a text decoration on a rich-text leaf (bold, italic, ...).
type Mark struct {
	Type string `json:"type"`
}

// NodeData is the data slot of a rich-text node. It is empty for most
// nodes; embedded entries and assets carry a Target, hyperlinks a URI.
type NodeData struct {
	Target *Link  `json:"target,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// RichNode is one node of a rich-text document tree. A node with a non-nil
// Content slice is a branch; any other node is a leaf carrying Value.
// References is only populated on the node reference extraction ran on.
type RichNode struct {
	NodeType   string
	Data       NodeData
	Content    []*RichNode
	Value      string
	Marks      []Mark
	References []Reference
}

// IsBranch reports whether the node has a content slot.
func (n *RichNode) IsBranch() bool {
	return n.Content != nil
}

type richNodeJSON struct {
	NodeType   string       `json:"nodeType"`
	Data       NodeData     `json:"data"`
	Content    *[]*RichNode `json:"content,omitempty"`
	Value      *string      `json:"value,omitempty"`
	Marks      *[]Mark      `json:"marks,omitempty"`
	References *[]Reference `json:"references,omitempty"`
}

// MarshalJSON writes content for branches, even when empty, and value for
// leaves, even when it is the empty string. Marks and references are
// written whenever they are non-nil, so an empty list survives a round trip.
func (n RichNode) MarshalJSON() ([]byte, error) {
	w := richNodeJSON{
		NodeType: n.NodeType,
		Data:     n.Data,
	}
	if n.Marks != nil {
		w.Marks = &n.Marks
	}
	if n.References != nil {
		w.References = &n.References
	}
	if n.Content != nil {
		w.Content = &n.Content
	} else {
		w.Value = &n.Value
	}
	return json.Marshal(w)
}

func (n *RichNode) UnmarshalJSON(data []byte) error {
	var w richNodeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = RichNode{
		NodeType: w.NodeType,
		Data:     w.Data,
	}
	if w.Marks != nil {
		n.Marks = *w.Marks
		if n.Marks == nil {
			n.Marks = []Mark{}
		}
	}
	if w.References != nil {
		n.References = *w.References
		if n.References == nil {
			n.References = []Reference{}
		}
	}
	if w.Content != nil {
		n.Content = *w.Content
		if n.Content == nil {
			n.Content = []*RichNode{}
		}
	}
	if w.Value != nil {
		n.Value = *w.Value
	}
	return nil
}
