package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

const paragraphWithLinks = `{
  "nodeType": "paragraph",
  "content": [
    {"nodeType": "text", "value": "Inline Link: ", "marks": [{"type": "bold"}], "data": {}},
    {
      "nodeType": "embedded-entry-inline",
      "content": [],
      "data": {"target": {"sys": {"id": "456", "type": "Link", "linkType": "Entry"}}}
    },
    {"nodeType": "text", "value": "", "data": {}}
  ],
  "data": {"target": {"sys": {"id": "123", "type": "Link", "linkType": "Asset"}}}
}`

func decodeDoc(t *testing.T, raw string) *types.RichNode {
	t.Helper()
	var doc types.RichNode
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestAddReferences(t *testing.T) {
	doc := decodeDoc(t, paragraphWithLinks)

	got := AddReferences(doc)
	require.NotNil(t, got)
	assert.Equal(t, []types.Reference{
		{ContentfulID: "123", Type: "Asset"},
		{ContentfulID: "456", Type: "Entry"},
	}, got.References)

	assert.Nil(t, doc.References, "input must not be mutated")
	assert.Equal(t, doc.Content, got.Content)
	for _, child := range got.Content {
		assert.Nil(t, child.References, "only the root carries references")
	}
}

func TestAddReferencesNil(t *testing.T) {
	assert.Nil(t, AddReferences(nil))
}

func TestCollectReferencesOrder(t *testing.T) {
	doc := &types.RichNode{
		NodeType: "document",
		Content: []*types.RichNode{
			{
				NodeType: "paragraph",
				Content: []*types.RichNode{
					{NodeType: "text", Value: "a"},
					{
						NodeType: "embedded-entry-inline",
						Data:     types.NodeData{Target: ptr(types.NewEntryLink("e1"))},
						Content:  []*types.RichNode{},
					},
				},
			},
			{
				NodeType: "embedded-asset-block",
				Data:     types.NodeData{Target: ptr(types.NewAssetLink("a1"))},
				Content: []*types.RichNode{
					{
						NodeType: "embedded-entry-inline",
						Data:     types.NodeData{Target: ptr(types.NewEntryLink("e2"))},
						Content:  []*types.RichNode{},
					},
				},
			},
			{
				NodeType: "hyperlink",
				Data:     types.NodeData{URI: "https://example.com"},
				Content:  []*types.RichNode{{NodeType: "text", Value: "site"}},
			},
		},
	}

	assert.Equal(t, []types.Reference{
		{ContentfulID: "e1", Type: "Entry"},
		{ContentfulID: "a1", Type: "Asset"},
		{ContentfulID: "e2", Type: "Entry"},
	}, CollectReferences(doc))
}

func TestCollectReferencesIgnoresNonLinks(t *testing.T) {
	node := &types.RichNode{
		NodeType: "embedded-entry-block",
		Data: types.NodeData{Target: &types.Link{Sys: types.LinkSys{
			ID: "x", Type: "Entry", LinkType: "Entry",
		}}},
		Content: []*types.RichNode{},
	}
	assert.Empty(t, CollectReferences(node))
	assert.Empty(t, CollectReferences(&types.RichNode{NodeType: "text", Value: "plain"}))
}

func TestPlainText(t *testing.T) {
	doc := decodeDoc(t, paragraphWithLinks)
	assert.Equal(t, "Inline Link: ", PlainText(doc))
	assert.Equal(t, "", PlainText(nil))

	nested := &types.RichNode{
		NodeType: "document",
		Content: []*types.RichNode{
			{NodeType: "heading-1", Content: []*types.RichNode{{NodeType: "text", Value: "Hello "}}},
			{NodeType: "paragraph", Content: []*types.RichNode{
				{NodeType: "text", Value: "world", Marks: []types.Mark{{Type: "italic"}}},
			}},
		},
	}
	assert.Equal(t, "Hello world", PlainText(nested))
}

func TestRichNodeJSONShape(t *testing.T) {
	doc := AddReferences(decodeDoc(t, paragraphWithLinks))

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "references")
	assert.NotContains(t, generic, "value")

	content := generic["content"].([]any)
	inline := content[1].(map[string]any)
	assert.Equal(t, []any{}, inline["content"], "empty branch keeps its content slot")

	empty := content[2].(map[string]any)
	assert.Equal(t, "", empty["value"], "empty leaf keeps its value slot")
	assert.Equal(t, map[string]any{}, empty["data"])
}

func ptr[T any](v T) *T { return &v }
