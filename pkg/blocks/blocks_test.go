package blocks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

// TestEditingSession walks the full load, edit, validate, save cycle.
func TestEditingSession(t *testing.T) {
	defs, err := ParseDefinitions("Title:text!,Featured Image:mediaSingle,Body:richText")
	require.NoError(t, err)

	c, err := NewCodec("")
	require.NoError(t, err)

	current, err := c.FromStorage(nil)
	require.NoError(t, err)

	current, id := AddBlock(current, defs)
	assert.Equal(t, "Block 1", BlockTitle(current[0], 0))

	_, invalid, err := Commit(c, current)
	require.NoError(t, err)
	assert.True(t, invalid)
	require.Len(t, Violations(current), 1)
	assert.Equal(t, "title", Violations(current)[0].Field)

	current, _, err = SetField(current, id, "title", types.TextValue("Launch"))
	require.NoError(t, err)
	current, _, err = SetField(current, id, "featuredImage", types.MediaValue(types.NewAssetLink("img-1")))
	require.NoError(t, err)

	var doc types.RichNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"nodeType": "document", "data": {},
		"content": [{"nodeType": "embedded-asset-block", "content": [],
			"data": {"target": {"sys": {"id": "img-2", "type": "Link", "linkType": "Asset"}}}}]
	}`), &doc))
	current, _, err = SetField(current, id, "body", types.RichTextValue{Doc: &doc})
	require.NoError(t, err)

	assert.False(t, FormInvalid(current))
	assert.Equal(t, "Launch", BlockTitle(current[0], 0))
	thumb, ok := BlockThumbnail(current[0])
	require.True(t, ok)
	assert.Equal(t, "img-1", thumb)

	stored, invalid, err := Commit(c, current)
	require.NoError(t, err)
	require.False(t, invalid)

	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"references":[{"contentful_id":"img-2","type":"Asset"}]`))

	var wire []types.StoredBlock
	require.NoError(t, json.Unmarshal(raw, &wire))
	reloaded, err := c.FromStorage(wire)
	require.NoError(t, err)
	assert.Equal(t, current, reloaded)
}

func TestDefinitionChunksFacade(t *testing.T) {
	defs, err := ParseDefinitions("Title:text!,Featured Image:mediaSingle")
	require.NoError(t, err)

	chunks := EncodeDefinitions(defs)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Title:text!,Featured Image:mediaSingle", chunks[0])

	again, err := ParseDefinitionChunks(chunks)
	require.NoError(t, err)
	assert.Equal(t, defs, again)
	assert.Equal(t, "featuredImage", FieldName("Featured Image"))
}

func TestFragmentAndClear(t *testing.T) {
	defs, err := ParseDefinitions("Layout:text-Left-Right!")
	require.NoError(t, err)
	assert.Equal(t, "Layout:text-Left-Right!", EncodeFragment(defs[0]))

	current, _ := AddBlock(nil, defs)
	require.Len(t, current, 1)
	cleared := ClearBlocks()
	assert.NotNil(t, cleared)
	assert.Empty(t, cleared)
	assert.Len(t, current, 1)
}
