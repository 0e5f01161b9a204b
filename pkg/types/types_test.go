package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypes(t *testing.T) {
	assert.Equal(t, []FieldType{
		FieldTypeText, FieldTypeMediaSingle, FieldTypeMediaMultiple, FieldTypeRichText,
		FieldTypeBoolean, FieldTypeReferenceSingle, FieldTypeReferenceMultiple,
	}, FieldTypes())
	assert.True(t, IsValidFieldType("referenceMultiple"))
	assert.False(t, IsValidFieldType("Text"))
	assert.False(t, IsValidFieldType(""))
}

func TestStoredBlockJSONKeepsFieldOrder(t *testing.T) {
	in := `{"id":"b1","blockFields":{` +
		`"zeta":{"label":"Zeta","type":"text","isRequired":true,"data":"z"},` +
		`"alpha":{"label":"Alpha","type":"boolean","isRequired":false,"data":false},` +
		`"mid":{"label":"Mid","type":"text","isRequired":false,"options":["A","B"],"data":null}}}`

	var sb StoredBlock
	require.NoError(t, json.Unmarshal([]byte(in), &sb))
	assert.Equal(t, "b1", sb.ID)
	require.Len(t, sb.Fields, 3)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, []string{sb.Fields[0].Name, sb.Fields[1].Name, sb.Fields[2].Name})

	mid, ok := sb.Field("mid")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, mid.Options)
	_, ok = sb.Field("missing")
	assert.False(t, ok)

	out, err := json.Marshal(sb)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.Equal(t, in, string(out))
}

func TestStoredBlockMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing id", input: `{"blockFields":{}}`},
		{name: "missing fields", input: `{"id":"b1"}`},
		{name: "fields not an object", input: `{"id":"b1","blockFields":[]}`},
		{name: "not an object", input: `[]`},
		{name: "bad field", input: `{"id":"b1","blockFields":{"x":{"label":1}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb StoredBlock
			assert.ErrorIs(t, json.Unmarshal([]byte(tt.input), &sb), ErrMalformedBlock)
		})
	}
}

func TestStoredBlockIgnoresUnknownKeys(t *testing.T) {
	var sb StoredBlock
	require.NoError(t, json.Unmarshal([]byte(`{"version":2,"id":"b1","blockFields":{}}`), &sb))
	assert.Equal(t, "b1", sb.ID)
	assert.Empty(t, sb.Fields)
}

func TestDecodeValue(t *testing.T) {
	asset := NewAssetLink("a1")
	entry := NewEntryLink("e1")
	tests := []struct {
		name    string
		typ     FieldType
		raw     string
		want    Value
		wantErr error
	}{
		{name: "null", typ: FieldTypeText, raw: "null", want: nil},
		{name: "absent", typ: FieldTypeMediaSingle, raw: "", want: nil},
		{name: "text", typ: FieldTypeText, raw: `"hi"`, want: TextValue("hi")},
		{name: "empty text", typ: FieldTypeText, raw: `""`, want: TextValue("")},
		{name: "boolean false", typ: FieldTypeBoolean, raw: `false`, want: BooleanValue(false)},
		{name: "boolean string", typ: FieldTypeBoolean, raw: `"true"`, want: BooleanValue(true)},
		{name: "media", typ: FieldTypeMediaSingle, raw: `{"sys":{"id":"a1","type":"Link","linkType":"Asset"}}`, want: MediaValue(asset)},
		{name: "media list", typ: FieldTypeMediaMultiple, raw: `[{"sys":{"id":"a1","type":"Link","linkType":"Asset"}}]`, want: MediaListValue{asset}},
		{name: "reference", typ: FieldTypeReferenceSingle, raw: `{"sys":{"id":"e1","type":"Link","linkType":"Entry"}}`, want: ReferenceValue(entry)},
		{name: "reference list", typ: FieldTypeReferenceMultiple, raw: `[]`, want: ReferenceListValue{}},
		{name: "text given number", typ: FieldTypeText, raw: `5`, wantErr: ErrValueMismatch},
		{name: "boolean given word", typ: FieldTypeBoolean, raw: `"yes"`, wantErr: ErrValueMismatch},
		{name: "unknown type", typ: "video", raw: `{}`, wantErr: ErrInvalidFieldType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue(tt.typ, json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeValue(t *testing.T) {
	raw, err := EncodeValue(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	raw, err = EncodeValue(BooleanValue(false))
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))

	raw, err = EncodeValue(MediaValue(NewAssetLink("a1")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sys":{"id":"a1","type":"Link","linkType":"Asset"}}`, string(raw))
}

func TestCheckValueAndEmptiness(t *testing.T) {
	assert.NoError(t, CheckValue(FieldTypeText, nil))
	assert.NoError(t, CheckValue(FieldTypeText, TextValue("x")))
	assert.ErrorIs(t, CheckValue(FieldTypeText, BooleanValue(true)), ErrValueMismatch)

	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(TextValue("")))
	assert.False(t, IsEmptyValue(TextValue(" ")))
	assert.False(t, IsEmptyValue(BooleanValue(false)))
	assert.False(t, IsEmptyValue(MediaListValue{}))
}

func TestRichNodeJSON(t *testing.T) {
	in := `{"nodeType":"document","data":{},"content":[` +
		`{"nodeType":"paragraph","data":{},"content":[]},` +
		`{"nodeType":"text","data":{},"value":"","marks":[{"type":"bold"}]},` +
		`{"nodeType":"entry-hyperlink","data":{"target":{"sys":{"id":"e1","type":"Link","linkType":"Entry"}}},"content":[{"nodeType":"text","data":{},"value":"see"}]}]}`

	var doc RichNode
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	require.True(t, doc.IsBranch())
	require.Len(t, doc.Content, 3)
	assert.True(t, doc.Content[0].IsBranch(), "empty content is still a branch")
	assert.False(t, doc.Content[1].IsBranch())
	assert.Equal(t, "e1", doc.Content[2].Data.Target.Sys.ID)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestFieldJSON(t *testing.T) {
	f := Field{
		FieldDefinition: FieldDefinition{Label: "Visible", Name: "visible", Type: FieldTypeBoolean},
		Value:           BooleanValue(false),
	}
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Visible","name":"visible","type":"boolean","isRequired":false,"value":false}`, string(out))

	var back Field
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, f, back)
}

func TestBlockClone(t *testing.T) {
	b := Block{ID: "b1", Fields: []Field{{FieldDefinition: FieldDefinition{Name: "title", Type: FieldTypeText}}}}
	c := b.Clone()
	c.Fields[0].Value = TextValue("changed")
	assert.Nil(t, b.Fields[0].Value)
	assert.Equal(t, 0, b.FieldIndex("title"))
	assert.Equal(t, -1, b.FieldIndex("other"))
}

func TestParserErrors(t *testing.T) {
	var err error = &DefinitionError{Fragment: "Title"}
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Equal(t, "invalid block field definition: Title", err.Error())

	err = &FieldTypeError{Fragment: "T:video", Received: "video", Expected: []FieldType{FieldTypeText, FieldTypeBoolean}}
	assert.ErrorIs(t, err, ErrInvalidFieldType)
	assert.Contains(t, err.Error(), "'text' | 'boolean'")
	assert.Contains(t, err.Error(), "received 'video'")
}

func TestRichNodeJSONKeepsEmptyLists(t *testing.T) {
	in := `{"nodeType":"document","data":{},"content":[{"nodeType":"text","data":{},"value":"Hi","marks":[]}],"references":[]}`

	var doc RichNode
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	assert.Equal(t, []Reference{}, doc.References)
	assert.Equal(t, []Mark{}, doc.Content[0].Marks)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	out, err = json.Marshal(RichNode{NodeType: "text"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodeType":"text","data":{},"value":""}`, string(out))
}

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, NormalizeValue(RichTextValue{}))
	assert.Nil(t, NormalizeValue(MediaListValue(nil)))
	assert.Nil(t, NormalizeValue(ReferenceListValue(nil)))
	assert.Equal(t, MediaListValue{}, NormalizeValue(MediaListValue{}))
	assert.Equal(t, TextValue(""), NormalizeValue(TextValue("")))
	assert.True(t, IsEmptyValue(RichTextValue{}))
}
