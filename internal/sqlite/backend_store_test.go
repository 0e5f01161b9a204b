package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blocks/internal/definition"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

func attach(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func mustParse(t *testing.T, input string) []types.FieldDefinition {
	t.Helper()
	defs, err := definition.Parse(input)
	require.NoError(t, err)
	return defs
}

func storedBlock(id, title string) types.StoredBlock {
	return types.StoredBlock{
		ID: id,
		Fields: []types.NamedStoredField{
			{Name: "title", StoredField: types.StoredField{
				Label: "Title", Type: types.FieldTypeText, IsRequired: true,
				Data: json.RawMessage(`"` + title + `"`),
			}},
			{Name: "featuredImage", StoredField: types.StoredField{
				Label: "Featured Image", Type: types.FieldTypeMediaSingle,
				Data: json.RawMessage(`null`),
			}},
		},
	}
}

func TestAttachLifecycle(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()

	_, err := b.Collections()
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}), types.ErrAlreadyAttached)

	for _, name := range jsonlFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Zero(t, info.Size(), name)
	}

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")
	assert.ErrorIs(t, b.SaveDefinitions("c", mustParse(t, "A:text")), types.ErrStoreDetached)
}

func TestAttachRejectsBadConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite, StorageMode: "xml"}), types.ErrStorageModeUnknown)
}

func TestDefinitionsRoundTrip(t *testing.T) {
	b := attach(t, t.TempDir())
	defs := mustParse(t, "Title:text!,Featured Image:mediaSingle,Network:text-Twitter-Instagram-Pet Finder")

	require.NoError(t, b.SaveDefinitions("hero", defs))
	got, err := b.LoadDefinitions("hero")
	require.NoError(t, err)
	assert.Equal(t, defs, got)

	_, err = b.LoadDefinitions("missing")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)

	assert.ErrorIs(t, b.SaveDefinitions("", defs), types.ErrInvalidCollection)
	assert.ErrorIs(t, b.SaveDefinitions("empty", nil), types.ErrMissingDefinition)
}

func TestDefinitionsStoredInChunks(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir)

	var parts []string
	for i := 0; i < 30; i++ {
		parts = append(parts, "Long Field Label Number "+strings.Repeat("z", i%5)+":richText!")
	}
	defs := mustParse(t, strings.Join(parts, ","))
	require.NoError(t, b.SaveDefinitions("long", defs))

	records, err := readJSONL(filepath.Join(dir, definitionsJSONL))
	require.NoError(t, err)
	require.Greater(t, len(records), 1)

	var joined strings.Builder
	for i, rec := range records {
		var r definitionChunkJSON
		require.NoError(t, json.Unmarshal(rec, &r))
		assert.Equal(t, "long", r.Collection)
		assert.Equal(t, i, r.Seq)
		assert.LessOrEqual(t, len([]rune(r.Chunk)), definition.MaxChunkLength)
		joined.WriteString(r.Chunk)
	}
	assert.Equal(t, definition.EncodeString(defs), joined.String())

	got, err := b.LoadDefinitions("long")
	require.NoError(t, err)
	assert.Equal(t, defs, got)
}

func TestBlocksRoundTrip(t *testing.T) {
	b := attach(t, t.TempDir())
	require.NoError(t, b.SaveDefinitions("hero", mustParse(t, "Title:text!,Featured Image:mediaSingle")))

	empty, err := b.LoadBlocks("hero")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	blocks := []types.StoredBlock{storedBlock("b2", "Second"), storedBlock("b1", "First")}
	require.NoError(t, b.SaveBlocks("hero", blocks))

	got, err := b.LoadBlocks("hero")
	require.NoError(t, err)
	assert.Equal(t, blocks, got)

	require.NoError(t, b.SaveBlocks("hero", blocks[:1]))
	got, err = b.LoadBlocks("hero")
	require.NoError(t, err)
	assert.Equal(t, blocks[:1], got)
}

func TestSaveBlocksErrors(t *testing.T) {
	b := attach(t, t.TempDir())

	assert.ErrorIs(t, b.SaveBlocks("nope", []types.StoredBlock{storedBlock("a", "A")}), types.ErrCollectionNotFound)
	assert.ErrorIs(t, b.SaveBlocks("", nil), types.ErrInvalidCollection)

	require.NoError(t, b.SaveDefinitions("hero", mustParse(t, "Title:text!")))
	assert.ErrorIs(t, b.SaveBlocks("hero", []types.StoredBlock{{}}), types.ErrMalformedBlock)

	dup := []types.StoredBlock{storedBlock("same", "A"), storedBlock("same", "B")}
	assert.Error(t, b.SaveBlocks("hero", dup))

	_, err := b.LoadBlocks("nope")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestPersistenceAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	defs := mustParse(t, "Title:text!,Featured Image:mediaSingle")
	blocks := []types.StoredBlock{storedBlock("b1", "First"), storedBlock("b2", "Second")}

	first := NewBackend()
	require.NoError(t, first.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	require.NoError(t, first.SaveDefinitions("hero", defs))
	require.NoError(t, first.SaveDefinitions("cards", mustParse(t, "Label:text")))
	require.NoError(t, first.SaveBlocks("hero", blocks))
	require.NoError(t, first.Detach())

	second := attach(t, dir)
	names, err := second.Collections()
	require.NoError(t, err)
	assert.Equal(t, []string{"cards", "hero"}, names)

	gotDefs, err := second.LoadDefinitions("hero")
	require.NoError(t, err)
	assert.Equal(t, defs, gotDefs)

	gotBlocks, err := second.LoadBlocks("hero")
	require.NoError(t, err)
	assert.Equal(t, blocks, gotBlocks)
}

func TestMalformedLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	lines := strings.Join([]string{
		`{"collection":"hero","seq":0,"chunk":"Title:text!"}`,
		`not json`,
		``,
		`{"seq":1,"chunk":"orphan"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, definitionsJSONL), []byte(lines), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, blocksJSONL),
		[]byte(`{"collection":"hero","position":0,"block":{"blockFields":{}}}`+"\n"), 0o644))

	b := attach(t, dir)
	defs, err := b.LoadDefinitions("hero")
	require.NoError(t, err)
	assert.Equal(t, []types.FieldDefinition{{Label: "Title", Name: "title", Type: types.FieldTypeText, IsRequired: true}}, defs)

	blocks, err := b.LoadBlocks("hero")
	require.NoError(t, err)
	assert.Empty(t, blocks, "block without id is skipped")
}

func TestDeleteCollection(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir)
	require.NoError(t, b.SaveDefinitions("hero", mustParse(t, "Title:text!")))
	require.NoError(t, b.SaveBlocks("hero", []types.StoredBlock{storedBlock("b1", "First")}))

	require.NoError(t, b.DeleteCollection("hero"))
	assert.ErrorIs(t, b.DeleteCollection("hero"), types.ErrCollectionNotFound)

	names, err := b.Collections()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range jsonlFiles {
		records, err := readJSONL(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Empty(t, records, name)
	}
}
