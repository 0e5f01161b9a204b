// Package blocks is the public API of the block definition language, the
// block codec, the reference extractor and the validation engine.
//
// A typical editing round trip:
//
//	defs, err := blocks.ParseDefinitions(param)
//	c, err := blocks.NewCodec(types.StorageModeRaw)
//	current, err := c.FromStorage(stored)
//	current, _ = blocks.AddBlock(current, defs)
//	if out, invalid, err := blocks.Commit(c, current); err == nil && !invalid {
//	    save(out)
//	}
package blocks

import (
	"github.com/mesh-intelligence/blocks/internal/codec"
	"github.com/mesh-intelligence/blocks/internal/definition"
	"github.com/mesh-intelligence/blocks/internal/editor"
	"github.com/mesh-intelligence/blocks/internal/richtext"
	"github.com/mesh-intelligence/blocks/internal/validate"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// Version is the library and CLI version.
const Version = "v0.1.0"

// MaxChunkLength is the maximum length of one encoded definition chunk.
const MaxChunkLength = definition.MaxChunkLength

// Codec converts between blocks and stored blocks under one storage mode.
type Codec = codec.Codec

// Violation locates one invalid field.
type Violation = validate.Violation

// ParseDefinitions decodes a definition string.
func ParseDefinitions(input string) ([]types.FieldDefinition, error) {
	return definition.Parse(input)
}

// ParseDefinitionChunks concatenates chunks and decodes the result.
func ParseDefinitionChunks(chunks []string) ([]types.FieldDefinition, error) {
	return definition.ParseChunks(chunks)
}

// EncodeDefinitions renders defs as chunks of at most MaxChunkLength
// characters.
func EncodeDefinitions(defs []types.FieldDefinition) []string {
	return definition.Encode(defs)
}

// EncodeFragment renders one definition as label:type[-options][!].
func EncodeFragment(def types.FieldDefinition) string {
	return definition.Fragment(def)
}

// FieldName derives a field name from a label.
func FieldName(label string) string {
	return definition.CamelCase(label)
}

// AddReferences returns a copy of doc carrying the references it links to.
func AddReferences(doc *types.RichNode) *types.RichNode {
	return richtext.AddReferences(doc)
}

// CollectReferences lists the references in node in document order.
func CollectReferences(node *types.RichNode) []types.Reference {
	return richtext.CollectReferences(node)
}

// NewCodec returns a codec for the storage mode ("" selects raw).
func NewCodec(mode string) (*Codec, error) {
	return codec.New(mode)
}

// FieldValidation returns the field's validation message or "".
func FieldValidation(f types.Field) string { return validate.FieldValidation(f) }

// BlockInvalid reports whether any field of b is invalid.
func BlockInvalid(b types.Block) bool { return validate.BlockInvalid(b) }

// FormInvalid reports whether any block is invalid.
func FormInvalid(blocks []types.Block) bool { return validate.FormInvalid(blocks) }

// Violations lists every invalid field.
func Violations(blocks []types.Block) []Violation { return validate.Violations(blocks) }

// BlockTitle returns the display title of the block at index.
func BlockTitle(b types.Block, index int) string { return validate.BlockTitle(b, index) }

// BlockThumbnail returns the asset id used as the block's thumbnail.
func BlockThumbnail(b types.Block) (string, bool) { return validate.BlockThumbnail(b) }

// NewBlock returns an empty block for defs with a fresh id.
func NewBlock(defs []types.FieldDefinition) types.Block { return editor.NewBlock(defs) }

// AddBlock appends a new empty block and returns its id.
func AddBlock(blocks []types.Block, defs []types.FieldDefinition) ([]types.Block, string) {
	return editor.Add(blocks, defs)
}

// UpdateField sets one field's value without modifying blocks.
func UpdateField(blocks []types.Block, blockIndex, fieldIndex int, value types.Value) ([]types.Block, bool, error) {
	return editor.UpdateField(blocks, blockIndex, fieldIndex, value)
}

// SetField sets a field addressed by block id and field name.
func SetField(blocks []types.Block, blockID, fieldName string, value types.Value) ([]types.Block, bool, error) {
	return editor.SetField(blocks, blockID, fieldName, value)
}

// DeleteBlock removes the block with the given id.
func DeleteBlock(blocks []types.Block, id string) ([]types.Block, error) {
	return editor.Delete(blocks, id)
}

// MoveBlock moves activeID to overID's position.
func MoveBlock(blocks []types.Block, activeID, overID string) ([]types.Block, error) {
	return editor.Move(blocks, activeID, overID)
}

// ClearBlocks returns an empty block sequence.
func ClearBlocks() []types.Block { return editor.Clear() }

// Commit encodes blocks when the form is valid.
func Commit(c *Codec, blocks []types.Block) ([]types.StoredBlock, bool, error) {
	return editor.Commit(c, blocks)
}
