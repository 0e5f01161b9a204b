// Package editor implements the editing operations applied to a block
// sequence between loads and saves. Every operation returns a new slice
// and never writes through to the caller's blocks or field slices, so a
// previously observed sequence stays valid after an edit.
package editor

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/blocks/internal/codec"
	"github.com/mesh-intelligence/blocks/internal/richtext"
	"github.com/mesh-intelligence/blocks/internal/validate"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// newID returns a UUID v7 block id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewBlock returns a block with a fresh id and one null-valued field per
// definition, in definition order.
func NewBlock(defs []types.FieldDefinition) types.Block {
	fields := make([]types.Field, len(defs))
	for i, def := range defs {
		fields[i] = types.Field{FieldDefinition: def}
	}
	return types.Block{ID: newID(), Fields: fields}
}

// Add appends a new block built from defs and returns the new sequence
// together with the new block's id.
func Add(blocks []types.Block, defs []types.FieldDefinition) ([]types.Block, string) {
	b := NewBlock(defs)
	return append(slices.Clip(blocks), b), b.ID
}

// IndexOf returns the position of the block with the given id, or -1.
func IndexOf(blocks []types.Block, id string) int {
	return slices.IndexFunc(blocks, func(b types.Block) bool { return b.ID == id })
}

// UpdateField sets the value of one field. It reports changed=false and
// returns blocks unchanged when the field already holds an equal value.
// Rich-text values are stored with their extracted references; values that
// encode as null are stored as nil.
func UpdateField(blocks []types.Block, blockIndex, fieldIndex int, value types.Value) ([]types.Block, bool, error) {
	if blockIndex < 0 || blockIndex >= len(blocks) {
		return blocks, false, fmt.Errorf("%w: index %d", types.ErrBlockNotFound, blockIndex)
	}
	block := blocks[blockIndex]
	if fieldIndex < 0 || fieldIndex >= len(block.Fields) {
		return blocks, false, fmt.Errorf("%w: block %s index %d", types.ErrFieldNotFound, block.ID, fieldIndex)
	}
	field := block.Fields[fieldIndex]
	if err := types.CheckValue(field.Type, value); err != nil {
		return blocks, false, fmt.Errorf("field %q: %w", field.Name, err)
	}

	value = withReferences(types.NormalizeValue(value))
	if types.ValuesEqual(field.Value, value) {
		return blocks, false, nil
	}

	updated := block.Clone()
	updated.Fields[fieldIndex].Value = value

	out := slices.Clone(blocks)
	out[blockIndex] = updated
	return out, true, nil
}

// SetField is UpdateField addressed by block id and field name.
func SetField(blocks []types.Block, blockID, fieldName string, value types.Value) ([]types.Block, bool, error) {
	bi := IndexOf(blocks, blockID)
	if bi < 0 {
		return blocks, false, fmt.Errorf("%w: %s", types.ErrBlockNotFound, blockID)
	}
	fi := blocks[bi].FieldIndex(fieldName)
	if fi < 0 {
		return blocks, false, fmt.Errorf("%w: %q in block %s", types.ErrFieldNotFound, fieldName, blockID)
	}
	return UpdateField(blocks, bi, fi, value)
}

func withReferences(v types.Value) types.Value {
	rt, ok := v.(types.RichTextValue)
	if !ok || rt.Doc == nil {
		return v
	}
	return types.RichTextValue{Doc: richtext.AddReferences(rt.Doc)}
}

// Delete removes the block with the given id.
func Delete(blocks []types.Block, id string) ([]types.Block, error) {
	i := IndexOf(blocks, id)
	if i < 0 {
		return blocks, fmt.Errorf("%w: %s", types.ErrBlockNotFound, id)
	}
	return slices.Delete(slices.Clone(blocks), i, i+1), nil
}

// Move relocates the block activeID to the position currently held by
// overID, shifting the blocks in between. Moving a block onto itself is a
// no-op.
func Move(blocks []types.Block, activeID, overID string) ([]types.Block, error) {
	from := IndexOf(blocks, activeID)
	if from < 0 {
		return blocks, fmt.Errorf("%w: %s", types.ErrBlockNotFound, activeID)
	}
	to := IndexOf(blocks, overID)
	if to < 0 {
		return blocks, fmt.Errorf("%w: %s", types.ErrBlockNotFound, overID)
	}
	if from == to {
		return blocks, nil
	}
	out := slices.Clone(blocks)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved), nil
}

// Clear returns an empty sequence.
func Clear() []types.Block {
	return []types.Block{}
}

// Commit encodes blocks for persistence when the form is valid. When any
// block is invalid it returns invalid=true and no stored value; the caller
// keeps its in-memory blocks and the last persisted value stays in place.
func Commit(c *codec.Codec, blocks []types.Block) (stored []types.StoredBlock, invalid bool, err error) {
	if validate.FormInvalid(blocks) {
		return nil, true, nil
	}
	stored, err = c.ToStorage(blocks)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}
