// Package codec converts between blocks and their stored representation.
//
// The codec applies one storage mode to every field: in raw mode the data
// slot holds the value's JSON, in stringified mode it holds a JSON string
// whose contents are the value's JSON.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

// Codec encodes and decodes blocks under a single storage mode.
type Codec struct {
	mode string
}

// New returns a codec for the given storage mode. An empty mode selects
// types.StorageModeRaw.
func New(mode string) (*Codec, error) {
	if mode == "" {
		mode = types.StorageModeRaw
	}
	switch mode {
	case types.StorageModeRaw, types.StorageModeStringified:
		return &Codec{mode: mode}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrStorageModeUnknown, mode)
	}
}

// ForConfig returns the codec selected by cfg.StorageMode.
func ForConfig(cfg types.Config) (*Codec, error) {
	return New(cfg.GetStorageMode())
}

// Mode returns the codec's storage mode.
func (c *Codec) Mode() string { return c.mode }

// FromStorage decodes stored blocks. Nil or empty input yields an empty
// slice. Field order follows the stored field map order.
func (c *Codec) FromStorage(stored []types.StoredBlock) ([]types.Block, error) {
	blocks := make([]types.Block, 0, len(stored))
	for _, sb := range stored {
		b, err := c.DecodeBlock(sb)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ToStorage encodes blocks, keying each field by its name in field order.
func (c *Codec) ToStorage(blocks []types.Block) ([]types.StoredBlock, error) {
	stored := make([]types.StoredBlock, 0, len(blocks))
	for _, b := range blocks {
		sb, err := c.EncodeBlock(b)
		if err != nil {
			return nil, err
		}
		stored = append(stored, sb)
	}
	return stored, nil
}

// DecodeBlock decodes one stored block.
func (c *Codec) DecodeBlock(sb types.StoredBlock) (types.Block, error) {
	if sb.ID == "" {
		return types.Block{}, fmt.Errorf("%w: missing id", types.ErrMalformedBlock)
	}
	fields := make([]types.Field, 0, len(sb.Fields))
	for _, sf := range sb.Fields {
		raw, err := c.unwrap(sf.Data)
		if err != nil {
			return types.Block{}, fmt.Errorf("block %s field %q: %w", sb.ID, sf.Name, err)
		}
		value, err := types.DecodeValue(sf.Type, raw)
		if err != nil {
			return types.Block{}, fmt.Errorf("block %s field %q: %w", sb.ID, sf.Name, err)
		}
		fields = append(fields, types.Field{
			FieldDefinition: types.FieldDefinition{
				Label:      sf.Label,
				Name:       sf.Name,
				Type:       sf.Type,
				IsRequired: sf.IsRequired,
				Options:    sf.Options,
			},
			Value: value,
		})
	}
	return types.Block{ID: sb.ID, Fields: fields}, nil
}

// EncodeBlock encodes one block. Values are stored as they are; a value
// whose variant does not match its field type is ErrValueMismatch.
func (c *Codec) EncodeBlock(b types.Block) (types.StoredBlock, error) {
	fields := make([]types.NamedStoredField, 0, len(b.Fields))
	for _, f := range b.Fields {
		if err := types.CheckValue(f.Type, f.Value); err != nil {
			return types.StoredBlock{}, fmt.Errorf("block %s field %q: %w", b.ID, f.Name, err)
		}
		raw, err := types.EncodeValue(f.Value)
		if err != nil {
			return types.StoredBlock{}, fmt.Errorf("block %s field %q: %w", b.ID, f.Name, err)
		}
		data, err := c.wrap(raw)
		if err != nil {
			return types.StoredBlock{}, fmt.Errorf("block %s field %q: %w", b.ID, f.Name, err)
		}
		fields = append(fields, types.NamedStoredField{
			Name: f.Name,
			StoredField: types.StoredField{
				Label:      f.Label,
				Type:       f.Type,
				IsRequired: f.IsRequired,
				Options:    f.Options,
				Data:       data,
			},
		})
	}
	return types.StoredBlock{ID: b.ID, Fields: fields}, nil
}

// wrap places value JSON into the data slot.
func (c *Codec) wrap(raw json.RawMessage) (json.RawMessage, error) {
	if c.mode == types.StorageModeRaw {
		return raw, nil
	}
	return json.Marshal(string(raw))
}

// unwrap extracts value JSON from the data slot.
func (c *Codec) unwrap(data json.RawMessage) (json.RawMessage, error) {
	if c.mode == types.StorageModeRaw || types.IsNull(data) {
		return data, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: stringified data: %v", types.ErrMalformedBlock, err)
	}
	return json.RawMessage(s), nil
}
