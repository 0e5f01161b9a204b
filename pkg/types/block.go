package types

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Field is a FieldDefinition bound to a value.
type Field struct {
	FieldDefinition
	Value Value
}

type fieldJSON struct {
	FieldDefinition
	Value json.RawMessage `json:"value"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	raw, err := EncodeValue(f.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldJSON{FieldDefinition: f.FieldDefinition, Value: raw})
}

// UnmarshalJSON decodes the value according to the field's type.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := DecodeValue(w.Type, w.Value)
	if err != nil {
		return fmt.Errorf("field %q: %w", w.Name, err)
	}
	*f = Field{FieldDefinition: w.FieldDefinition, Value: v}
	return nil
}

// Block is one repeatable instance of a user-defined field set.
// Field order is display order and definition order.
type Block struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// Clone returns a copy of b whose Fields slice is not shared with b.
// Values are immutable and are shared.
func (b Block) Clone() Block {
	return Block{ID: b.ID, Fields: slices.Clone(b.Fields)}
}

// FieldIndex returns the position of the field with the given name, or -1.
func (b Block) FieldIndex(name string) int {
	return slices.IndexFunc(b.Fields, func(f Field) bool { return f.Name == name })
}
