package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RepeaterKey is the StoredBlock key holding the field map.
const RepeaterKey = "blockFields"

// StoredField is the persisted form of one field: its definition
// attributes plus the raw data slot. The field name is the map key.
type StoredField struct {
	Label      string          `json:"label"`
	Type       FieldType       `json:"type"`
	IsRequired bool            `json:"isRequired"`
	Options    []string        `json:"options,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// NamedStoredField pairs a StoredField with its map key.
type NamedStoredField struct {
	Name string
	StoredField
}

// StoredBlock is the persisted form of a Block. On the wire the fields
// form a JSON object keyed by field name whose member order is the block's
// field order; Fields keeps that order explicit.
type StoredBlock struct {
	ID     string
	Fields []NamedStoredField
}

// Field returns the stored field with the given name.
func (b StoredBlock) Field(name string) (StoredField, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f.StoredField, true
		}
	}
	return StoredField{}, false
}

// MarshalJSON writes {"id":..., "blockFields":{...}} with fields in order.
func (b StoredBlock) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	id, err := json.Marshal(b.ID)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"id":`)
	buf.Write(id)
	buf.WriteString(`,"` + RepeaterKey + `":{`)
	for i, f := range b.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		sf := f.StoredField
		if len(sf.Data) == 0 {
			sf.Data = json.RawMessage(jsonNull)
		}
		val, err := json.Marshal(sf)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the field map preserving member order. A record
// without an id or without the field map is ErrMalformedBlock.
func (b *StoredBlock) UnmarshalJSON(data []byte) error {
	*b = StoredBlock{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	var sawID, sawFields bool
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case "id":
			if err := dec.Decode(&b.ID); err != nil {
				return fmt.Errorf("%w: id: %v", ErrMalformedBlock, err)
			}
			sawID = true
		case RepeaterKey:
			fields, err := decodeStoredFields(dec)
			if err != nil {
				return err
			}
			b.Fields = fields
			sawFields = true
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	if !sawID {
		return fmt.Errorf("%w: missing id", ErrMalformedBlock)
	}
	if !sawFields {
		return fmt.Errorf("%w: block %s: missing %s", ErrMalformedBlock, b.ID, RepeaterKey)
	}
	return nil
}

func decodeStoredFields(dec *json.Decoder) ([]NamedStoredField, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	fields := []NamedStoredField{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field key %v", ErrMalformedBlock, tok)
		}
		var sf StoredField
		if err := dec.Decode(&sf); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedBlock, name, err)
		}
		fields = append(fields, NamedStoredField{Name: name, StoredField: sf})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return fields, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedBlock, want, tok)
	}
	return nil
}
