package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Value is the typed payload of a Field. The concrete type always matches
// the field's FieldType; a nil Value is the null value.
type Value interface {
	FieldType() FieldType
	isValue()
}

// TextValue is the value of a text field, optionally constrained by options.
type TextValue string

// BooleanValue is the value of a boolean field. false is a present value.
type BooleanValue bool

// MediaValue is the value of a mediaSingle field.
type MediaValue Link

// MediaListValue is the value of a mediaMultiple field.
type MediaListValue []Link

// RichTextValue is the value of a richText field.
type RichTextValue struct {
	Doc *RichNode
}

// ReferenceValue is the value of a referenceSingle field.
type ReferenceValue Link

// ReferenceListValue is the value of a referenceMultiple field.
type ReferenceListValue []Link

func (TextValue) FieldType() FieldType          { return FieldTypeText }
func (BooleanValue) FieldType() FieldType       { return FieldTypeBoolean }
func (MediaValue) FieldType() FieldType         { return FieldTypeMediaSingle }
func (MediaListValue) FieldType() FieldType     { return FieldTypeMediaMultiple }
func (RichTextValue) FieldType() FieldType      { return FieldTypeRichText }
func (ReferenceValue) FieldType() FieldType     { return FieldTypeReferenceSingle }
func (ReferenceListValue) FieldType() FieldType { return FieldTypeReferenceMultiple }

func (TextValue) isValue()          {}
func (BooleanValue) isValue()       {}
func (MediaValue) isValue()         {}
func (MediaListValue) isValue()     {}
func (RichTextValue) isValue()      {}
func (ReferenceValue) isValue()     {}
func (ReferenceListValue) isValue() {}

// MarshalJSON writes the document itself, or null when there is none.
func (v RichTextValue) MarshalJSON() ([]byte, error) {
	if v.Doc == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v.Doc)
}

var jsonNull = []byte("null")

// IsNull reports whether raw is absent or the JSON null literal.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// EncodeValue returns the JSON form of v. A nil Value encodes as null.
func EncodeValue(v Value) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage(jsonNull), nil
	}
	return json.Marshal(v)
}

// DecodeValue decodes raw into the Value variant for field type t.
// JSON null decodes to a nil Value. Boolean fields also accept the strings
// "true" and "false".
func DecodeValue(t FieldType, raw json.RawMessage) (Value, error) {
	if IsNull(raw) {
		return nil, nil
	}
	var (
		v   Value
		err error
	)
	switch t {
	case FieldTypeText:
		var s string
		err = json.Unmarshal(raw, &s)
		v = TextValue(s)
	case FieldTypeBoolean:
		v, err = decodeBoolean(raw)
	case FieldTypeMediaSingle:
		var l Link
		err = json.Unmarshal(raw, &l)
		v = MediaValue(l)
	case FieldTypeMediaMultiple:
		var ls []Link
		err = json.Unmarshal(raw, &ls)
		v = MediaListValue(ls)
	case FieldTypeRichText:
		doc := &RichNode{}
		err = json.Unmarshal(raw, doc)
		v = RichTextValue{Doc: doc}
	case FieldTypeReferenceSingle:
		var l Link
		err = json.Unmarshal(raw, &l)
		v = ReferenceValue(l)
	case FieldTypeReferenceMultiple:
		var ls []Link
		err = json.Unmarshal(raw, &ls)
		v = ReferenceListValue(ls)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrValueMismatch, t, err)
	}
	return v, nil
}

func decodeBoolean(raw json.RawMessage) (Value, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return BooleanValue(b), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return BooleanValue(b), nil
}

// CheckValue returns ErrValueMismatch if v is non-nil and not the variant
// for field type t.
func CheckValue(t FieldType, v Value) error {
	if v == nil || v.FieldType() == t {
		return nil
	}
	return fmt.Errorf("%w: %s field cannot hold %s value", ErrValueMismatch, t, v.FieldType())
}

// NormalizeValue maps variants that encode as JSON null, such as a
// RichTextValue without a document or a nil list, to the nil Value.
func NormalizeValue(v Value) Value {
	switch v := v.(type) {
	case RichTextValue:
		if v.Doc == nil {
			return nil
		}
	case MediaListValue:
		if v == nil {
			return nil
		}
	case ReferenceListValue:
		if v == nil {
			return nil
		}
	}
	return v
}

// IsEmptyValue reports whether v is null, encodes as null, or is the empty
// string.
func IsEmptyValue(v Value) bool {
	v = NormalizeValue(v)
	if v == nil {
		return true
	}
	if s, ok := v.(TextValue); ok {
		return s == ""
	}
	return false
}

// ValuesEqual reports whether a and b hold the same value.
func ValuesEqual(a, b Value) bool {
	return reflect.DeepEqual(a, b)
}
