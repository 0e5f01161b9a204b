package types

import "slices"

// FieldType names the kind of value a block field holds.
type FieldType string

// Recognized field types. The string form is the token used in the
// definition language and on the wire.
const (
	FieldTypeText              FieldType = "text"
	FieldTypeMediaSingle       FieldType = "mediaSingle"
	FieldTypeMediaMultiple     FieldType = "mediaMultiple"
	FieldTypeRichText          FieldType = "richText"
	FieldTypeBoolean           FieldType = "boolean"
	FieldTypeReferenceSingle   FieldType = "referenceSingle"
	FieldTypeReferenceMultiple FieldType = "referenceMultiple"
)

// fieldTypes is the recognized set in declaration order.
var fieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeMediaSingle,
	FieldTypeMediaMultiple,
	FieldTypeRichText,
	FieldTypeBoolean,
	FieldTypeReferenceSingle,
	FieldTypeReferenceMultiple,
}

// FieldTypes returns the recognized field types in declaration order.
// The returned slice is a copy.
func FieldTypes() []FieldType {
	return slices.Clone(fieldTypes)
}

// IsValidFieldType reports whether t is one of the recognized field types.
func IsValidFieldType(t FieldType) bool {
	return slices.Contains(fieldTypes, t)
}

// FieldDefinition is the schema of one field within a block.
// Name is derived from Label and is not set independently.
type FieldDefinition struct {
	Label      string    `json:"label" yaml:"label"`
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	IsRequired bool      `json:"isRequired" yaml:"isRequired"`
	// Options constrains a text field to a fixed set of values.
	// Ignored for other types.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// HasOptions reports whether the definition carries dropdown options.
func (d FieldDefinition) HasOptions() bool {
	return len(d.Options) > 0
}
