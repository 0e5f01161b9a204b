package definition

import (
	"regexp"
	"strings"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

const (
	fragmentSeparator = ","
	optionSeparator   = "-"
	requiredMarker    = "!"
)

// fragmentPattern captures label, type, options and the required marker.
// Options hold neither ':' nor '!', so a trailing '!' is always the marker.
var fragmentPattern = regexp.MustCompile(`^([^:]+):(\w+)(?:-([^!:]+))?(!?)$`)

// Parse decodes a definition string into field definitions in fragment
// order. It returns types.ErrMissingDefinition for empty input, a
// *types.DefinitionError for a fragment outside the grammar and a
// *types.FieldTypeError for an unrecognized type token.
func Parse(input string) ([]types.FieldDefinition, error) {
	if input == "" {
		return nil, types.ErrMissingDefinition
	}

	fragments := strings.Split(input, fragmentSeparator)
	defs := make([]types.FieldDefinition, 0, len(fragments))
	for _, fragment := range fragments {
		def, err := parseFragment(fragment)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// ParseChunks reassembles chunks produced by Encode and parses the result.
func ParseChunks(chunks []string) ([]types.FieldDefinition, error) {
	return Parse(strings.Join(chunks, ""))
}

func parseFragment(fragment string) (types.FieldDefinition, error) {
	m := fragmentPattern.FindStringSubmatch(fragment)
	if m == nil {
		return types.FieldDefinition{}, &types.DefinitionError{Fragment: fragment}
	}
	label, token, options, required := m[1], m[2], m[3], m[4]

	fieldType := types.FieldType(token)
	if !types.IsValidFieldType(fieldType) {
		return types.FieldDefinition{}, &types.FieldTypeError{
			Fragment: fragment,
			Received: token,
			Expected: types.FieldTypes(),
		}
	}

	def := types.FieldDefinition{
		Label:      label,
		Name:       CamelCase(label),
		Type:       fieldType,
		IsRequired: required == requiredMarker,
	}
	if options != "" {
		def.Options = strings.Split(options, optionSeparator)
	}
	return def, nil
}
