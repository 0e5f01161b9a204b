package definition

import (
	"strings"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

// MaxChunkLength is the capacity, in characters, of one stored chunk.
const MaxChunkLength = 255

// Fragment renders a single definition in the grammar Parse accepts.
func Fragment(def types.FieldDefinition) string {
	var b strings.Builder
	b.WriteString(def.Label)
	b.WriteByte(':')
	b.WriteString(string(def.Type))
	if len(def.Options) > 0 {
		b.WriteString(optionSeparator)
		b.WriteString(strings.Join(def.Options, optionSeparator))
	}
	if def.IsRequired {
		b.WriteString(requiredMarker)
	}
	return b.String()
}

// EncodeString renders defs as one definition string.
func EncodeString(defs []types.FieldDefinition) string {
	fragments := make([]string, len(defs))
	for i, def := range defs {
		fragments[i] = Fragment(def)
	}
	return strings.Join(fragments, fragmentSeparator)
}

// Encode renders defs and splits the result into chunks of at most
// MaxChunkLength characters. Boundaries ignore fragment structure.
func Encode(defs []types.FieldDefinition) []string {
	return Chunk(EncodeString(defs), MaxChunkLength)
}

// Chunk splits s into consecutive pieces of at most size characters.
// An empty s yields no chunks.
func Chunk(s string, size int) []string {
	if size <= 0 {
		size = MaxChunkLength
	}
	rs := []rune(s)
	chunks := make([]string, 0, (len(rs)+size-1)/size)
	for start := 0; start < len(rs); start += size {
		end := min(start+size, len(rs))
		chunks = append(chunks, string(rs[start:end]))
	}
	return chunks
}
