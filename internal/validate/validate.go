// Package validate computes field and block validity and the display
// title and thumbnail derived from block data. Nothing here returns an
// error: invalidity is reported as data for the caller to render.
package validate

import (
	"fmt"

	"github.com/mesh-intelligence/blocks/internal/richtext"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// MessageRequired is reported for a required field without a value.
const MessageRequired = "Field is required"

// Violation locates one invalid field within a block sequence.
type Violation struct {
	BlockID string `json:"blockId"`
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// FieldValidation returns the validation message for f, or "" when f is
// valid. A required field is invalid when its value is null or the empty
// string; false is a present boolean value.
func FieldValidation(f types.Field) string {
	if f.IsRequired && types.IsEmptyValue(f.Value) {
		return MessageRequired
	}
	return ""
}

// BlockInvalid reports whether any field of b has a validation message.
func BlockInvalid(b types.Block) bool {
	for _, f := range b.Fields {
		if FieldValidation(f) != "" {
			return true
		}
	}
	return false
}

// FormInvalid reports whether any block is invalid.
func FormInvalid(blocks []types.Block) bool {
	for _, b := range blocks {
		if BlockInvalid(b) {
			return true
		}
	}
	return false
}

// Violations lists every invalid field in block order, then field order.
func Violations(blocks []types.Block) []Violation {
	var out []Violation
	for i, b := range blocks {
		for _, f := range b.Fields {
			if msg := FieldValidation(f); msg != "" {
				out = append(out, Violation{
					BlockID: b.ID,
					Index:   i,
					Field:   f.Name,
					Label:   f.Label,
					Message: msg,
				})
			}
		}
	}
	return out
}

// BlockTitle returns the display title of the block at index. The first
// text or rich-text field supplies it; when there is none, or its value is
// empty, the title is "Block <index+1>".
func BlockTitle(b types.Block, index int) string {
	for _, f := range b.Fields {
		switch f.Type {
		case types.FieldTypeText, types.FieldTypeRichText:
			if title := titleOf(f.Value); title != "" {
				return title
			}
			return fallbackTitle(index)
		}
	}
	return fallbackTitle(index)
}

func titleOf(v types.Value) string {
	switch v := v.(type) {
	case types.TextValue:
		return string(v)
	case types.RichTextValue:
		return richtext.PlainText(v.Doc)
	default:
		return ""
	}
}

func fallbackTitle(index int) string {
	return fmt.Sprintf("Block %d", index+1)
}

// BlockThumbnail returns the asset id of the block's thumbnail: the first
// media field holding an asset, using the first asset of a list.
func BlockThumbnail(b types.Block) (string, bool) {
	for _, f := range b.Fields {
		switch v := f.Value.(type) {
		case types.MediaValue:
			return v.Sys.ID, true
		case types.MediaListValue:
			if len(v) > 0 {
				return v[0].Sys.ID, true
			}
		}
	}
	return "", false
}
