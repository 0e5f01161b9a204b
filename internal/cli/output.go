package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blocks/internal/richtext"
	"github.com/mesh-intelligence/blocks/pkg/blocks"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// blockSummary is the list and show view of one block.
type blockSummary struct {
	Index     int           `json:"index"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Thumbnail string        `json:"thumbnail,omitempty"`
	Invalid   bool          `json:"invalid"`
	Fields    []types.Field `json:"fields,omitempty"`
}

func summarize(b types.Block, index int, withFields bool) blockSummary {
	s := blockSummary{
		Index:   index,
		ID:      b.ID,
		Title:   blocks.BlockTitle(b, index),
		Invalid: blocks.BlockInvalid(b),
	}
	if thumb, ok := blocks.BlockThumbnail(b); ok {
		s.Thumbnail = thumb
	}
	if withFields {
		s.Fields = b.Fields
	}
	return s
}

// formatValue renders a value on one line for human output.
func formatValue(v types.Value) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case types.TextValue:
		return fmt.Sprintf("%q", string(v))
	case types.BooleanValue:
		return fmt.Sprintf("%t", bool(v))
	case types.MediaValue:
		return "asset " + v.Sys.ID
	case types.ReferenceValue:
		return "entry " + v.Sys.ID
	case types.MediaListValue:
		return "assets " + linkIDs(v)
	case types.ReferenceListValue:
		return "entries " + linkIDs(v)
	case types.RichTextValue:
		if v.Doc == nil {
			return "-"
		}
		return fmt.Sprintf("%q (%d references)", richtext.PlainText(v.Doc), len(v.Doc.References))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func linkIDs(links []types.Link) string {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.Sys.ID
	}
	return "[" + strings.Join(ids, ", ") + "]"
}

// writeViolations prints one line per violation.
func writeViolations(w io.Writer, violations []blocks.Violation) {
	for _, v := range violations {
		fmt.Fprintf(w, "block %d (%s): %s: %s\n", v.Index+1, v.BlockID, v.Label, v.Message)
	}
}

// reportInvalid writes the violations that blocked a save.
func (a *app) reportInvalid(cmd *cobra.Command, violations []blocks.Violation) error {
	if a.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"violations": violations})
	}
	writeViolations(cmd.ErrOrStderr(), violations)
	return nil
}
