package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blocks/pkg/blocks"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

func newRefsCmd(a *app) *cobra.Command {
	var annotate bool
	cmd := &cobra.Command{
		Use:   "refs <rich-text.json>",
		Short: "List the assets and entries a rich-text document links to",
		Long: "Read a rich-text document (\"-\" for stdin) and print its references in\n" +
			"document order. With --annotate the document is printed with the references\n" +
			"attached to its root.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readRichText(cmd, args[0])
			if err != nil {
				return err
			}
			if annotate {
				return writeJSON(cmd.OutOrStdout(), blocks.AddReferences(doc))
			}
			refs := blocks.CollectReferences(doc)
			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), refs)
			}
			for _, r := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Type, r.ContentfulID)
			}
			a.logger.Debug("references collected", "count", len(refs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&annotate, "annotate", false, "print the document with its references attached")
	return cmd
}

// readRichText decodes a rich-text document from path, or from stdin when
// path is "-".
func readRichText(cmd *cobra.Command, path string) (*types.RichNode, error) {
	r := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, userError(err)
		}
		defer f.Close()
		r = f
	}
	doc := &types.RichNode{}
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, userError(fmt.Errorf("%w: %s: %v", types.ErrValueMismatch, path, err))
	}
	return doc, nil
}
