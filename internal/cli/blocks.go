package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blocks/pkg/blocks"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// edit loads a collection, applies fn and saves the result when it is
// valid. Violations are reported on the command's output.
func (a *app) edit(cmd *cobra.Command, collection string, fn func(s *session) error) error {
	return a.withStore(func(store types.Store) error {
		s, err := a.loadSession(store, collection)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		violations, err := s.commit()
		if violations != nil {
			if rerr := a.reportInvalid(cmd, violations); rerr != nil {
				return rerr
			}
		}
		if err != nil {
			return err
		}
		a.logger.Debug("collection saved", "collection", collection, "blocks", len(s.blocks))
		return nil
	})
}

func newAddCmd(a *app) *cobra.Command {
	var assignments []string
	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Append a block to a collection",
		Long: "Append a new block. Field values are given as --field name=value where value\n" +
			"is JSON; text fields also accept plain strings. Required fields must be set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			err := a.edit(cmd, args[0], func(s *session) error {
				s.blocks, id = blocks.AddBlock(s.blocks, s.defs)
				for _, arg := range assignments {
					if err := s.assign(id, arg); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"id": id})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&assignments, "field", nil, "field value as name=value (repeatable)")
	return cmd
}

// assign applies one name=value argument to the block with id.
func (s *session) assign(id, arg string) error {
	name, input, err := parseAssignment(arg)
	if err != nil {
		return err
	}
	i, err := s.blockIndex(id)
	if err != nil {
		return err
	}
	fi := s.blocks[i].FieldIndex(name)
	if fi < 0 {
		return fmt.Errorf("%w: %s", types.ErrFieldNotFound, name)
	}
	value, err := parseValue(s.blocks[i].Fields[fi].Type, input)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	s.blocks, _, err = blocks.UpdateField(s.blocks, i, fi, value)
	return err
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <collection> <block-id> <field> <value>",
		Short: "Set one field of a block",
		Long:  "Set a field value given as JSON (null clears it); text fields also accept plain strings.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id, name, input := args[0], args[1], args[2], args[3]
			return a.edit(cmd, collection, func(s *session) error {
				return s.assign(id, name+"="+input)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <block-id>",
		Short: "Remove a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(s *session) error {
				var err error
				s.blocks, err = blocks.DeleteBlock(s.blocks, args[1])
				return err
			})
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <collection> <block-id> <over-id>",
		Short: "Move a block to the position of another block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(s *session) error {
				var err error
				s.blocks, err = blocks.MoveBlock(s.blocks, args[1], args[2])
				return err
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <collection>",
		Short: "Remove every block of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(s *session) error {
				s.blocks = blocks.ClearBlocks()
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "List the blocks of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				s, err := a.loadSession(store, args[0])
				if err != nil {
					return err
				}
				summaries := make([]blockSummary, len(s.blocks))
				for i, b := range s.blocks {
					summaries[i] = summarize(b, i, false)
				}
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), summaries)
				}
				return writeList(cmd.OutOrStdout(), summaries)
			})
		},
	}
}

func writeList(w io.Writer, summaries []blockSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tTHUMBNAIL\tSTATUS")
	for _, s := range summaries {
		status := "ok"
		if s.Invalid {
			status = "invalid"
		}
		thumb := s.Thumbnail
		if thumb == "" {
			thumb = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Index+1, s.ID, s.Title, thumb, status)
	}
	return tw.Flush()
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection> <block-id>",
		Short: "Display a block with its fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				s, err := a.loadSession(store, args[0])
				if err != nil {
					return err
				}
				i, err := s.blockIndex(args[1])
				if err != nil {
					return err
				}
				summary := summarize(s.blocks[i], i, true)
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), summary)
				}
				writeBlock(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}

func writeBlock(w io.Writer, s blockSummary) {
	fmt.Fprintf(w, "ID:     %s\n", s.ID)
	fmt.Fprintf(w, "Title:  %s\n", s.Title)
	if s.Thumbnail != "" {
		fmt.Fprintf(w, "Thumb:  %s\n", s.Thumbnail)
	}
	fmt.Fprintln(w, "\nFields:")
	for _, f := range s.Fields {
		required := ""
		if f.IsRequired {
			required = ", required"
		}
		fmt.Fprintf(w, "  %s (%s%s): %s", f.Label, f.Type, required, formatValue(f.Value))
		if msg := blocks.FieldValidation(f); msg != "" {
			fmt.Fprintf(w, "  [%s]", msg)
		}
		fmt.Fprintln(w)
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [collection]",
		Short: "Report invalid fields",
		Long:  "Check the blocks of one collection, or of every collection when none is named.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				names := args
				if len(names) == 0 {
					var err error
					if names, err = store.Collections(); err != nil {
						return err
					}
				}
				found := map[string][]blocks.Violation{}
				for _, name := range names {
					s, err := a.loadSession(store, name)
					if err != nil {
						return err
					}
					if v := blocks.Violations(s.blocks); len(v) > 0 {
						found[name] = v
					}
				}
				if a.jsonMode {
					if err := writeJSON(cmd.OutOrStdout(), found); err != nil {
						return err
					}
				} else {
					for _, name := range names {
						if v, ok := found[name]; ok {
							fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
							writeViolations(cmd.OutOrStdout(), v)
						}
					}
				}
				if len(found) > 0 {
					return userError(errFormInvalid)
				}
				if !a.jsonMode {
					fmt.Fprintln(cmd.OutOrStdout(), "all blocks valid")
				}
				return nil
			})
		},
	}
}
