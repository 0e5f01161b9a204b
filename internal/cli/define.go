package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/blocks/pkg/blocks"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// definitionView is the JSON output of define, definition and generate.
type definitionView struct {
	Collection string                  `json:"collection,omitempty"`
	Definition string                  `json:"definition"`
	Chunks     []string                `json:"chunks,omitempty"`
	Fields     []types.FieldDefinition `json:"fields"`
}

func newDefinitionView(collection string, defs []types.FieldDefinition, withChunks bool) definitionView {
	chunks := blocks.EncodeDefinitions(defs)
	v := definitionView{
		Collection: collection,
		Definition: strings.Join(chunks, ""),
		Fields:     defs,
	}
	if withChunks {
		v.Chunks = chunks
	}
	return v
}

func (a *app) writeDefinition(w io.Writer, v definitionView) error {
	if a.jsonMode {
		return writeJSON(w, v)
	}
	if v.Chunks != nil {
		for i, c := range v.Chunks {
			fmt.Fprintf(w, "chunk %d (%d chars): %s\n", i+1, len([]rune(c)), c)
		}
	} else {
		fmt.Fprintln(w, v.Definition)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tTYPE\tREQUIRED\tOPTIONS")
	for _, d := range v.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", d.Name, d.Label, d.Type, d.IsRequired, strings.Join(d.Options, ", "))
	}
	return tw.Flush()
}

func newDefineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "define <collection> <definition>",
		Short: "Set the field definition of a collection",
		Long: "Parse a definition such as \"Title:text!,Layout:text-Left-Right,Image:mediaSingle\"\n" +
			"and store it as the collection's field set. Existing blocks keep their values.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, input := args[0], args[1]
			defs, err := blocks.ParseDefinitions(input)
			if err != nil {
				return userError(err)
			}
			return a.withStore(func(store types.Store) error {
				if err := store.SaveDefinitions(collection, defs); err != nil {
					return err
				}
				return a.writeDefinition(cmd.OutOrStdout(), newDefinitionView(collection, defs, false))
			})
		},
	}
}

func newDefinitionCmd(a *app) *cobra.Command {
	var chunks bool
	cmd := &cobra.Command{
		Use:   "definition <collection>",
		Short: "Print the field definition of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				defs, err := store.LoadDefinitions(args[0])
				if err != nil {
					return err
				}
				return a.writeDefinition(cmd.OutOrStdout(), newDefinitionView(args[0], defs, chunks))
			})
		},
	}
	cmd.Flags().BoolVar(&chunks, "chunks", false, fmt.Sprintf("show the stored chunks of at most %d characters", blocks.MaxChunkLength))
	return cmd
}

// fieldSpec is one entry of a generate input file.
type fieldSpec struct {
	Label    string   `yaml:"label"`
	Type     string   `yaml:"type"`
	Required bool     `yaml:"required"`
	Options  []string `yaml:"options"`
}

type generateFile struct {
	Fields []fieldSpec `yaml:"fields"`
}

// definitionsFromFile reads a YAML (or JSON) field list and returns the
// definitions it describes, checked by parsing their encoded form.
func definitionsFromFile(path string) ([]types.FieldDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userError(err)
	}
	var f generateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMissingDefinition, path, err)
	}
	if len(f.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s has no fields", types.ErrMissingDefinition, path)
	}

	defs := make([]types.FieldDefinition, len(f.Fields))
	for i, s := range f.Fields {
		defs[i] = types.FieldDefinition{
			Label:      s.Label,
			Name:       blocks.FieldName(s.Label),
			Type:       types.FieldType(s.Type),
			IsRequired: s.Required,
			Options:    s.Options,
		}
	}

	encoded := strings.Join(blocks.EncodeDefinitions(defs), "")
	parsed, err := blocks.ParseDefinitions(encoded)
	if err != nil {
		return nil, err
	}
	if len(parsed) != len(defs) {
		return nil, fmt.Errorf("%w: labels must not contain commas", types.ErrInvalidDefinition)
	}
	for i := range parsed {
		if !sameDefinition(parsed[i], defs[i]) {
			return nil, &types.DefinitionError{Fragment: blocks.EncodeFragment(defs[i])}
		}
	}
	return parsed, nil
}

// sameDefinition reports whether a and b describe the same field. Nil and
// empty option lists are equal.
func sameDefinition(a, b types.FieldDefinition) bool {
	return a.Label == b.Label &&
		a.Name == b.Name &&
		a.Type == b.Type &&
		a.IsRequired == b.IsRequired &&
		slices.Equal(a.Options, b.Options)
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		file       string
		collection string
	)
	cmd := &cobra.Command{
		Use:   "generate --file <fields.yaml>",
		Short: "Build a definition string from a field list",
		Long: "Read a YAML or JSON document of the form\n\n" +
			"  fields:\n" +
			"    - label: Title\n" +
			"      type: text\n" +
			"      required: true\n\n" +
			"and print the definition string. With --collection the definition is also stored.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definitionsFromFile(file)
			if err != nil {
				return classify(err)
			}
			if collection == "" {
				return a.writeDefinition(cmd.OutOrStdout(), newDefinitionView("", defs, false))
			}
			return a.withStore(func(store types.Store) error {
				if err := store.SaveDefinitions(collection, defs); err != nil {
					return err
				}
				return a.writeDefinition(cmd.OutOrStdout(), newDefinitionView(collection, defs, false))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "field list file")
	cmd.Flags().StringVar(&collection, "collection", "", "store the definition in this collection")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCollectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				names, err := store.Collections()
				if err != nil {
					return err
				}
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), names)
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <collection>",
		Short: "Remove a collection's definition and blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				if err := store.DeleteCollection(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", args[0])
				return nil
			})
		},
	}
}
