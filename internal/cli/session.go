package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blocks/pkg/blocks"
	"github.com/mesh-intelligence/blocks/pkg/sqlite"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// errFormInvalid is returned when an edit leaves a block with an invalid
// field. Nothing is saved in that case.
var errFormInvalid = errors.New("blocks have invalid fields; nothing was saved")

// withStore attaches a store for the duration of fn and classifies the
// error fn returns.
func (a *app) withStore(fn func(store types.Store) error) error {
	store := sqlite.NewBackend(a.logger)
	if err := store.Attach(a.config); err != nil {
		return sysError(fmt.Errorf("attach store: %w", err))
	}
	defer func() {
		if err := store.Detach(); err != nil {
			a.logger.Warn("detach store", "error", err)
		}
	}()
	return classify(fn(store))
}

// session is one collection loaded for editing.
type session struct {
	store      types.Store
	codec      *blocks.Codec
	collection string
	defs       []types.FieldDefinition
	blocks     []types.Block
}

// loadSession reads the collection's definition and decodes its blocks.
func (a *app) loadSession(store types.Store, collection string) (*session, error) {
	c, err := blocks.NewCodec(a.config.GetStorageMode())
	if err != nil {
		return nil, err
	}
	defs, err := store.LoadDefinitions(collection)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", collection, err)
	}
	stored, err := store.LoadBlocks(collection)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", collection, err)
	}
	current, err := c.FromStorage(stored)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", collection, err)
	}
	return &session{
		store:      store,
		codec:      c,
		collection: collection,
		defs:       defs,
		blocks:     current,
	}, nil
}

// commit saves the session's blocks when every block is valid. Otherwise it
// returns the violations found and errFormInvalid.
func (s *session) commit() ([]blocks.Violation, error) {
	stored, invalid, err := blocks.Commit(s.codec, s.blocks)
	if err != nil {
		return nil, err
	}
	if invalid {
		return blocks.Violations(s.blocks), userError(errFormInvalid)
	}
	return nil, s.store.SaveBlocks(s.collection, stored)
}

// blockIndex returns the position of the block with id, or
// ErrBlockNotFound.
func (s *session) blockIndex(id string) (int, error) {
	for i, b := range s.blocks {
		if b.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", types.ErrBlockNotFound, id)
}

// parseValue decodes a command-line value for a field of type t. Input
// that is not JSON is taken as a literal string for text fields.
func parseValue(t types.FieldType, input string) (types.Value, error) {
	raw := json.RawMessage(input)
	if !json.Valid(raw) {
		if t == types.FieldTypeText {
			return types.TextValue(input), nil
		}
		return nil, fmt.Errorf("%w: %s value is not valid JSON", types.ErrValueMismatch, t)
	}
	return types.DecodeValue(t, raw)
}

// parseAssignment splits a name=value argument.
func parseAssignment(arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: expected name=value, got %q", types.ErrFieldNotFound, arg)
	}
	return name, value, nil
}
