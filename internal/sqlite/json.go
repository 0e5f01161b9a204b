package sqlite

import "encoding/json"

// JSONL record structures. Each line of a data file is one record.

// definitionChunkJSON is one line of definitions.jsonl: a chunk of an
// encoded definition string. Chunks of a collection concatenate in seq
// order.
type definitionChunkJSON struct {
	Collection string `json:"collection"`
	Seq        int    `json:"seq"`
	Chunk      string `json:"chunk"`
}

// blockJSON is one line of blocks.jsonl: a stored block and its position
// within the collection.
type blockJSON struct {
	Collection string          `json:"collection"`
	Position   int             `json:"position"`
	Block      json.RawMessage `json:"block"`
}
