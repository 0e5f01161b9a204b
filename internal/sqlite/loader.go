package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/blocks/pkg/types"
)

// initJSONLFiles creates empty data files that do not exist yet.
func initJSONLFiles(dataDir string) error {
	for _, name := range jsonlFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}

// loadAllJSONL reads the data files into the database in one transaction:
// either every file loads or the database stays empty. Records that fail
// to decode or violate a constraint are skipped. Unknown JSON fields are
// ignored.
func loadAllJSONL(db *sql.DB, dataDir string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	defs, err := readJSONL(filepath.Join(dataDir, definitionsJSONL))
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, rec := range defs {
		var d definitionChunkJSON
		if err := json.Unmarshal(rec, &d); err != nil || d.Collection == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO definitions (collection, seq, chunk) VALUES (?, ?, ?)",
			d.Collection, d.Seq, d.Chunk); err != nil {
			continue
		}
		loaded++
	}

	blocks, err := readJSONL(filepath.Join(dataDir, blocksJSONL))
	if err != nil {
		return 0, err
	}
	for _, rec := range blocks {
		var b blockJSON
		if err := json.Unmarshal(rec, &b); err != nil || b.Collection == "" {
			continue
		}
		id, err := storedBlockID(b.Block)
		if err != nil {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO blocks (collection, position, block_id, body) VALUES (?, ?, ?, ?)",
			b.Collection, b.Position, id, string(b.Block)); err != nil {
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// storedBlockID extracts the id of a stored block body.
func storedBlockID(body json.RawMessage) (string, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return "", err
	}
	if head.ID == "" {
		return "", types.ErrMalformedBlock
	}
	return head.ID, nil
}
